/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder constructs oracle prompts from developer-owned templates.

Templates are literal strings containing {{name}} placeholders. Values are bound
by kind, and every Bind* method returns a new Prompt so a parsed template can be
shared across goroutines:

	var evaluate = promptbuilder.MustNewPrompt(`Evaluation Framework:
	{{rubric}}

	Case Document:
	{{document}}`)

	p, err := evaluate.BindJSON("rubric", rubricDoc)
	if err != nil {
		return err
	}
	p, err = p.BindText("document", block.Text)
	if err != nil {
		return err
	}
	prompt, err := p.Build()

# Binding kinds

  - BindStringLiteral: developer-controlled constants only.
  - BindText: runtime text (document blocks, joined justifications), inserted verbatim.
  - BindJSON: indented JSON; a json.RawMessage keeps its key order.
  - BindYAML: YAML.

Substitution is single pass: placeholders that appear inside bound values are never
expanded. Build fails if any placeholder is still unbound.
*/
package promptbuilder
