/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"github.com/s1879281/systemic-investing-evaluation/agents/promptbuilder"
	"github.com/s1879281/systemic-investing-evaluation/evaluation/rubric"
)

var evaluationPrompt = promptbuilder.MustNewPrompt(`Please evaluate the following case using the provided framework:

Evaluation Framework (Hallmarks):
{{framework}}

Case Document:
{{document}}`)

// evaluationRequest binds one block and the rubric into evaluationPrompt.
type evaluationRequest struct {
	rubric   *rubric.Rubric
	document string
}

// Bind implements promptbuilder.Bindable.
func (r evaluationRequest) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	p, err := p.BindJSON("framework", r.rubric)
	if err != nil {
		return nil, err
	}
	return p.BindText("document", r.document)
}

// Prompt renders the evaluation prompt for text against r.
func Prompt(r *rubric.Rubric, text string) (string, error) {
	return promptbuilder.Render(evaluationPrompt, evaluationRequest{rubric: r, document: text})
}
