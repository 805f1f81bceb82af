/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"fmt"
	"maps"
)

// stringLiteral only accepts untyped string constants at call sites.
type stringLiteral string

// Prompt is a template with named placeholders. Prompts are immutable.
type Prompt struct {
	template string
	bindings map[string]binding
}

// NewPrompt parses template and records its placeholders as unbound.
func NewPrompt(template stringLiteral) (*Prompt, error) {
	bindings := make(map[string]binding)

	tmpl, err := walkTemplate(string(template), func(name string) (string, error) {
		if _, exists := bindings[name]; !exists {
			bindings[name] = &unboundBinding{name: name}
		}
		return "{{" + name + "}}", nil
	})
	if err != nil {
		return nil, err
	}

	return &Prompt{
		template: tmpl,
		bindings: bindings,
	}, nil
}

// GetBindings returns the set of placeholder names in the template.
func (p *Prompt) GetBindings() map[string]struct{} {
	names := make(map[string]struct{}, len(p.bindings))
	for name := range p.bindings {
		names[name] = struct{}{}
	}
	return names
}

// BindStringLiteral binds a developer-supplied constant to name.
func (p *Prompt) BindStringLiteral(name string, value stringLiteral) (*Prompt, error) {
	return p.with(name, &textBinding{val: string(value)})
}

// BindText binds runtime text to name. The text is inserted as-is, so callers
// should only use it for content the oracle is meant to read as prose.
func (p *Prompt) BindText(name, value string) (*Prompt, error) {
	return p.with(name, &textBinding{val: value})
}

// BindJSON binds data to name as indented JSON.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.with(name, &jsonBinding{data: data})
}

// BindYAML binds data to name as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.with(name, &yamlBinding{data: data})
}

func (p *Prompt) with(name string, b binding) (*Prompt, error) {
	if err := existsAndUnbound(p.bindings, name); err != nil {
		return nil, err
	}
	next := &Prompt{
		template: p.template,
		bindings: maps.Clone(p.bindings),
	}
	next.bindings[name] = b
	return next, nil
}

// Build renders the prompt. It fails if any placeholder is unbound or a
// structured binding cannot be marshaled.
func (p *Prompt) Build() (string, error) {
	values := make(map[string]string, len(p.bindings))
	for name, b := range p.bindings {
		val, err := b.value()
		if err != nil {
			return "", err
		}
		values[name] = val
	}

	return walkTemplate(p.template, func(name string) (string, error) {
		val, ok := values[name]
		if !ok {
			return "", fmt.Errorf("internal error: binding %q not found in values map", name)
		}
		return val, nil
	})
}
