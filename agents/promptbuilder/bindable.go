/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// Bindable is implemented by request types that know how to fill a template.
// The evaluation and summary requests implement it so each prompt is built
// from a shared, pre-parsed template.
type Bindable interface {
	Bind(prompt *Prompt) (*Prompt, error)
}

// Render binds request into prompt and builds the result.
func Render(prompt *Prompt, request Bindable) (string, error) {
	bound, err := request.Bind(prompt)
	if err != nil {
		return "", err
	}
	return bound.Build()
}
