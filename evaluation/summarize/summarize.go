/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package summarize condenses the text joined across chunks for one
// criterion with a single oracle call.
package summarize

import (
	"context"
	"errors"
	"fmt"

	"github.com/s1879281/systemic-investing-evaluation/agents/oracle"
	"github.com/s1879281/systemic-investing-evaluation/agents/promptbuilder"
)

// Purpose selects what is being condensed.
type Purpose string

const (
	Justification Purpose = "justification"
	Indicators    Purpose = "indicators"
)

var (
	justificationPrompt = promptbuilder.MustNewPrompt(`Summarize the following evaluation justifications for the hallmark "{{criterion}}" into one concise explanation.

{{text}}`)

	indicatorsPrompt = promptbuilder.MustNewPrompt(`Deduplicate, group and summarize the following suggested indicators for the hallmark "{{criterion}}" into one concise list of recommended indicators.

{{text}}`)
)

// Request is one summarization job.
type Request struct {
	Criterion string
	Text      string
	Purpose   Purpose
}

// Bind implements promptbuilder.Bindable.
func (r Request) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	p, err := p.BindText("criterion", r.Criterion)
	if err != nil {
		return nil, err
	}
	return p.BindText("text", r.Text)
}

// Prompt renders the instruction sent to the oracle for r.
func (r Request) Prompt() (string, error) {
	switch r.Purpose {
	case Justification:
		return promptbuilder.Render(justificationPrompt, r)
	case Indicators:
		return promptbuilder.Render(indicatorsPrompt, r)
	}
	return "", fmt.Errorf("unknown summary purpose %q", r.Purpose)
}

// Summarizer issues summarization calls.
type Summarizer struct {
	oracle oracle.Interface
}

// New returns a Summarizer that calls o.
func New(o oracle.Interface) (*Summarizer, error) {
	if o == nil {
		return nil, errors.New("oracle cannot be nil")
	}
	return &Summarizer{oracle: o}, nil
}

// Summarize asks the oracle to condense joined for criterion. When the
// reply carries a table field its content is the summary; otherwise the raw
// reply is used verbatim.
func (s *Summarizer) Summarize(ctx context.Context, criterion, joined string, purpose Purpose) (string, error) {
	prompt, err := Request{Criterion: criterion, Text: joined, Purpose: purpose}.Prompt()
	if err != nil {
		return "", err
	}
	resp, err := s.oracle.Evaluate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summarizing %s for %q: %w", purpose, criterion, err)
	}
	return resp.Text(), nil
}
