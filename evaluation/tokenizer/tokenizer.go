/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package tokenizer counts tokens the way a target model's encoder does.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultModel is the encoder used for chunk budgeting when none is given.
const DefaultModel = "gpt-4o"

// ErrUnknownModel is returned when no encoding is known for a model name.
var ErrUnknownModel = errors.New("unknown tokenizer model")

// Counter reports how many tokens text occupies for model.
type Counter interface {
	CountTokens(text, model string) (int, error)
}

// Tiktoken counts with the BPE encodings published for OpenAI models.
// Encodings are loaded once per model and shared; Tiktoken is safe for
// concurrent use.
type Tiktoken struct {
	mu        sync.Mutex
	encodings map[string]*tiktoken.Tiktoken
}

var _ Counter = (*Tiktoken)(nil)

// NewTiktoken returns an empty encoding cache.
func NewTiktoken() *Tiktoken {
	return &Tiktoken{encodings: make(map[string]*tiktoken.Tiktoken)}
}

func (t *Tiktoken) encoding(model string) (*tiktoken.Tiktoken, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if enc, ok := t.encodings[model]; ok {
		return enc, nil
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownModel, model, err)
	}
	t.encodings[model] = enc
	return enc, nil
}

// CountTokens implements Counter.
func (t *Tiktoken) CountTokens(text, model string) (int, error) {
	enc, err := t.encoding(model)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// Approximate estimates roughly four bytes per token. It needs no encoder
// data and accepts any model name.
type Approximate struct{}

var _ Counter = Approximate{}

// CountTokens implements Counter. Non-empty text counts at least one token.
func (Approximate) CountTokens(text, _ string) (int, error) {
	if text == "" {
		return 0, nil
	}
	return max(1, len(text)/4), nil
}

// Mode names a Counter implementation for configuration.
type Mode string

const (
	ModeTiktoken    Mode = "tiktoken"
	ModeApproximate Mode = "approximate"
)

// New returns the Counter for mode.
func New(mode Mode) (Counter, error) {
	switch Mode(strings.ToLower(string(mode))) {
	case ModeTiktoken, "":
		return NewTiktoken(), nil
	case ModeApproximate:
		return Approximate{}, nil
	}
	return nil, fmt.Errorf("unsupported tokenizer %q (expected %q or %q)", mode, ModeTiktoken, ModeApproximate)
}
