/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

type claude struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

// NewClaude returns an oracle backed by the Anthropic Messages API. The
// client should have SDK retries disabled; the oracle retries on its own.
func NewClaude(client anthropic.Client, model string, opts ...Option) (Interface, error) {
	if !strings.HasPrefix(strings.ToLower(model), "claude-") {
		return nil, fmt.Errorf("model %q does not appear to be a Claude model (expected claude-* format)", model)
	}
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return newOracle(model, &claude{
		client:      client,
		model:       model,
		maxTokens:   o.maxTokens,
		temperature: o.temperature,
	}, o), nil
}

func (c *claude) complete(ctx context.Context, system, prompt string) (completion, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(c.temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return completion{}, err
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return completion{}, errors.New("claude returned no text content")
	}
	return completion{
		text:             text.String(),
		promptTokens:     msg.Usage.InputTokens,
		completionTokens: msg.Usage.OutputTokens,
	}, nil
}

// retryable reports rate limiting (429), unavailability (503), gateway
// timeouts (504) and overload (529).
func (c *claude) retryable(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 503, 504, 529:
			return true
		}
	}
	return false
}
