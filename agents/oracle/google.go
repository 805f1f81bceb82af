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

	"google.golang.org/genai"
)

type google struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
	seed        int32
}

// NewGoogle returns an oracle backed by a Gemini model.
func NewGoogle(client *genai.Client, model string, opts ...Option) (Interface, error) {
	if client == nil {
		return nil, errors.New("genai client cannot be nil")
	}
	if !strings.HasPrefix(strings.ToLower(model), "gemini-") {
		return nil, fmt.Errorf("model %q does not appear to be a Gemini model (expected gemini-* format)", model)
	}
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return newOracle(model, &google{
		client:      client,
		model:       model,
		maxTokens:   int32(min(o.maxTokens, 1<<30)),
		temperature: float32(o.temperature),
		seed:        int32(o.seed),
	}, o), nil
}

func ptr[T any](v T) *T {
	return &v
}

func (g *google) complete(ctx context.Context, system, prompt string) (completion, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      ptr(g.temperature),
		Seed:             ptr(g.seed),
		MaxOutputTokens:  g.maxTokens,
		ResponseMIMEType: "application/json",
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return completion{}, err
	}
	if len(resp.Candidates) == 0 {
		return completion{}, errors.New("no content generated - no candidates")
	}

	c := completion{text: resp.Text()}
	if resp.UsageMetadata != nil {
		c.promptTokens = int64(resp.UsageMetadata.PromptTokenCount)
		c.completionTokens = int64(resp.UsageMetadata.CandidatesTokenCount)
	}
	return c, nil
}

// retryable matches quota and transient server errors. The genai SDK does
// not expose typed status codes for every transport, so this inspects the
// message.
func (g *google) retryable(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Resource exhausted") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "Overloaded") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "Internal error") ||
		strings.Contains(errStr, "server error")
}
