/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package oracle

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"github.com/s1879281/systemic-investing-evaluation/agents/schema"
)

type openaiChat struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature float64
	seed        int64
	schema      map[string]any
}

// NewOpenAI returns an oracle backed by the Chat Completions API, requesting
// the Verdict schema as structured output.
func NewOpenAI(client openai.Client, model string, opts ...Option) (Interface, error) {
	if model == "" {
		return nil, errors.New("model cannot be empty")
	}
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	verdictSchema, err := schema.ReflectMap[Verdict]()
	if err != nil {
		return nil, fmt.Errorf("reflecting verdict schema: %w", err)
	}
	return newOracle(model, &openaiChat{
		client:      client,
		model:       model,
		maxTokens:   o.maxTokens,
		temperature: o.temperature,
		seed:        o.seed,
		schema:      verdictSchema,
	}, o), nil
}

func (c *openaiChat) complete(ctx context.Context, system, prompt string) (completion, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(c.model),
		Messages:            messages,
		Temperature:         openai.Float(c.temperature),
		TopP:                openai.Float(1),
		Seed:                openai.Int(c.seed),
		MaxCompletionTokens: openai.Int(c.maxTokens),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "evaluation_verdict",
					Schema: c.schema,
					// Scores are keyed by criterion title, which strict mode cannot express.
					Strict: openai.Bool(false),
				},
			},
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return completion{}, err
	}
	if len(resp.Choices) == 0 {
		return completion{}, errors.New("openai returned no choices")
	}
	return completion{
		text:             resp.Choices[0].Message.Content,
		promptTokens:     resp.Usage.PromptTokens,
		completionTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (c *openaiChat) retryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 408, 429, 500, 502, 503, 504:
			return true
		}
	}
	return false
}
