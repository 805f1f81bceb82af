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
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

// Family is a backend family chosen from the model name.
type Family string

const (
	FamilyClaude Family = "claude"
	FamilyGemini Family = "gemini"
	FamilyOpenAI Family = "openai"
)

// Config selects and authenticates a backend.
type Config struct {
	// Model is the model name; its prefix selects the backend.
	Model string
	// AnthropicAPIKey selects the direct Anthropic API for Claude models.
	// Without it Claude is reached through Vertex AI.
	AnthropicAPIKey string
	// GoogleAPIKey selects the Gemini API for Gemini models. Without it
	// Gemini is reached through Vertex AI.
	GoogleAPIKey string
	// OpenAIAPIKey is required for OpenAI models.
	OpenAIAPIKey string
	// Project and Region locate the Vertex AI endpoint.
	Project string
	Region  string
}

// ModelFamily returns the backend family serving model.
func ModelFamily(model string) (Family, error) {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "claude-"):
		return FamilyClaude, nil
	case strings.HasPrefix(m, "gemini-"):
		return FamilyGemini, nil
	case strings.HasPrefix(m, "gpt-"), strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"), strings.HasPrefix(m, "o4"):
		return FamilyOpenAI, nil
	}
	return "", fmt.Errorf("unsupported model: %s (expected claude-*, gemini-*, gpt-* or o*)", model)
}

// New creates an oracle for cfg.Model.
func New(ctx context.Context, cfg Config, opts ...Option) (Interface, error) {
	family, err := ModelFamily(cfg.Model)
	if err != nil {
		return nil, err
	}

	switch family {
	case FamilyClaude:
		clientOpts := []anthropicoption.RequestOption{anthropicoption.WithMaxRetries(0)}
		if cfg.AnthropicAPIKey != "" {
			clientOpts = append(clientOpts, anthropicoption.WithAPIKey(cfg.AnthropicAPIKey))
		} else {
			if err := cfg.requireVertex(); err != nil {
				return nil, err
			}
			clientOpts = append(clientOpts, vertex.WithGoogleAuth(ctx, cfg.Region, cfg.Project))
		}
		return NewClaude(anthropic.NewClient(clientOpts...), cfg.Model, opts...)

	case FamilyGemini:
		cc := &genai.ClientConfig{APIKey: cfg.GoogleAPIKey, Backend: genai.BackendGeminiAPI}
		if cfg.GoogleAPIKey == "" {
			if err := cfg.requireVertex(); err != nil {
				return nil, err
			}
			cc = &genai.ClientConfig{Project: cfg.Project, Location: cfg.Region, Backend: genai.BackendVertexAI}
		}
		client, err := genai.NewClient(ctx, cc)
		if err != nil {
			return nil, fmt.Errorf("failed to create Google AI client: %w", err)
		}
		return NewGoogle(client, cfg.Model, opts...)

	default:
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("an OpenAI API key is required for OpenAI models")
		}
		client := openai.NewClient(
			openaioption.WithAPIKey(cfg.OpenAIAPIKey),
			openaioption.WithMaxRetries(0),
		)
		return NewOpenAI(client, cfg.Model, opts...)
	}
}

func (cfg Config) requireVertex() error {
	if cfg.Project == "" || cfg.Region == "" {
		return fmt.Errorf("model %s needs an API key or a Vertex AI project and region", cfg.Model)
	}
	return nil
}
