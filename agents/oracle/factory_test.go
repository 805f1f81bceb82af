/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package oracle_test

import (
	"context"
	"testing"

	"github.com/s1879281/systemic-investing-evaluation/agents/oracle"
)

func TestModelFamily(t *testing.T) {
	tests := []struct {
		model   string
		want    oracle.Family
		wantErr bool
	}{
		{model: "gpt-4o-mini", want: oracle.FamilyOpenAI},
		{model: "o3-mini", want: oracle.FamilyOpenAI},
		{model: "claude-sonnet-4-5", want: oracle.FamilyClaude},
		{model: "Claude-Opus-4", want: oracle.FamilyClaude},
		{model: "gemini-2.5-flash", want: oracle.FamilyGemini},
		{model: "llama-3", wantErr: true},
		{model: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got, err := oracle.ModelFamily(tt.model)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ModelFamily() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ModelFamily() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  oracle.Config
	}{
		{"unknown model", oracle.Config{Model: "mistral-large"}},
		{"openai without key", oracle.Config{Model: "gpt-4o-mini"}},
		{"claude without key or vertex", oracle.Config{Model: "claude-sonnet-4-5"}},
		{"gemini without key or vertex", oracle.Config{Model: "gemini-2.5-pro", Project: "p"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := oracle.New(context.Background(), tt.cfg); err == nil {
				t.Error("New() succeeded, wanted error")
			}
		})
	}
}

func TestNewWithAPIKeys(t *testing.T) {
	for _, cfg := range []oracle.Config{
		{Model: "gpt-4o-mini", OpenAIAPIKey: "sk-test"},
		{Model: "claude-sonnet-4-5", AnthropicAPIKey: "sk-ant-test"},
	} {
		t.Run(cfg.Model, func(t *testing.T) {
			o, err := oracle.New(context.Background(), cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if o == nil {
				t.Fatal("New() returned nil oracle")
			}
		})
	}
}
