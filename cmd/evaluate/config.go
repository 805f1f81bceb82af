/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/s1879281/systemic-investing-evaluation/agents/executor/retry"
	"github.com/s1879281/systemic-investing-evaluation/agents/oracle"
)

// config is read from the environment. Command-line flags override the
// fields they share.
type config struct {
	Model           string `env:"ORACLE_MODEL,default=gpt-4o-mini"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GoogleAPIKey    string `env:"GOOGLE_API_KEY"`
	Project         string `env:"GOOGLE_CLOUD_PROJECT"`
	Region          string `env:"GOOGLE_CLOUD_REGION,default=us-east5"`

	// CallTimeout bounds a single oracle attempt; Deadline bounds the run.
	CallTimeout time.Duration `env:"CALL_TIMEOUT,default=2m"`
	Deadline    time.Duration `env:"DEADLINE,default=0s"`

	MaxRetries  int           `env:"ORACLE_MAX_RETRIES,default=5"`
	BaseBackoff time.Duration `env:"ORACLE_BASE_BACKOFF,default=1s"`
	MaxBackoff  time.Duration `env:"ORACLE_MAX_BACKOFF,default=60s"`

	Concurrency    int    `env:"CONCURRENCY,default=4"`
	MaxTokens      int    `env:"MAX_TOKENS,default=2000"`
	Tokenizer      string `env:"TOKENIZER,default=tiktoken"`
	TokenizerModel string `env:"TOKENIZER_MODEL,default=gpt-4o"`

	MetricsPort int    `env:"METRICS_PORT"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
}

func (c config) oracleConfig() oracle.Config {
	return oracle.Config{
		Model:           c.Model,
		AnthropicAPIKey: c.AnthropicAPIKey,
		GoogleAPIKey:    c.GoogleAPIKey,
		OpenAIAPIKey:    c.OpenAIAPIKey,
		Project:         c.Project,
		Region:          c.Region,
	}
}

func (c config) retryConfig() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxRetries = c.MaxRetries
	cfg.BaseBackoff = c.BaseBackoff
	cfg.MaxBackoff = c.MaxBackoff
	cfg.AttemptTimeout = c.CallTimeout
	return cfg
}

func (c config) logLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}
