/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package oracle

import (
	"errors"
	"fmt"

	"github.com/s1879281/systemic-investing-evaluation/agents/executor/retry"
	"github.com/s1879281/systemic-investing-evaluation/agents/metrics"
)

// MeterName is the otel meter shared by every backend; the model is a
// dimension on each measurement.
const MeterName = "systemic.evaluation.oracle"

type options struct {
	maxTokens   int64
	temperature float64
	seed        int64
	system      string
	retryConfig retry.Config
	metrics     *metrics.Oracle
}

func defaultOptions() *options {
	return &options{
		maxTokens:   8192,
		temperature: 0,
		seed:        42,
		retryConfig: retry.DefaultConfig(),
		metrics:     metrics.NewOracle(MeterName),
	}
}

// Option configures an oracle.
type Option func(*options) error

// WithMaxTokens bounds the length of each reply.
func WithMaxTokens(tokens int64) Option {
	return func(o *options) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		o.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature. The default is 0.
func WithTemperature(temp float64) Option {
	return func(o *options) error {
		if temp < 0.0 || temp > 1.0 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
		}
		o.temperature = temp
		return nil
	}
}

// WithSeed sets the sampling seed on backends that support one.
func WithSeed(seed int64) Option {
	return func(o *options) error {
		o.seed = seed
		return nil
	}
}

// WithSystemInstructions replaces the default system prompt.
func WithSystemInstructions(system string) Option {
	return func(o *options) error {
		if system == "" {
			return errors.New("system instructions cannot be empty")
		}
		o.system = system
		return nil
	}
}

// WithRetryConfig sets the retry policy applied to every call.
func WithRetryConfig(cfg retry.Config) Option {
	return func(o *options) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		o.retryConfig = cfg
		return nil
	}
}

// WithAttributeEnricher adds contextual attributes to oracle metrics.
func WithAttributeEnricher(enricher metrics.AttributeEnricher) Option {
	return func(o *options) error {
		o.metrics.SetAttributeEnricher(enricher)
		return nil
	}
}

func applyOptions(opts []Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	if o.system == "" {
		system, err := DefaultSystemInstructions()
		if err != nil {
			return nil, err
		}
		o.system = system
	}
	return o, nil
}
