/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"errors"
	"fmt"
	"time"
)

// DefaultConcurrency bounds in-flight oracle calls when no limit is set.
const DefaultConcurrency = 4

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithMaxTokens sets the per-block token budget.
func WithMaxTokens(n int) Option {
	return func(p *Pipeline) error {
		if n <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", n)
		}
		p.maxTokens = n
		return nil
	}
}

// WithTokenizerModel selects the encoder used to count block tokens.
func WithTokenizerModel(model string) Option {
	return func(p *Pipeline) error {
		if model == "" {
			return errors.New("tokenizer model cannot be empty")
		}
		p.tokenizerModel = model
		return nil
	}
}

// WithConcurrency bounds the number of oracle calls in flight. 1 evaluates
// blocks strictly one after another.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", n)
		}
		p.concurrency = n
		return nil
	}
}

// WithDeadline bounds a whole Evaluate call. Zero means no bound beyond the
// caller's context.
func WithDeadline(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d < 0 {
			return fmt.Errorf("deadline cannot be negative, got %v", d)
		}
		p.deadline = d
		return nil
	}
}

// WithAbortOnChunkFailure makes the first failed block fail the run and
// cancel the remaining block evaluations.
func WithAbortOnChunkFailure() Option {
	return func(p *Pipeline) error {
		p.abortOnChunkFailure = true
		return nil
	}
}

// WithObserver registers a callback invoked once per finished block. Calls
// are serialized.
func WithObserver(fn func(ChunkEvent)) Option {
	return func(p *Pipeline) error {
		if fn == nil {
			return errors.New("observer cannot be nil")
		}
		p.observer = fn
		return nil
	}
}
