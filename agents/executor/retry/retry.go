/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry runs oracle calls with bounded exponential backoff.
//
// Every attempt is a whole call: a failed attempt's output is discarded and
// the next attempt starts from scratch with a fresh per-attempt deadline.
package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config configures retry behavior for oracle calls.
type Config struct {
	// MaxRetries is the maximum number of retry attempts (default: 5).
	// 0 means do not retry at all.
	MaxRetries int
	// BaseBackoff is the initial backoff duration (default: 1s).
	BaseBackoff time.Duration
	// MaxBackoff is the maximum backoff duration (default: 60s).
	MaxBackoff time.Duration
	// MaxJitter is the maximum random jitter added to backoff (default: 500ms).
	MaxJitter time.Duration
	// AttemptTimeout bounds a single attempt. Zero means no per-attempt bound.
	// An attempt that runs out of time is retried.
	AttemptTimeout time.Duration
}

// Validate checks that the retry configuration has valid values.
func (c Config) Validate() error {
	if c.MaxRetries < 0 {
		return errors.New("max retries cannot be negative")
	}
	if c.BaseBackoff < 0 {
		return errors.New("base backoff cannot be negative")
	}
	if c.MaxBackoff < 0 {
		return errors.New("max backoff cannot be negative")
	}
	if c.MaxJitter < 0 {
		return errors.New("max jitter cannot be negative")
	}
	if c.AttemptTimeout < 0 {
		return errors.New("attempt timeout cannot be negative")
	}
	return nil
}

// DefaultConfig returns a retry configuration suitable for rate limited
// model APIs.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  5,
		BaseBackoff: 1 * time.Second,
		MaxBackoff:  60 * time.Second,
		MaxJitter:   500 * time.Millisecond,
	}
}

// Do executes fn with exponential backoff. Errors are retried only when
// isRetryable reports true, or when the attempt exceeded AttemptTimeout while
// the parent context is still live.
func Do[T any](ctx context.Context, cfg Config, operation string, isRetryable func(error) bool, fn func(context.Context) (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		var timedOut bool
		result, timedOut, lastErr = runAttempt(ctx, cfg.AttemptTimeout, fn)
		if lastErr == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return result, lastErr
		}
		if !timedOut && !isRetryable(lastErr) {
			return result, lastErr
		}
		if attempt >= cfg.MaxRetries {
			break
		}

		backoff := min(cfg.BaseBackoff<<attempt, cfg.MaxBackoff)

		var jitter time.Duration
		if cfg.MaxJitter > 0 {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(cfg.MaxJitter)))
			if err == nil {
				jitter = time.Duration(n.Int64())
			}
		}

		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("max_retries", cfg.MaxRetries).
			With("backoff", backoff+jitter).
			With("timed_out", timedOut).
			With("error", lastErr.Error()).
			Warn("Oracle call failed, retrying")

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(backoff + jitter):
		}
	}

	return result, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxRetries, lastErr)
}

func runAttempt[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, bool, error) {
	if timeout <= 0 {
		res, err := fn(ctx)
		return res, false, err
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := fn(actx)
	timedOut := err != nil && errors.Is(actx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
	return res, timedOut, err
}
