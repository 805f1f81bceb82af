/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/s1879281/systemic-investing-evaluation/agents/executor/retry"
	"github.com/s1879281/systemic-investing-evaluation/agents/metrics"
)

// completion is one backend reply before decoding.
type completion struct {
	text             string
	promptTokens     int64
	completionTokens int64
}

// backend issues a single model call. Retries, decoding and telemetry live
// in oracle.
type backend interface {
	complete(ctx context.Context, system, prompt string) (completion, error)
	retryable(err error) bool
}

type oracle struct {
	model   string
	backend backend
	opts    *options
}

var _ Interface = (*oracle)(nil)

func newOracle(model string, b backend, opts *options) *oracle {
	return &oracle{model: model, backend: b, opts: opts}
}

// Evaluate implements Interface.
func (o *oracle) Evaluate(ctx context.Context, prompt string) (resp *Response, err error) {
	tr := otel.Tracer("systemic.evaluation.oracle", oteltrace.WithInstrumentationVersion("1.0.0"))
	ctx, span := tr.Start(ctx, "oracle.evaluate", oteltrace.WithAttributes(
		attribute.String("model", o.model),
		attribute.Int("prompt_length", len(prompt)),
	))
	start := time.Now()
	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		o.opts.metrics.RecordCall(ctx, o.model, outcome, time.Since(start))
		span.End()
	}()

	log := clog.FromContext(ctx).With("model", o.model)
	log.With("prompt_length", len(prompt)).Debug("Calling oracle")

	resp, err = retry.Do(ctx, o.opts.retryConfig, "oracle.evaluate", o.retryable, func(ctx context.Context) (*Response, error) {
		c, err := o.backend.complete(ctx, o.opts.system, prompt)
		if err != nil {
			return nil, err
		}
		o.opts.metrics.RecordTokens(ctx, o.model, c.promptTokens, c.completionTokens)
		span.SetAttributes(
			attribute.Int64("tokens.prompt", c.promptTokens),
			attribute.Int64("tokens.completion", c.completionTokens),
		)
		return Decode(c.text)
	})
	if err != nil {
		return nil, fmt.Errorf("oracle %s: %w", o.model, err)
	}

	log.With("structured", resp.Structured).
		With("has_table", resp.HasTable).
		With("response_length", len(resp.Raw)).
		Debug("Oracle responded")
	return resp, nil
}

func (o *oracle) retryable(err error) bool {
	return errors.Is(err, ErrMalformedResponse) || o.backend.retryable(err)
}
