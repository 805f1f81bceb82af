/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// AttributeEnricher adds contextual attributes to the base set (model,
// purpose) before a measurement is recorded.
type AttributeEnricher func(ctx context.Context, baseAttrs []attribute.KeyValue) []attribute.KeyValue

type runIDKey struct{}

// WithRunID returns a context carrying the evaluation run identifier.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunID returns the evaluation run identifier carried by ctx, if any.
func RunID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// RunIDEnricher tags measurements with the run_id stored by WithRunID.
func RunIDEnricher(ctx context.Context, baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	if id, ok := RunID(ctx); ok {
		return append(baseAttrs, attribute.String("run_id", id))
	}
	return baseAttrs
}
