/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics records OpenTelemetry measurements for oracle calls.
package metrics

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Outcome labels for RecordCall.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Oracle provides counters for token usage and call volume, and a latency
// histogram. Instruments that fail to initialize degrade to no-ops.
type Oracle struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	calls            metric.Int64Counter
	latency          metric.Float64Histogram
	attrEnricher     AttributeEnricher
}

// NewOracle creates the oracle instruments on the named meter. The model is
// recorded as a dimension, so one meter name serves every backend.
func NewOracle(meterName string) *Oracle {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	promptTokens, err := meter.Int64Counter("oracle.token.prompt",
		metric.WithDescription("The number of prompt tokens sent to the oracle"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create prompt tokens counter, metrics will be disabled", "error", err, "meter", meterName)
		promptTokens = noop.Int64Counter{}
	}

	completionTokens, err := meter.Int64Counter("oracle.token.completion",
		metric.WithDescription("The number of completion tokens returned by the oracle"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create completion tokens counter, metrics will be disabled", "error", err, "meter", meterName)
		completionTokens = noop.Int64Counter{}
	}

	calls, err := meter.Int64Counter("oracle.calls",
		metric.WithDescription("The number of oracle calls by outcome"),
		metric.WithUnit("{calls}"))
	if err != nil {
		slog.Warn("Failed to create call counter, metrics will be disabled", "error", err, "meter", meterName)
		calls = noop.Int64Counter{}
	}

	latency, err := meter.Float64Histogram("oracle.call.duration",
		metric.WithDescription("Wall time of an oracle call including retries"),
		metric.WithUnit("s"))
	if err != nil {
		slog.Warn("Failed to create latency histogram, metrics will be disabled", "error", err, "meter", meterName)
		latency = noop.Float64Histogram{}
	}

	return &Oracle{
		promptTokens:     promptTokens,
		completionTokens: completionTokens,
		calls:            calls,
		latency:          latency,
	}
}

// SetAttributeEnricher sets the enricher applied before every measurement.
func (m *Oracle) SetAttributeEnricher(enricher AttributeEnricher) {
	m.attrEnricher = enricher
}

func (m *Oracle) attrs(ctx context.Context, model string, extra []attribute.KeyValue) []attribute.KeyValue {
	base := []attribute.KeyValue{attribute.String("model", model)}
	if m.attrEnricher != nil {
		base = m.attrEnricher(ctx, base)
	}
	return append(base, extra...)
}

// RecordTokens records prompt and completion token usage.
func (m *Oracle) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64, attrs ...attribute.KeyValue) {
	all := metric.WithAttributes(m.attrs(ctx, model, attrs)...)
	m.promptTokens.Add(ctx, promptTokens, all)
	m.completionTokens.Add(ctx, completionTokens, all)
}

// RecordCall records one finished oracle call and its duration.
func (m *Oracle) RecordCall(ctx context.Context, model, outcome string, elapsed time.Duration, attrs ...attribute.KeyValue) {
	all := m.attrs(ctx, model, append(attrs, attribute.String("outcome", outcome)))
	m.calls.Add(ctx, 1, metric.WithAttributes(all...))
	m.latency.Record(ctx, elapsed.Seconds(), metric.WithAttributes(all...))
}
