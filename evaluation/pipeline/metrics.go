/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chunkCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_chunks_total",
			Help: "Total number of document blocks evaluated, by outcome",
		},
		[]string{"outcome"},
	)

	chunkDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evaluation_chunk_duration_seconds",
			Help:    "Time to evaluate one document block",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	droppedRowCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "evaluation_dropped_rows_total",
			Help: "Total number of table rows dropped for having too few cells",
		},
	)

	summaryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_summaries_total",
			Help: "Total number of summarization calls, by purpose and outcome",
		},
		[]string{"purpose", "outcome"},
	)

	runCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_runs_total",
			Help: "Total number of document evaluations, by outcome",
		},
		[]string{"outcome"},
	)
)

const (
	outcomeSuccess = "success"
	outcomePartial = "partial"
	outcomeFailure = "failure"
)

func outcome(err error) string {
	if err != nil {
		return outcomeFailure
	}
	return outcomeSuccess
}
