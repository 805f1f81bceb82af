/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package aggregate reduces per-chunk table rows into one record per
// criterion.
package aggregate

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/s1879281/systemic-investing-evaluation/evaluation/table"
)

// ChunkRows are the rows parsed from one chunk's table.
type ChunkRows struct {
	Index int
	Rows  []table.Row
}

// Record is the reduction of every row naming one criterion.
type Record struct {
	Criterion string `json:"criterion"`
	// MaxScore is the highest score any chunk gave.
	MaxScore float64 `json:"max_score"`
	// JoinedJustification and JoinedIndicators concatenate the cells with a
	// single space, in chunk order and then row order.
	JoinedJustification string `json:"joined_justification"`
	JoinedIndicators    string `json:"joined_indicators"`
	// Chunks lists the indices of the chunks that mentioned the criterion.
	Chunks []int `json:"chunks"`
}

// Result holds one Record per criterion seen in at least one chunk.
type Result struct {
	Records map[string]*Record
	// Order lists criteria in first-seen order.
	Order []string
}

// Get returns the record for criterion.
func (r *Result) Get(criterion string) (*Record, bool) {
	rec, ok := r.Records[criterion]
	return rec, ok
}

// Len returns the number of criteria seen.
func (r *Result) Len() int {
	return len(r.Order)
}

// Aggregate reduces chunks after ordering them by Index, so the result does
// not depend on the order chunk evaluations finished in.
func Aggregate(chunks []ChunkRows) *Result {
	sorted := slices.Clone(chunks)
	slices.SortStableFunc(sorted, func(a, b ChunkRows) int {
		return cmp.Compare(a.Index, b.Index)
	})

	res := &Result{Records: make(map[string]*Record)}
	justifications := make(map[string][]string)
	indicators := make(map[string][]string)

	for _, chunk := range sorted {
		for _, row := range chunk.Rows {
			rec, ok := res.Records[row.Criterion]
			if !ok {
				rec = &Record{Criterion: row.Criterion, MaxScore: row.Score}
				res.Records[row.Criterion] = rec
				res.Order = append(res.Order, row.Criterion)
			}
			rec.MaxScore = max(rec.MaxScore, row.Score)
			if n := len(rec.Chunks); n == 0 || rec.Chunks[n-1] != chunk.Index {
				rec.Chunks = append(rec.Chunks, chunk.Index)
			}
			justifications[row.Criterion] = append(justifications[row.Criterion], row.Justification)
			indicators[row.Criterion] = append(indicators[row.Criterion], row.Indicators)
		}
	}

	for name, rec := range res.Records {
		rec.JoinedJustification = strings.Join(justifications[name], " ")
		rec.JoinedIndicators = strings.Join(indicators[name], " ")
	}
	return res
}

// Aggregator collects chunk rows as evaluations complete. It is safe for
// concurrent use.
type Aggregator struct {
	mu     sync.Mutex
	chunks []ChunkRows
}

// Add records the rows of chunk index.
func (a *Aggregator) Add(index int, rows []table.Row) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.chunks = append(a.chunks, ChunkRows{Index: index, Rows: rows})
}

// Result aggregates everything added so far.
func (a *Aggregator) Result() *Result {
	a.mu.Lock()
	chunks := slices.Clone(a.chunks)
	a.mu.Unlock()
	return Aggregate(chunks)
}
