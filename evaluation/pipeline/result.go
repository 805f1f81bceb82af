/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"time"

	"github.com/s1879281/systemic-investing-evaluation/evaluation/rubric"
	"github.com/s1879281/systemic-investing-evaluation/evaluation/table"
)

// CriterionResult is the final judgment for one criterion.
type CriterionResult struct {
	Criterion string `json:"criterion"`
	// MaxScore is the highest score across blocks, carried through
	// summarization unchanged.
	MaxScore      float64 `json:"max_score"`
	Justification string  `json:"justification"`
	Indicators    string  `json:"indicators"`
	// Chunks lists the blocks that scored this criterion.
	Chunks []int `json:"chunks"`
}

// Failure records a block whose evaluation failed.
type Failure struct {
	Chunk int   `json:"chunk"`
	Err   error `json:"-"`
}

// Result is the outcome of one Evaluate call. It only holds criteria that
// at least one block scored.
type Result struct {
	Criteria map[string]*CriterionResult
	// Order lists criteria in the order the document first scored them.
	Order []string
	// Chunks is the number of blocks the document was split into.
	Chunks int
	// Failures lists failed blocks in block order.
	Failures []Failure
	// Dropped counts table rows discarded for having too few cells.
	Dropped int
}

// Partial reports whether some blocks failed.
func (r *Result) Partial() bool {
	return len(r.Failures) > 0
}

// Scores returns the max score per criterion.
func (r *Result) Scores() map[string]float64 {
	scores := make(map[string]float64, len(r.Criteria))
	for name, c := range r.Criteria {
		scores[name] = c.MaxScore
	}
	return scores
}

// OverallScore is the mean of the max scores to one decimal, 0 when no
// criterion was scored.
func (r *Result) OverallScore() float64 {
	if len(r.Criteria) == 0 {
		return 0
	}
	var sum float64
	for _, c := range r.Criteria {
		sum += c.MaxScore
	}
	return rubric.Round(sum/float64(len(r.Criteria)), 1)
}

// Ordered returns the criteria in Order.
func (r *Result) Ordered() []*CriterionResult {
	out := make([]*CriterionResult, 0, len(r.Order))
	for _, name := range r.Order {
		out = append(out, r.Criteria[name])
	}
	return out
}

// ChunkEvent describes one finished block evaluation.
type ChunkEvent struct {
	Index int
	// FirstLine and LineCount locate the block in the document.
	FirstLine int
	LineCount int
	Tokens    int
	Rows      []table.Row
	Dropped   int
	Duration  time.Duration
	Err       error
}
