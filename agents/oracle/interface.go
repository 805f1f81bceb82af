/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package oracle

import (
	"context"
	"errors"
)

var (
	// ErrNoTable is returned by Response.RequireTable when the reply carries
	// no table field.
	ErrNoTable = errors.New("oracle response has no table")

	// ErrMalformedResponse is returned when the reply is JSON but its scores
	// field cannot be read as a criterion to score mapping.
	ErrMalformedResponse = errors.New("malformed oracle response")
)

// Interface evaluates a prompt and returns the oracle's decoded verdict.
type Interface interface {
	Evaluate(ctx context.Context, prompt string) (*Response, error)
}

// Response is a decoded oracle reply.
type Response struct {
	// Table is the markdown table, valid when HasTable is set.
	Table    string
	HasTable bool
	// OverallScore is the oracle's own average, zero when absent.
	OverallScore float64
	// Scores maps criterion titles to scores, nil when absent.
	Scores map[string]float64
	// Raw is the unmodified reply text.
	Raw string
	// Structured reports whether a JSON object was found in Raw.
	Structured bool
}

// RequireTable returns the table or ErrNoTable.
func (r *Response) RequireTable() (string, error) {
	if !r.HasTable {
		return "", ErrNoTable
	}
	return r.Table, nil
}

// Text returns the table when present and the raw reply otherwise.
func (r *Response) Text() string {
	if r.HasTable {
		return r.Table
	}
	return r.Raw
}

// Verdict is the reply shape requested from every backend. It is the source
// of the structured-output schema.
type Verdict struct {
	Table        string             `json:"table" jsonschema:"required,description=Markdown table with columns: Hallmark | Score (0-10) | Justification | Suggested Indicators"`
	OverallScore float64            `json:"overall_score" jsonschema:"required,description=Average score with one decimal place"`
	Scores       map[string]float64 `json:"scores" jsonschema:"required,description=Score per criterion keyed by the full criterion title used in the table"`
}
