/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package table reads per-criterion rows out of the markdown table an oracle
// returns.
//
// The table is expected to have the columns Criterion | Score | Justification
// | Indicators. The first table line is the header and is skipped, delimiter
// rows are skipped, rows with fewer than four cells are dropped and counted,
// and a score that is not a number fails the whole table.
package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidScore is returned when a row's score cell is not a number.
var ErrInvalidScore = errors.New("invalid score")

// Row is one criterion judgment.
type Row struct {
	Criterion     string  `json:"criterion"`
	Score         float64 `json:"score"`
	Justification string  `json:"justification"`
	Indicators    string  `json:"indicators"`
}

// Table is the parsed content of one markdown table.
type Table struct {
	// Rows are in table order, duplicates included.
	Rows []Row
	// Dropped counts body lines with fewer than four cells.
	Dropped int
}

// Parse extracts rows from markdown. Text outside the table is ignored
// because only lines containing '|' are considered.
func Parse(markdown string) (*Table, error) {
	t := &Table{}
	header := true

	for n, line := range strings.Split(markdown, "\n") {
		if !strings.Contains(line, "|") || isDelimiter(line) {
			continue
		}
		if header {
			header = false
			continue
		}

		cells := Cells(line)
		if len(cells) < 4 {
			t.Dropped++
			continue
		}

		score, err := strconv.ParseFloat(cells[1], 64)
		if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
			return nil, fmt.Errorf("%w %q for %q on line %d", ErrInvalidScore, cells[1], cells[0], n+1)
		}
		t.Rows = append(t.Rows, Row{
			Criterion:     cells[0],
			Score:         score,
			Justification: cells[2],
			Indicators:    cells[3],
		})
	}
	return t, nil
}

// Cells splits a table line on '|' and trims every cell. An empty cell
// before the first pipe and after the last pipe is framing and is removed.
func Cells(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// isDelimiter reports header delimiter rows such as "|---|---|" or
// "| :--- | ---: |".
func isDelimiter(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "|--") {
		return true
	}
	cells := Cells(trimmed)
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if c == "" || strings.Trim(c, "-: ") != "" || !strings.Contains(c, "-") {
			return false
		}
	}
	return true
}
