/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package chunker splits a document into line-aligned blocks that fit a
// token budget.
//
// Lines are never split. A block closes when the next line would push its
// token total over the budget, so a single line longer than the budget
// becomes a block of its own. Joining every block's text with "\n"
// reproduces the input exactly.
package chunker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/s1879281/systemic-investing-evaluation/evaluation/tokenizer"
)

// DefaultMaxTokens is the per-block budget used when none is configured.
const DefaultMaxTokens = 2000

// ErrInvalidBudget is returned for a non-positive token budget.
var ErrInvalidBudget = errors.New("max tokens must be positive")

// Block is a contiguous run of document lines.
type Block struct {
	// Index is the block's position in document order, starting at 0.
	Index int
	// Text is the block's lines joined with "\n".
	Text string
	// Tokens is the sum of the per-line token counts.
	Tokens int
	// FirstLine is the 1-based document line number of the block's first line.
	FirstLine int
	// LineCount is the number of lines in the block.
	LineCount int
}

// Chunk splits text on "\n" and groups lines into blocks of at most
// maxTokens tokens as counted by counter for model. Empty text yields one
// block holding the empty line.
func Chunk(text string, maxTokens int, model string, counter tokenizer.Counter) ([]Block, error) {
	if maxTokens <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidBudget, maxTokens)
	}

	lines := strings.Split(text, "\n")
	var (
		blocks  []Block
		current []string
		count   int
		first   = 1
	)
	flush := func() {
		blocks = append(blocks, Block{
			Index:     len(blocks),
			Text:      strings.Join(current, "\n"),
			Tokens:    count,
			FirstLine: first,
			LineCount: len(current),
		})
	}

	for i, line := range lines {
		n, err := counter.CountTokens(line, model)
		if err != nil {
			return nil, fmt.Errorf("counting tokens on line %d: %w", i+1, err)
		}
		if len(current) > 0 && count+n > maxTokens {
			flush()
			current, count, first = nil, 0, i+1
		}
		current = append(current, line)
		count += n
	}
	if len(current) > 0 {
		flush()
	}
	return blocks, nil
}

// Join reassembles the document from its blocks.
func Join(blocks []Block) string {
	texts := make([]string, len(blocks))
	for i, b := range blocks {
		texts[i] = b.Text
	}
	return strings.Join(texts, "\n")
}
