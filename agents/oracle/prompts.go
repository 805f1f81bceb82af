/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package oracle

import (
	"fmt"

	"github.com/s1879281/systemic-investing-evaluation/agents/promptbuilder"
	"github.com/s1879281/systemic-investing-evaluation/agents/schema"
)

var systemTemplate = promptbuilder.MustNewPrompt(`You are a professional systemic investing evaluation expert. Your task is to assess investment cases against the hallmarks of the evaluation framework you are given.

IMPORTANT: You MUST return your response as a single JSON object matching this schema:
{{response_schema}}

For each hallmark, you should:
1. Provide a score from 0 to 10 (with one decimal point)
2. Give a brief justification for the rating
3. Suggest relevant indicators from the provided indicator set

The table must be a markdown table with the columns: Hallmark | Score (0-10) | Justification | Suggested Indicators.
The overall_score must be a number with one decimal point.
The scores object must use the full hallmark title as the key, matching the Hallmark column in the table, and contain a score for every hallmark.

Ensure your evaluation is thorough, objective, and well-justified.`)

// DefaultSystemInstructions renders the system prompt that requests the
// Verdict JSON shape.
func DefaultSystemInstructions() (string, error) {
	verdictSchema, err := schema.ReflectMap[Verdict]()
	if err != nil {
		return "", fmt.Errorf("reflecting verdict schema: %w", err)
	}
	p, err := systemTemplate.BindJSON("response_schema", verdictSchema)
	if err != nil {
		return "", err
	}
	return p.Build()
}
