/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report renders evaluation results as markdown or JSON.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/s1879281/systemic-investing-evaluation/evaluation/pipeline"
	"github.com/s1879281/systemic-investing-evaluation/evaluation/rubric"
)

// Format selects an output encoding.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// FailureEntry is a failed block in serializable form.
type FailureEntry struct {
	Chunk int    `json:"chunk"`
	Error string `json:"error"`
}

// Report is the presentable form of a pipeline result.
type Report struct {
	RunID        string                      `json:"run_id,omitempty"`
	Model        string                      `json:"model,omitempty"`
	OverallScore float64                     `json:"overall_score"`
	Criteria     []*pipeline.CriterionResult `json:"criteria"`
	Levels       []rubric.GroupScore         `json:"system_change_levels,omitempty"`
	Conditions   []rubric.GroupScore         `json:"system_change_conditions,omitempty"`
	Chunks       int                         `json:"chunks"`
	Dropped      int                         `json:"dropped_rows"`
	Failures     []FailureEntry              `json:"failures,omitempty"`
}

// New builds a Report from res. Group averages are computed for the level
// and condition maps when given.
func New(res *pipeline.Result, levels, conditions rubric.Groups) *Report {
	r := &Report{
		OverallScore: res.OverallScore(),
		Criteria:     res.Ordered(),
		Chunks:       res.Chunks,
		Dropped:      res.Dropped,
	}
	scores := res.Scores()
	if len(levels) > 0 {
		r.Levels = levels.Averages(scores)
	}
	if len(conditions) > 0 {
		r.Conditions = conditions.Averages(scores)
	}
	for _, f := range res.Failures {
		r.Failures = append(r.Failures, FailureEntry{Chunk: f.Chunk, Error: f.Err.Error()})
	}
	return r
}

// Write renders r to w in format.
func Write(w io.Writer, format Format, r *Report) error {
	switch format {
	case FormatMarkdown, "":
		return Markdown(w, r)
	case FormatJSON:
		return JSON(w, r)
	}
	return fmt.Errorf("unsupported report format %q (expected %q or %q)", format, FormatMarkdown, FormatJSON)
}

// JSON writes r as indented JSON.
func JSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Markdown writes r as a markdown document.
func Markdown(w io.Writer, r *Report) error {
	var buf bytes.Buffer

	buf.WriteString("# Evaluation Report\n\n")
	if r.RunID != "" {
		fmt.Fprintf(&buf, "Run: `%s`", r.RunID)
		if r.Model != "" {
			fmt.Fprintf(&buf, " (model `%s`)", r.Model)
		}
		buf.WriteString("\n\n")
	}
	fmt.Fprintf(&buf, "**Overall score:** %.1f / 10\n\n", r.OverallScore)
	fmt.Fprintf(&buf, "Evaluated %d chunk(s)", r.Chunks)
	if len(r.Failures) > 0 {
		fmt.Fprintf(&buf, ", %d failed", len(r.Failures))
	}
	if r.Dropped > 0 {
		fmt.Fprintf(&buf, ", %d malformed row(s) dropped", r.Dropped)
	}
	buf.WriteString(".\n\n")

	buf.WriteString("## Hallmarks\n\n")
	if len(r.Criteria) == 0 {
		buf.WriteString("No hallmark was scored.\n")
	} else {
		table := createStandardTable([]string{"Hallmark", "Score (0-10)", "Justification", "Suggested Indicators"}, &buf)
		for _, c := range r.Criteria {
			_ = table.Append([]string{cell(c.Criterion), fmt.Sprintf("%.1f", c.MaxScore), cell(c.Justification), cell(c.Indicators)})
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("rendering hallmark table: %w", err)
		}
	}

	for _, section := range []struct {
		title  string
		scores []rubric.GroupScore
	}{
		{"System Change Levels", r.Levels},
		{"System Change Conditions", r.Conditions},
	} {
		if len(section.scores) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "\n## %s\n\n", section.title)
		table := createStandardTable([]string{"Group", "Average", "Scored"}, &buf)
		for _, g := range section.scores {
			_ = table.Append([]string{cell(g.Name), fmt.Sprintf("%.2f", g.Average), fmt.Sprintf("%d/%d", g.Scored, g.Members)})
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("rendering %s table: %w", strings.ToLower(section.title), err)
		}
	}

	if len(r.Failures) > 0 {
		buf.WriteString("\n## Failed Chunks\n\n")
		for _, f := range r.Failures {
			fmt.Fprintf(&buf, "- chunk %d: %s\n", f.Chunk, f.Error)
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// cell flattens text so it stays inside one markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", "<br>")
}

func createStandardTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
