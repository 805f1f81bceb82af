/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package summarize_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/s1879281/systemic-investing-evaluation/agents/oracle"
	"github.com/s1879281/systemic-investing-evaluation/evaluation/summarize"
)

type fakeOracle struct {
	prompts []string
	raw     string
	err     error
}

func (f *fakeOracle) Evaluate(_ context.Context, prompt string) (*oracle.Response, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return oracle.Decode(f.raw)
}

func TestSummarizeUsesTableField(t *testing.T) {
	fo := &fakeOracle{raw: `{"table": "Condensed reasoning.", "overall_score": 0, "scores": {}}`}
	s, err := summarize.New(fo)
	require.NoError(t, err)

	got, err := s.Summarize(context.Background(), "Systems Thinking", "A B", summarize.Justification)
	require.NoError(t, err)
	require.Equal(t, "Condensed reasoning.", got)

	require.Len(t, fo.prompts, 1)
	require.Contains(t, fo.prompts[0], `"Systems Thinking"`)
	require.True(t, strings.HasSuffix(fo.prompts[0], "\n\nA B"))
	require.Contains(t, fo.prompts[0], "Summarize")
}

func TestSummarizeFallsBackToRawText(t *testing.T) {
	for name, raw := range map[string]string{
		"prose":              "- Emissions avoided\n- Jobs created",
		"json without table": `{"summary": "x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			s, err := summarize.New(&fakeOracle{raw: raw})
			require.NoError(t, err)
			got, err := s.Summarize(context.Background(), "Paradigm Evolution", "X Y", summarize.Indicators)
			require.NoError(t, err)
			require.Equal(t, raw, got)
		})
	}
}

func TestSummarizeIndicatorsPrompt(t *testing.T) {
	fo := &fakeOracle{raw: "ok"}
	s, err := summarize.New(fo)
	require.NoError(t, err)
	_, err = s.Summarize(context.Background(), "H", "i1 i2 i1", summarize.Indicators)
	require.NoError(t, err)
	require.Contains(t, fo.prompts[0], "Deduplicate")
	require.Contains(t, fo.prompts[0], "i1 i2 i1")
}

func TestSummarizeErrors(t *testing.T) {
	boom := errors.New("boom")
	s, err := summarize.New(&fakeOracle{err: boom})
	require.NoError(t, err)

	_, err = s.Summarize(context.Background(), "H", "t", summarize.Justification)
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, `"H"`)

	_, err = s.Summarize(context.Background(), "H", "t", summarize.Purpose("tone"))
	require.ErrorContains(t, err, "unknown summary purpose")

	_, err = summarize.New(nil)
	require.Error(t, err)
}

func TestPromptDoesNotExpandBoundText(t *testing.T) {
	p, err := summarize.Request{Criterion: "{{text}}", Text: "{{criterion}}", Purpose: summarize.Justification}.Prompt()
	require.NoError(t, err)
	require.Contains(t, p, `"{{text}}"`)
	require.True(t, strings.HasSuffix(p, "{{criterion}}"))
}
