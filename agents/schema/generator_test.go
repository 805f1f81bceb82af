/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/s1879281/systemic-investing-evaluation/agents/schema"
)

type verdict struct {
	Table        string             `json:"table" jsonschema:"required,description=Markdown evaluation table"`
	OverallScore float64            `json:"overall_score" jsonschema:"required"`
	Scores       map[string]float64 `json:"scores" jsonschema:"required"`
	Notes        string             `json:"notes,omitempty"`
}

func TestReflectType(t *testing.T) {
	s := schema.ReflectType[verdict]()
	require.NotNil(t, s)
	require.Equal(t, "object", s.Type)
	require.Empty(t, s.Ref)
	require.Empty(t, s.Definitions)
	require.ElementsMatch(t, []string{"table", "overall_score", "scores"}, s.Required)

	table, ok := s.Properties.Get("table")
	require.True(t, ok)
	require.Equal(t, "string", table.Type)
	require.Equal(t, "Markdown evaluation table", table.Description)

	scores, ok := s.Properties.Get("scores")
	require.True(t, ok)
	require.Equal(t, "object", scores.Type)
	require.NotNil(t, scores.AdditionalProperties)
	require.Equal(t, "number", scores.AdditionalProperties.Type)
}

func TestReflectMap(t *testing.T) {
	m, err := schema.ReflectMap[verdict]()
	require.NoError(t, err)
	require.Equal(t, "object", m["type"])
	require.NotContains(t, m, "$schema")
	require.NotContains(t, m, "$id")

	props, ok := m["properties"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, props, "overall_score")
	require.Contains(t, props, "notes")
}
