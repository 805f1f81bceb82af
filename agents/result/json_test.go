/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{{
		name:     "fenced block with text around it",
		input:    "Here is the evaluation:\n```json\n{\"table\": \"x\"}\n```\nThanks.",
		expected: `{"table": "x"}`,
	}, {
		name:     "indented fence markers",
		input:    "  ```json\n{\"a\": 1}\n  ```",
		expected: `{"a": 1}`,
	}, {
		name:     "empty fenced block",
		input:    "```json\n```",
		expected: "",
	}, {
		name:     "generic fence",
		input:    "```\n{\"a\": 1}\n```",
		expected: `{"a": 1}`,
	}, {
		name:     "bare object",
		input:    "  {\"a\": 1}\n",
		expected: `{"a": 1}`,
	}, {
		name:     "prose",
		input:    "Systems thinking is evident throughout.",
		expected: "Systems thinking is evident throughout.",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.input); got != tt.expected {
				t.Errorf("ExtractJSON() = %q, wanted %q", got, tt.expected)
			}
		})
	}
}

func TestObjectSpan(t *testing.T) {
	got, ok := ObjectSpan(`Sure! {"a": {"b": 1}} hope that helps}`)
	if !ok {
		t.Fatal("ObjectSpan() ok = false, wanted true")
	}
	if want := `{"a": {"b": 1}} hope that helps}`; got != want {
		t.Errorf("ObjectSpan() = %q, wanted %q", got, want)
	}

	if _, ok := ObjectSpan("no braces here"); ok {
		t.Error("ObjectSpan() ok = true for text without braces")
	}
	if _, ok := ObjectSpan("} backwards {"); ok {
		t.Error("ObjectSpan() ok = true for reversed braces")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{{
		name:  "raw newline inside string is escaped",
		input: "{\"table\": \"| a |\n| b |\"}",
		want:  `{"table": "| a |\n| b |"}`,
	}, {
		name:  "whitespace between tokens is kept",
		input: "{\n\t\"a\": 1\n}",
		want:  "{\n\t\"a\": 1\n}",
	}, {
		name:  "escaped quote does not end the string",
		input: "{\"a\": \"say \\\"hi\\\"\n\"}",
		want:  `{"a": "say \"hi\"\n"}`,
	}, {
		name:  "stray control characters are dropped",
		input: "{\"a\":\x00 \"b\x07c\"}",
		want:  `{"a": "bc"}`,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize() = %q, wanted %q", got, tt.want)
			}
		})
	}
}

type payload struct {
	Table  string             `json:"table"`
	Scores map[string]float64 `json:"scores"`
}

func TestExtract(t *testing.T) {
	t.Run("fenced", func(t *testing.T) {
		got, err := Extract[payload]("```json\n{\"table\": \"t\", \"scores\": {\"A\": 7.5}}\n```")
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		want := payload{Table: "t", Scores: map[string]float64{"A": 7.5}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("repaired span", func(t *testing.T) {
		got, err := Extract[payload]("Result:\n{\"table\": \"| H |\n| A |\", \"scores\": {}}\nDone.")
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if want := "| H |\n| A |"; got.Table != want {
			t.Errorf("Table = %q, wanted %q", got.Table, want)
		}
	})

	t.Run("prose", func(t *testing.T) {
		_, err := Extract[payload]("I cannot evaluate this document.")
		if !errors.Is(err, ErrNoJSON) {
			t.Errorf("Extract() error = %v, wanted ErrNoJSON", err)
		}
	})

	t.Run("unrepairable", func(t *testing.T) {
		_, err := Extract[payload]("{\"table\": }")
		if err == nil || errors.Is(err, ErrNoJSON) {
			t.Errorf("Extract() error = %v, wanted decode error", err)
		}
	})
}
