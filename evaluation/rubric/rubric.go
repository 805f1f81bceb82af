/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package rubric loads the evaluation framework embedded in every prompt and
// the optional maps that group its criteria.
package rubric

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rubric is an opaque framework document. Its content is passed to the
// oracle unchanged apart from indentation.
type Rubric struct {
	Document json.RawMessage
}

// Parse accepts a JSON document, or YAML which is converted to JSON.
func Parse(data []byte) (*Rubric, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("rubric is empty")
	}
	if json.Valid(data) {
		return &Rubric{Document: json.RawMessage(data)}, nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("rubric is neither JSON nor YAML: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("converting YAML rubric to JSON: %w", err)
	}
	return &Rubric{Document: bytes.TrimSpace(buf.Bytes())}, nil
}

// Load reads and parses the rubric at path.
func Load(path string) (*Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rubric: %w", err)
	}
	return Parse(data)
}

// MarshalJSON implements json.Marshaler so a Rubric binds as its document.
func (r *Rubric) MarshalJSON() ([]byte, error) {
	if len(r.Document) == 0 {
		return []byte("null"), nil
	}
	return r.Document, nil
}
