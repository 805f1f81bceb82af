/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package oracle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/s1879281/systemic-investing-evaluation/agents/result"
)

// Decode interprets raw model output. A reply without a decodable JSON object
// is not an error: it comes back with Structured unset and Raw populated.
func Decode(raw string) (*Response, error) {
	resp := &Response{Raw: raw}

	fields, err := result.Extract[map[string]json.RawMessage](raw)
	if err != nil || fields == nil {
		return resp, nil
	}
	resp.Structured = true

	if t, ok := fields["table"]; ok && !isNull(t) {
		resp.Table, resp.HasTable = rawText(t), true
	}

	if o, ok := fields["overall_score"]; ok {
		if v, ok := number(o); ok {
			resp.OverallScore = v
		}
	}

	if s, ok := fields["scores"]; ok && !isNull(s) {
		scores, err := decodeScores(s)
		if err != nil {
			return nil, err
		}
		resp.Scores = scores
	}
	return resp, nil
}

func decodeScores(msg json.RawMessage) (map[string]float64, error) {
	var encoded string
	if err := json.Unmarshal(msg, &encoded); err == nil {
		msg = json.RawMessage(result.Sanitize(encoded))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: scores is not an object: %s", ErrMalformedResponse, truncate(string(msg), 80))
	}

	scores := make(map[string]float64, len(fields))
	for name, v := range fields {
		f, ok := number(v)
		if !ok {
			return nil, fmt.Errorf("%w: score for %q is not a number: %s", ErrMalformedResponse, name, truncate(string(v), 40))
		}
		scores[name] = f
	}
	return scores, nil
}

// number accepts JSON numbers and strings holding a number.
func number(msg json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(msg, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

// rawText returns string values unquoted and any other JSON value compacted.
func rawText(msg json.RawMessage) string {
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, msg); err != nil {
		return string(msg)
	}
	return buf.String()
}

func isNull(msg json.RawMessage) bool {
	return string(bytes.TrimSpace(msg)) == "null"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
