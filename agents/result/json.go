/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when the response contains no JSON object at all.
var ErrNoJSON = errors.New("no JSON object found in response")

// ExtractJSON returns the content of the first ```json fenced block in
// responseText. Without such a block it returns the trimmed text with any
// surrounding fence markers removed.
func ExtractJSON(responseText string) string {
	lines := strings.Split(responseText, "\n")
	var buf bytes.Buffer
	inBlock, found := false, false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !inBlock && trimmed == "```json" {
			inBlock, found = true, true
			continue
		}
		if inBlock && trimmed == "```" {
			break
		}
		if inBlock {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(line)
		}
	}

	if found {
		return strings.TrimSpace(buf.String())
	}

	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	return strings.TrimSpace(responseText)
}

// ObjectSpan returns the substring from the first '{' to the last '}'.
func ObjectSpan(responseText string) (string, bool) {
	start := strings.IndexByte(responseText, '{')
	end := strings.LastIndexByte(responseText, '}')
	if start == -1 || end < start {
		return "", false
	}
	return responseText[start : end+1], true
}

// Sanitize makes near-JSON produced by models decodable: control characters
// inside string literals are escaped, control characters between tokens other
// than ordinary whitespace are dropped.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false

	for _, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
				b.WriteRune(r)
			case r == '\\':
				escaped = true
				b.WriteRune(r)
			case r == '"':
				inString = false
				b.WriteRune(r)
			case r == '\n':
				b.WriteString(`\n`)
			case r == '\r':
				b.WriteString(`\r`)
			case r == '\t':
				b.WriteString(`\t`)
			case isControl(r):
				// dropped
			default:
				b.WriteRune(r)
			}
			continue
		}

		switch {
		case r == '"':
			inString = true
			b.WriteRune(r)
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(r)
		case isControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isControl(r rune) bool {
	return r <= 0x1f || (r >= 0x7f && r <= 0x9f)
}

// Extract decodes the JSON object embedded in responseText into T, falling
// back to the repaired object span when the direct decode fails.
func Extract[T any](responseText string) (T, error) {
	var out T

	direct := ExtractJSON(responseText)
	firstErr := json.Unmarshal([]byte(direct), &out)
	if firstErr == nil {
		return out, nil
	}

	span, ok := ObjectSpan(responseText)
	if !ok {
		return out, fmt.Errorf("%w: %w", ErrNoJSON, firstErr)
	}

	out = *new(T)
	if err := json.Unmarshal([]byte(Sanitize(span)), &out); err != nil {
		return out, fmt.Errorf("decoding repaired JSON: %w", err)
	}
	return out, nil
}
