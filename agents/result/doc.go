/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package result extracts JSON payloads from free-form model output.

Oracles are asked for a bare JSON object but routinely wrap it in a ```json
fence, surround it with commentary, or emit raw newlines inside string values
(a markdown table is the usual culprit). Extract tries, in order:

 1. the content of the first ```json fence, or the trimmed text without fences;
 2. the span from the first '{' to the last '}', with control characters inside
    string literals escaped and stray ones outside dropped.

	resp, err := result.Extract[wireResponse](text)
	if errors.Is(err, result.ErrNoJSON) {
		// the model answered in prose
	}
*/
package result
