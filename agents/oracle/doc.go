/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package oracle sends prompts to a text-evaluation model and decodes its
verdict.

An oracle answers every prompt with the same JSON contract:

	{
	  "table": "| Hallmark | Score (0-10) | Justification | Suggested Indicators |\n...",
	  "overall_score": 6.4,
	  "scores": {"Systems Thinking and Complexity Science": 7.5}
	}

Models drift from that contract in predictable ways, so decoding is lenient:
fenced output is unwrapped, raw newlines inside strings are escaped, a scores
object delivered as a JSON string is decoded again, and a reply that carries
no JSON at all is returned with Structured unset rather than failing. Only a
scores field that is neither an object nor an object-encoding string is an
error (ErrMalformedResponse), and such replies are retried like transport
failures.

Backends exist for Claude (direct API or Vertex AI), Gemini (Gemini API or
Vertex AI) and OpenAI chat models. New picks one from the model name:

	o, err := oracle.New(ctx, oracle.Config{
		Model:        "gpt-4o-mini",
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
	}, oracle.WithRetryConfig(retry.DefaultConfig()))
*/
package oracle
