/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package pipeline evaluates a long document against a rubric.

Evaluate runs four stages:

 1. chunk the document into token-bounded, line-aligned blocks;
 2. evaluate every block: embed the rubric and the block in a prompt, ask the
    oracle, parse the markdown table it returns;
 3. aggregate the rows of all blocks, keeping each criterion's highest score
    and joining its justifications and indicators in document order;
 4. summarize each criterion's joined justification and joined indicators.

Block evaluations run on a bounded worker pool and summarization starts only
once every block is done. Results are reassembled by block index, so the
outcome does not depend on which call finished first.

A block whose evaluation fails is recorded in Result.Failures and the rest
of the document is still aggregated. Evaluate fails with ErrAllChunksFailed
when no block succeeded. WithAbortOnChunkFailure restores all-or-nothing
behavior. A failed summarization always fails the run.

	p, err := pipeline.New(o, tokenizer.NewTiktoken(),
		pipeline.WithConcurrency(4),
		pipeline.WithObserver(func(ev pipeline.ChunkEvent) {
			log.Printf("chunk %d: %d rows", ev.Index, len(ev.Rows))
		}),
	)
	res, err := p.Evaluate(ctx, document, framework)
*/
package pipeline
