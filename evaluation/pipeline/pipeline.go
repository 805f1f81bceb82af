/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/s1879281/systemic-investing-evaluation/agents/oracle"
	"github.com/s1879281/systemic-investing-evaluation/evaluation/aggregate"
	"github.com/s1879281/systemic-investing-evaluation/evaluation/chunker"
	"github.com/s1879281/systemic-investing-evaluation/evaluation/rubric"
	"github.com/s1879281/systemic-investing-evaluation/evaluation/summarize"
	"github.com/s1879281/systemic-investing-evaluation/evaluation/table"
	"github.com/s1879281/systemic-investing-evaluation/evaluation/tokenizer"
)

// ErrAllChunksFailed is returned, joined with every block's error, when no
// block of the document could be evaluated.
var ErrAllChunksFailed = errors.New("every document chunk failed evaluation")

// Pipeline evaluates documents against a rubric. It is safe for concurrent
// use once constructed.
type Pipeline struct {
	oracle     oracle.Interface
	counter    tokenizer.Counter
	summarizer *summarize.Summarizer

	maxTokens           int
	tokenizerModel      string
	concurrency         int
	deadline            time.Duration
	abortOnChunkFailure bool
	observer            func(ChunkEvent)
}

// New creates a Pipeline that asks o for judgments and budgets blocks with
// counter.
func New(o oracle.Interface, counter tokenizer.Counter, opts ...Option) (*Pipeline, error) {
	if o == nil {
		return nil, errors.New("oracle cannot be nil")
	}
	if counter == nil {
		return nil, errors.New("token counter cannot be nil")
	}
	s, err := summarize.New(o)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		oracle:         o,
		counter:        counter,
		summarizer:     s,
		maxTokens:      chunker.DefaultMaxTokens,
		tokenizerModel: tokenizer.DefaultModel,
		concurrency:    DefaultConcurrency,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return p, nil
}

func tracer() oteltrace.Tracer {
	return otel.Tracer("systemic.evaluation.pipeline", oteltrace.WithInstrumentationVersion("1.0.0"))
}

// Evaluate runs the pipeline over document.
func (p *Pipeline) Evaluate(ctx context.Context, document string, r *rubric.Rubric) (res *Result, err error) {
	if r == nil {
		return nil, errors.New("rubric cannot be nil")
	}
	if p.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.deadline)
		defer cancel()
	}

	ctx, span := tracer().Start(ctx, "pipeline.evaluate", oteltrace.WithAttributes(
		attribute.Int("document_length", len(document)),
		attribute.Int("max_tokens", p.maxTokens),
	))
	defer func() {
		switch {
		case err != nil:
			runCounter.WithLabelValues(outcomeFailure).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case res.Partial():
			runCounter.WithLabelValues(outcomePartial).Inc()
			span.SetStatus(codes.Ok, "")
		default:
			runCounter.WithLabelValues(outcomeSuccess).Inc()
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	log := clog.FromContext(ctx)

	blocks, err := chunker.Chunk(document, p.maxTokens, p.tokenizerModel, p.counter)
	if err != nil {
		return nil, fmt.Errorf("chunking document: %w", err)
	}
	span.SetAttributes(attribute.Int("chunks", len(blocks)))
	log.With("chunks", len(blocks)).
		With("max_tokens", p.maxTokens).
		With("concurrency", p.concurrency).
		Info("Evaluating document")

	outcomes, err := p.evaluateBlocks(ctx, blocks, r)
	if err != nil {
		return nil, err
	}

	res = &Result{Chunks: len(blocks)}
	var agg aggregate.Aggregator
	var chunkErrs []error
	for i, o := range outcomes {
		res.Dropped += o.dropped
		if o.err != nil {
			res.Failures = append(res.Failures, Failure{Chunk: i, Err: o.err})
			chunkErrs = append(chunkErrs, fmt.Errorf("chunk %d: %w", i, o.err))
			continue
		}
		agg.Add(i, o.rows)
	}
	if len(res.Failures) == len(blocks) {
		return nil, errors.Join(append([]error{ErrAllChunksFailed}, chunkErrs...)...)
	}
	if res.Partial() {
		log.With("failed", len(res.Failures)).
			With("chunks", len(blocks)).
			Warn("Some chunks failed evaluation, continuing with partial results")
	}

	records := agg.Result()
	res.Order = records.Order
	res.Criteria, err = p.summarizeAll(ctx, records)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type blockOutcome struct {
	rows    []table.Row
	dropped int
	err     error
}

func (p *Pipeline) evaluateBlocks(ctx context.Context, blocks []chunker.Block, r *rubric.Rubric) ([]blockOutcome, error) {
	outcomes := make([]blockOutcome, len(blocks))
	var observerMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, blk := range blocks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			rows, dropped, err := p.evaluateBlock(gctx, blk, r)
			elapsed := time.Since(start)

			outcomes[i] = blockOutcome{rows: rows, dropped: dropped, err: err}
			chunkCounter.WithLabelValues(outcome(err)).Inc()
			chunkDuration.Observe(elapsed.Seconds())
			droppedRowCounter.Add(float64(dropped))

			if p.observer != nil {
				observerMu.Lock()
				p.observer(ChunkEvent{
					Index:     blk.Index,
					FirstLine: blk.FirstLine,
					LineCount: blk.LineCount,
					Tokens:    blk.Tokens,
					Rows:      rows,
					Dropped:   dropped,
					Duration:  elapsed,
					Err:       err,
				})
				observerMu.Unlock()
			}

			if err != nil && p.abortOnChunkFailure {
				return fmt.Errorf("chunk %d: %w", blk.Index, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluating chunks: %w", err)
	}
	return outcomes, nil
}

func (p *Pipeline) evaluateBlock(ctx context.Context, blk chunker.Block, r *rubric.Rubric) (rows []table.Row, dropped int, err error) {
	ctx, span := tracer().Start(ctx, "pipeline.chunk", oteltrace.WithAttributes(
		attribute.Int("chunk", blk.Index),
		attribute.Int("tokens", blk.Tokens),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("rows", len(rows)), attribute.Int("dropped", dropped))
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	log := clog.FromContext(ctx).With("chunk", blk.Index).With("first_line", blk.FirstLine)

	prompt, err := Prompt(r, blk.Text)
	if err != nil {
		return nil, 0, fmt.Errorf("building prompt: %w", err)
	}
	resp, err := p.oracle.Evaluate(ctx, prompt)
	if err != nil {
		return nil, 0, err
	}
	md, err := resp.RequireTable()
	if err != nil {
		return nil, 0, err
	}
	t, err := table.Parse(md)
	if err != nil {
		return nil, 0, err
	}

	if t.Dropped > 0 {
		log.With("dropped", t.Dropped).Warn("Dropped table rows with too few cells")
	}
	log.With("rows", len(t.Rows)).Info("Evaluated chunk")
	return t.Rows, t.Dropped, nil
}

func (p *Pipeline) summarizeAll(ctx context.Context, records *aggregate.Result) (map[string]*CriterionResult, error) {
	ctx, span := tracer().Start(ctx, "pipeline.summarize", oteltrace.WithAttributes(
		attribute.Int("criteria", records.Len()),
	))
	defer span.End()

	results := make([]*CriterionResult, records.Len())
	for i, name := range records.Order {
		rec, _ := records.Get(name)
		results[i] = &CriterionResult{
			Criterion: name,
			MaxScore:  rec.MaxScore,
			Chunks:    rec.Chunks,
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, name := range records.Order {
		rec, _ := records.Get(name)
		for _, purpose := range []summarize.Purpose{summarize.Justification, summarize.Indicators} {
			joined := rec.JoinedJustification
			if purpose == summarize.Indicators {
				joined = rec.JoinedIndicators
			}
			g.Go(func() error {
				text, err := p.summarizer.Summarize(gctx, name, joined, purpose)
				summaryCounter.WithLabelValues(string(purpose), outcome(err)).Inc()
				if err != nil {
					return err
				}
				// Each goroutine owns one field of one result.
				if purpose == summarize.Justification {
					results[i].Justification = text
				} else {
					results[i].Indicators = text
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make(map[string]*CriterionResult, len(results))
	for _, r := range results {
		out[r.Criterion] = r
	}
	return out, nil
}
