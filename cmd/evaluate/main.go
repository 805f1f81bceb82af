/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Command evaluate scores a plain-text case document against a hallmark
// framework using a language model as the judge.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/s1879281/systemic-investing-evaluation/agents/metrics"
	"github.com/s1879281/systemic-investing-evaluation/agents/oracle"
	"github.com/s1879281/systemic-investing-evaluation/evaluation/pipeline"
	"github.com/s1879281/systemic-investing-evaluation/evaluation/report"
	"github.com/s1879281/systemic-investing-evaluation/evaluation/rubric"
	"github.com/s1879281/systemic-investing-evaluation/evaluation/tokenizer"
)

// newOracle is replaced in tests.
var newOracle = oracle.New

type flags struct {
	document       string
	rubric         string
	levels         string
	conditions     string
	format         string
	output         string
	model          string
	maxTokens      int
	concurrency    int
	abortOnFailure bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		clog.FatalContextf(ctx, "evaluate: %v", err)
	}
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "evaluate [document]",
		Short: "Evaluate a case document against a hallmark framework",
		Long: `Split a long plain-text case document into token-bounded chunks, have a
language model score every chunk against the framework, and merge the
per-chunk judgments into one report.

The document is read from the positional argument, --document, or stdin when
neither is given or the path is "-". Oracle credentials and tuning come from
the environment (ORACLE_MODEL, OPENAI_API_KEY, ANTHROPIC_API_KEY,
GOOGLE_API_KEY, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_REGION, CALL_TIMEOUT,
DEADLINE, CONCURRENCY, MAX_TOKENS, TOKENIZER, METRICS_PORT, LOG_LEVEL).

Usage:
  evaluate --rubric hallmarks.json case.txt
  cat case.txt | evaluate -r hallmarks.yaml --levels levels.json -f json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if f.document != "" {
					return errors.New("pass the document either as an argument or with --document, not both")
				}
				f.document = args[0]
			}

			var cfg config
			if err := envconfig.Process(cmd.Context(), &cfg); err != nil {
				return fmt.Errorf("processing config: %w", err)
			}
			fl := cmd.Flags()
			if fl.Changed("model") {
				cfg.Model = f.model
			}
			if fl.Changed("max-tokens") {
				cfg.MaxTokens = f.maxTokens
			}
			if fl.Changed("concurrency") {
				cfg.Concurrency = f.concurrency
			}
			return run(cmd.Context(), cfg, f, stdin, stdout, stderr)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.document, "document", "d", "", `Path to the plain-text case document ("-" for stdin)`)
	fl.StringVarP(&f.rubric, "rubric", "r", "", "Path to the evaluation framework (JSON or YAML)")
	fl.StringVar(&f.levels, "levels", "", "Path to the system change level to hallmarks map")
	fl.StringVar(&f.conditions, "conditions", "", "Path to the system change condition to hallmarks map")
	fl.StringVarP(&f.format, "format", "f", string(report.FormatMarkdown), "Report format: markdown or json")
	fl.StringVarP(&f.output, "output", "o", "", "Write the report to this file instead of stdout")
	fl.StringVar(&f.model, "model", "", "Oracle model (default: $ORACLE_MODEL)")
	fl.IntVar(&f.maxTokens, "max-tokens", 0, "Token budget per chunk (default: $MAX_TOKENS)")
	fl.IntVar(&f.concurrency, "concurrency", 0, "Maximum concurrent oracle calls (default: $CONCURRENCY)")
	fl.BoolVar(&f.abortOnFailure, "abort-on-failure", false, "Fail the run on the first chunk that cannot be evaluated")
	_ = cmd.MarkFlagRequired("rubric")
	return cmd
}

func run(ctx context.Context, cfg config, f flags, stdin io.Reader, stdout, stderr io.Writer) error {
	switch report.Format(f.format) {
	case report.FormatMarkdown, report.FormatJSON:
	default:
		return fmt.Errorf("unsupported report format %q (expected %q or %q)", f.format, report.FormatMarkdown, report.FormatJSON)
	}
	level, err := cfg.logLevel()
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	logger := clog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).With("run_id", runID)
	ctx = clog.WithLogger(ctx, logger)
	ctx = metrics.WithRunID(ctx, runID)

	if cfg.MetricsPort > 0 {
		stop := serveMetrics(ctx, cfg.MetricsPort)
		defer stop()
	}

	document, err := readDocument(f.document, stdin)
	if err != nil {
		return err
	}
	framework, err := rubric.Load(f.rubric)
	if err != nil {
		return err
	}
	var levels, conditions rubric.Groups
	if f.levels != "" {
		if levels, err = rubric.LoadGroups(f.levels); err != nil {
			return err
		}
	}
	if f.conditions != "" {
		if conditions, err = rubric.LoadGroups(f.conditions); err != nil {
			return err
		}
	}

	counter, err := tokenizer.New(tokenizer.Mode(cfg.Tokenizer))
	if err != nil {
		return err
	}
	o, err := newOracle(ctx, cfg.oracleConfig(),
		oracle.WithRetryConfig(cfg.retryConfig()),
		oracle.WithAttributeEnricher(metrics.RunIDEnricher),
	)
	if err != nil {
		return fmt.Errorf("creating oracle: %w", err)
	}

	opts := []pipeline.Option{
		pipeline.WithMaxTokens(cfg.MaxTokens),
		pipeline.WithTokenizerModel(cfg.TokenizerModel),
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithDeadline(cfg.Deadline),
		pipeline.WithObserver(func(ev pipeline.ChunkEvent) {
			log := clog.FromContext(ctx).With("chunk", ev.Index).
				With("lines", fmt.Sprintf("%d-%d", ev.FirstLine, ev.FirstLine+ev.LineCount-1)).
				With("duration", ev.Duration.Round(time.Millisecond))
			if ev.Err != nil {
				log.With("error", ev.Err.Error()).Warn("Chunk evaluation failed")
				return
			}
			log.With("rows", len(ev.Rows)).Info("Chunk evaluated")
		}),
	}
	if f.abortOnFailure {
		opts = append(opts, pipeline.WithAbortOnChunkFailure())
	}
	p, err := pipeline.New(o, counter, opts...)
	if err != nil {
		return err
	}

	clog.InfoContextf(ctx, "Evaluating %d bytes with %s", len(document), cfg.Model)
	res, err := p.Evaluate(ctx, document, framework)
	if err != nil {
		return err
	}

	rep := report.New(res, levels, conditions)
	rep.RunID = runID
	rep.Model = cfg.Model

	out := stdout
	if f.output != "" {
		file, err := os.Create(f.output)
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		defer file.Close()
		out = file
	}
	if err := report.Write(out, report.Format(f.format), rep); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	clog.InfoContextf(ctx, "Overall score %.1f across %d hallmarks", rep.OverallScore, len(rep.Criteria))
	return nil
}

func readDocument(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return string(data), nil
}

// serveMetrics exposes the Prometheus registry until the returned func runs.
func serveMetrics(ctx context.Context, port int) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			clog.FromContext(ctx).With("error", err.Error()).Warn("Metrics server stopped")
		}
	}()
	clog.InfoContextf(ctx, "Serving metrics on :%d/metrics", port)
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
