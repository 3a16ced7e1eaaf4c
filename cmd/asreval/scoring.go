package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"asreval/internal/config"
	"asreval/internal/history"
	"asreval/internal/logging"
	"asreval/internal/manifest"
	"asreval/internal/metrics"
	"asreval/internal/wer"
)

// scoreOptions is the resolved input for one scoring run.
type scoreOptions struct {
	manifestPath    string
	predictionsPath string
	eval            wer.EvalOptions
	topK            int
	record          bool
	metricsOut      string
}

// scoreReport is what score and watch print, as text or JSON.
type scoreReport struct {
	RunID         string      `json:"run_id,omitempty"`
	Manifest      string      `json:"manifest"`
	Predictions   string      `json:"predictions"`
	Summary       wer.Summary `json:"summary"`
	Worst         []wer.Score `json:"worst_predictions"`
	SkippedLines  []int       `json:"skipped_manifest_lines,omitempty"`
	MetricsOutput string      `json:"metrics_output,omitempty"`
}

// resolveScoreOptions merges scoring flags over config values. Only flags the
// user actually set override the config.
func resolveScoreOptions(cfg *config.Config, flags *scoreFlags, changed func(string) bool) (scoreOptions, error) {
	opts := scoreOptions{
		manifestPath:    flags.manifest,
		predictionsPath: flags.predictions,
		eval: wer.EvalOptions{
			Options: wer.Options{
				CaseInsensitive: cfg.Scoring.CaseInsensitive,
				Delimiter:       cfg.DelimiterRune(),
			},
			Threshold: cfg.Scoring.OffenderThreshold,
			Workers:   cfg.Scoring.Workers,
		},
		topK:       cfg.Scoring.TopK,
		record:     cfg.History.Enabled,
		metricsOut: cfg.Metrics.Textfile,
	}
	if opts.manifestPath == "" {
		return opts, fmt.Errorf("--manifest is required")
	}
	if opts.predictionsPath == "" {
		return opts, fmt.Errorf("--predictions is required")
	}

	if changed("case-sensitive") {
		opts.eval.CaseInsensitive = !flags.caseSensitive
	}
	if changed("delimiter") {
		runes := []rune(flags.delimiter)
		if len(runes) != 1 {
			return opts, fmt.Errorf("--delimiter must be exactly one character, got %q", flags.delimiter)
		}
		opts.eval.Delimiter = runes[0]
	}
	if changed("threshold") {
		if flags.threshold < 0 {
			return opts, fmt.Errorf("--threshold must be >= 0")
		}
		opts.eval.Threshold = flags.threshold
	}
	if changed("top") {
		if flags.topK < 0 {
			return opts, fmt.Errorf("--top must be >= 0")
		}
		opts.topK = flags.topK
	}
	if changed("workers") {
		if flags.workers < 0 {
			return opts, fmt.Errorf("--workers must be >= 0")
		}
		opts.eval.Workers = flags.workers
	}
	if changed("record") {
		opts.record = flags.record
	}
	if changed("metrics-out") {
		expanded, err := config.ExpandPath(flags.metricsOut)
		if err != nil {
			return opts, fmt.Errorf("resolve --metrics-out: %w", err)
		}
		opts.metricsOut = expanded
	}
	return opts, nil
}

// runScore scores one predictions file against its manifest and applies the
// configured side effects: history recording and metrics export.
func runScore(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts scoreOptions) (*scoreReport, error) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	ctx = logging.WithManifest(ctx, opts.manifestPath)
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "score"))

	m, err := manifest.Read(opts.manifestPath)
	if err != nil {
		return nil, err
	}
	report := &scoreReport{
		Manifest:    opts.manifestPath,
		Predictions: opts.predictionsPath,
	}
	if len(m.Skipped) > 0 {
		for _, s := range m.Skipped {
			report.SkippedLines = append(report.SkippedLines, s.Line)
		}
		logging.WarnWithContext(logger, "manifest lines skipped", "manifest_malformed",
			logging.Int("skipped", len(m.Skipped)),
			logging.Int("first_line", m.Skipped[0].Line),
			logging.String(logging.FieldErrorHint, "fix or remove malformed JSON lines"),
			logging.String(logging.FieldImpact, "predictions may pair with the wrong references"))
	}

	hyps, err := manifest.ReadPredictions(opts.predictionsPath)
	if err != nil {
		return nil, err
	}

	corpus, err := wer.Evaluate(ctx, m.References(), hyps, opts.eval)
	if err != nil {
		return nil, fmt.Errorf("score %s: %w", filepath.Base(opts.predictionsPath), err)
	}
	report.Summary = corpus.Finalize()
	report.Worst = corpus.TopOffenders(opts.topK)
	if report.Worst == nil {
		report.Worst = []wer.Score{}
	}

	if report.Summary.Excluded > 0 {
		logging.WarnWithContext(logger, "utterances excluded from WER", "empty_reference",
			logging.Int("excluded", report.Summary.Excluded),
			logging.String(logging.FieldErrorHint, "drop entries with empty text from the manifest"),
			logging.String(logging.FieldImpact, "excluded utterances do not count toward WER"))
	}

	if opts.record {
		store, err := history.Open(cfg)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		id, err := store.Record(ctx, history.Run{
			ID:          runID,
			Manifest:    absPath(opts.manifestPath),
			Predictions: absPath(opts.predictionsPath),
			Summary:     report.Summary,
			Offenders:   corpus.TopOffenders(0),
		})
		if err != nil {
			return nil, err
		}
		report.RunID = id
	}

	if opts.metricsOut != "" {
		exp := metrics.NewExporter()
		exp.Observe(filepath.Base(opts.manifestPath), report.Summary)
		if err := exp.WriteTextfile(opts.metricsOut); err != nil {
			return nil, err
		}
		report.MetricsOutput = opts.metricsOut
	}

	logger.Info("corpus scored",
		logging.Float64("global_wer", report.Summary.GlobalWER),
		logging.Float64("average_wer", report.Summary.AverageWER),
		logging.Int("scored", report.Summary.Scored),
		logging.Int("excluded", report.Summary.Excluded),
		logging.Int("offenders", len(corpus.Offenders())),
	)
	return report, nil
}

func renderScoreReport(out io.Writer, r *scoreReport, colorize bool) {
	s := r.Summary
	printLines(out, renderSectionHeader("Results", colorize)...)
	fmt.Fprintln(out, renderTable(
		[]columnSpec{col("Metric", alignLeft), col("Value", alignRight)},
		[][]string{
			{"Global WER", formatPercent(s.GlobalWER)},
			{"Average WER", formatPercent(s.AverageWER)},
			{"Min WER", formatPercent(s.MinWER)},
			{"Max WER", formatPercent(s.MaxWER)},
			{"Scored", formatCount(s.Scored)},
			{"Excluded", formatCount(s.Excluded)},
			{"Word edits", formatCount(s.TotalEdits)},
			{"Reference words", formatCount(s.TotalWords)},
		},
	))

	if s.Excluded > 0 {
		fmt.Fprintln(out, renderStatusLine("Excluded", statusWarn,
			fmt.Sprintf("%s utterances with empty references", formatCount(s.Excluded)), colorize))
	}
	if len(r.SkippedLines) > 0 {
		fmt.Fprintln(out, renderStatusLine("Manifest", statusWarn,
			fmt.Sprintf("%d malformed lines skipped (first at line %d)", len(r.SkippedLines), r.SkippedLines[0]), colorize))
	}
	if r.RunID != "" {
		fmt.Fprintln(out, renderStatusLine("History", statusOK, "recorded run "+r.RunID, colorize))
	}
	if r.MetricsOutput != "" {
		fmt.Fprintln(out, renderStatusLine("Metrics", statusOK, "wrote "+r.MetricsOutput, colorize))
	}

	fmt.Fprintln(out)
	printLines(out, renderSectionHeader(fmt.Sprintf("Worst predictions (WER > %s)", formatPercent(s.Threshold)), colorize)...)
	if len(r.Worst) == 0 {
		fmt.Fprintln(out, renderStatusLine("Offenders", statusOK, "none above threshold", colorize))
		return
	}
	fmt.Fprintln(out, renderOffenders(r.Worst))
}

func renderOffenders(scores []wer.Score) string {
	rows := make([][]string, 0, len(scores))
	for _, o := range scores {
		rows = append(rows, []string{
			fmt.Sprintf("%d", o.Index+1),
			formatPercent(o.WER),
			o.Reference,
			o.Hypothesis,
		})
	}
	return renderTable(
		[]columnSpec{
			col("Line", alignRight),
			col("WER", alignRight),
			wrapCol("Reference", transcriptWidth),
			wrapCol("Hypothesis", transcriptWidth),
		},
		rows,
	)
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
