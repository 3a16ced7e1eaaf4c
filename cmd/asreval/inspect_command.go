package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"asreval/internal/config"
	"asreval/internal/manifest"
	"asreval/internal/textutil"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var path string
	var maxDuration float64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Report sources, durations and foreign characters in a manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-duration") {
				maxDuration = cfg.Manifest.MaxDuration
			}

			foreign, err := textutil.CompileCharset(cfg.Manifest.AllowedChars)
			if err != nil {
				return fmt.Errorf("manifest.allowed_chars: %w", err)
			}
			m, err := manifest.Read(path)
			if err != nil {
				return err
			}
			report := manifest.Inspect(m, manifest.InspectOptions{
				Sources:     sourceRules(cfg.Manifest.Sources),
				MaxDuration: maxDuration,
				Foreign:     foreign,
				SampleLimit: cfg.Manifest.SampleLimit,
			})

			if asJSON {
				return writeJSON(cmd, report)
			}
			out := cmd.OutOrStdout()
			renderInspectReport(out, report, shouldColorize(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "manifest", "m", "", "Manifest to inspect")
	cmd.Flags().Float64Var(&maxDuration, "max-duration", 0, "Duration limit in seconds (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func sourceRules(rules []config.SourceRule) []manifest.SourceRule {
	out := make([]manifest.SourceRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, manifest.SourceRule{Name: r.Name, Patterns: r.Patterns})
	}
	return out
}

func renderInspectReport(out io.Writer, r manifest.Report, colorize bool) {
	printLines(out, renderSectionHeader("Manifest "+r.Path, colorize)...)
	fmt.Fprintln(out, renderStatusLine("Lines", statusInfo, formatCount(r.TotalLines), colorize))
	if len(r.SkippedLines) > 0 {
		fmt.Fprintln(out, renderStatusLine("Malformed", statusWarn,
			fmt.Sprintf("%s lines skipped (first at line %d)", formatCount(len(r.SkippedLines)), r.SkippedLines[0]), colorize))
	}

	if len(r.Sources) > 0 {
		fmt.Fprintln(out)
		printLines(out, renderSectionHeader("Sources", colorize)...)
		rows := make([][]string, 0, len(r.Sources))
		for _, s := range r.Sources {
			rows = append(rows, []string{s.Name, formatCount(s.Count), fmt.Sprintf("%.1f%%", s.Percent)})
		}
		fmt.Fprintln(out, renderTable(
			[]columnSpec{col("Source", alignLeft), col("Entries", alignRight), col("Share", alignRight)},
			rows,
		))
	}

	fmt.Fprintln(out)
	printLines(out, renderSectionHeader("Durations", colorize)...)
	fmt.Fprintln(out, renderTable(
		[]columnSpec{col("Metric", alignLeft), col("Value", alignRight)},
		[][]string{
			{"Total", formatHours(r.TotalHours()) + " h"},
			{"Average", formatSeconds(r.AverageDuration)},
			{"Longest", formatSeconds(r.MaxDuration)},
			{"Over " + formatSeconds(r.DurationLimit), formatCount(r.OverLimit)},
		},
	))
	if r.OverLimit > 0 {
		fmt.Fprintln(out, renderStatusLine("Duration", statusWarn,
			fmt.Sprintf("%s entries exceed %s; run filter to drop them", formatCount(r.OverLimit), formatSeconds(r.DurationLimit)), colorize))
	}

	fmt.Fprintln(out)
	printLines(out, renderSectionHeader("Transcripts", colorize)...)
	if r.Clean() {
		fmt.Fprintln(out, renderStatusLine("Charset", statusOK, "only allowed characters", colorize))
		return
	}
	fmt.Fprintln(out, renderStatusLine("Charset", statusWarn,
		"foreign characters: "+quoteChars(r.ForeignChars), colorize))
	if len(r.DirtySamples) > 0 {
		rows := make([][]string, 0, len(r.DirtySamples))
		for _, s := range r.DirtySamples {
			rows = append(rows, []string{s})
		}
		fmt.Fprintln(out, renderTable([]columnSpec{wrapCol("Sample", transcriptWidth*2)}, rows))
	}
}

func quoteChars(chars []string) string {
	quoted := make([]string, len(chars))
	for i, c := range chars {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return strings.Join(quoted, " ")
}
