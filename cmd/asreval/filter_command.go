package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"asreval/internal/config"
	"asreval/internal/logging"
	"asreval/internal/manifest"
)

type filterResult struct {
	Input          string  `json:"input"`
	Output         string  `json:"output"`
	MaxDuration    float64 `json:"max_duration"`
	Seed           uint64  `json:"seed"`
	Kept           int     `json:"kept"`
	Removed        int     `json:"removed"`
	SkippedLines   int     `json:"skipped_lines"`
	EstimatedHours float64 `json:"estimated_hours"`
}

func newFilterCommand(ctx *commandContext) *cobra.Command {
	var input, output string
	var maxDuration float64
	var seed uint64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Drop long utterances and shuffle a manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "filter")

			if !cmd.Flags().Changed("max-duration") {
				maxDuration = cfg.Manifest.MaxDuration
			}
			if maxDuration <= 0 {
				return fmt.Errorf("--max-duration must be positive")
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Manifest.ShuffleSeed
			}
			outPath, err := config.ExpandPath(output)
			if err != nil {
				return fmt.Errorf("resolve --output: %w", err)
			}

			m, err := manifest.Read(input)
			if err != nil {
				return err
			}
			if len(m.Skipped) > 0 {
				logging.WarnWithContext(logger, "manifest lines skipped", "manifest_malformed",
					logging.Int("skipped", len(m.Skipped)),
					logging.Int("first_line", m.Skipped[0].Line),
					logging.String(logging.FieldImpact, "malformed lines are not written to the output"))
			}

			kept, removed := manifest.FilterByDuration(m.Entries, maxDuration)
			manifest.Shuffle(kept, seed)
			if err := manifest.Write(outPath, kept); err != nil {
				return err
			}

			result := filterResult{
				Input:          input,
				Output:         outPath,
				MaxDuration:    maxDuration,
				Seed:           seed,
				Kept:           len(kept),
				Removed:        len(removed),
				SkippedLines:   len(m.Skipped),
				EstimatedHours: manifest.EstimateHours(kept, manifest.DefaultEstimateSample),
			}
			logger.Info("manifest filtered",
				logging.String("output", outPath),
				logging.Int("kept", result.Kept),
				logging.Int("removed", result.Removed))

			if asJSON {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			printLines(out, renderSectionHeader("Filter", colorize)...)
			printLines(out,
				renderStatusLine("Removed", statusInfo,
					fmt.Sprintf("%s entries longer than %s", formatCount(result.Removed), formatSeconds(maxDuration)), colorize),
				renderStatusLine("Kept", statusOK, formatCount(result.Kept)+" entries", colorize),
				renderStatusLine("Duration", statusInfo, "~"+formatHours(result.EstimatedHours)+" hours (estimated)", colorize),
				renderStatusLine("Output", statusOK, outPath, colorize),
			)
			if result.SkippedLines > 0 {
				fmt.Fprintln(out, renderStatusLine("Skipped", statusWarn,
					formatCount(result.SkippedLines)+" malformed lines", colorize))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Source manifest")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination manifest")
	cmd.Flags().Float64Var(&maxDuration, "max-duration", 0, "Maximum utterance duration in seconds (default from config)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Shuffle seed; 0 shuffles differently every run (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
