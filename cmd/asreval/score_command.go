package main

import (
	"github.com/spf13/cobra"
)

type scoreFlags struct {
	manifest      string
	predictions   string
	caseSensitive bool
	delimiter     string
	threshold     float64
	topK          int
	workers       int
	record        bool
	metricsOut    string
	json          bool
}

func (f *scoreFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.manifest, "manifest", "m", "", "Reference manifest (JSON lines with a text field)")
	flags.StringVarP(&f.predictions, "predictions", "p", "", "Predictions file, one hypothesis per line")
	flags.BoolVar(&f.caseSensitive, "case-sensitive", false, "Compare words without case folding")
	flags.StringVar(&f.delimiter, "delimiter", " ", "Word delimiter (a space matches any whitespace)")
	flags.Float64Var(&f.threshold, "threshold", 0.5, "Utterance WER above which a prediction is reported")
	flags.IntVarP(&f.topK, "top", "k", 3, "Number of worst predictions to show (0 = all)")
	flags.IntVar(&f.workers, "workers", 0, "Parallel scoring workers (0 = all CPUs)")
	flags.BoolVar(&f.record, "record", false, "Record the run in the history database")
	flags.StringVar(&f.metricsOut, "metrics-out", "", "Write Prometheus metrics to this textfile")
}

func newScoreCommand(ctx *commandContext) *cobra.Command {
	var flags scoreFlags

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute corpus WER for a predictions file",
		Long: "Score pairs manifest entry N with predictions line N, prints global and\n" +
			"average WER with min/max, and lists the worst predictions.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			opts, err := resolveScoreOptions(cfg, &flags, cmd.Flags().Changed)
			if err != nil {
				return err
			}

			report, err := runScore(cmd.Context(), cfg, logger, opts)
			if err != nil {
				return err
			}
			if flags.json {
				return writeJSON(cmd, report)
			}
			out := cmd.OutOrStdout()
			renderScoreReport(out, report, shouldColorize(out))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("manifest")
	_ = cmd.MarkFlagRequired("predictions")
	return cmd
}
