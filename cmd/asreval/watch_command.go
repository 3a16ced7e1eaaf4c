package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"asreval/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var flags scoreFlags
	var pollOnly bool
	var pollInterval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rescore whenever the predictions file changes",
		Long: "Watch scores the predictions file once, then again each time its content\n" +
			"changes. Only one watcher may run per predictions file.",
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

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			w, err := watch.New(watch.Options{
				Path:         opts.predictionsPath,
				LockDir:      cfg.LockDir(),
				Logger:       logger,
				PollOnly:     pollOnly,
				PollInterval: pollInterval,
				OnChange: func(runCtx context.Context) error {
					report, err := runScore(runCtx, cfg, logger, opts)
					if err != nil {
						fmt.Fprintln(out, renderStatusLine("Score", statusError, err.Error(), colorize))
						return err
					}
					if flags.json {
						return writeJSON(cmd, report)
					}
					fmt.Fprintf(out, "\nScored %s at %s\n", opts.predictionsPath, time.Now().Format(time.TimeOnly))
					renderScoreReport(out, report, colorize)
					return nil
				},
			})
			if err != nil {
				return err
			}
			return w.Run(cmd.Context())
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output each report as JSON")
	cmd.Flags().BoolVar(&pollOnly, "poll", false, "Poll for changes instead of using filesystem events")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", time.Second, "Polling interval")
	_ = cmd.MarkFlagRequired("manifest")
	_ = cmd.MarkFlagRequired("predictions")
	return cmd
}
