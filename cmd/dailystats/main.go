// Package main provides the dailystats command, which reports how many articles were
// published per day.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Blackmvmba88/q2bs/internal/config"
	"github.com/Blackmvmba88/q2bs/internal/formatter"
	"github.com/Blackmvmba88/q2bs/internal/logger"
	"github.com/Blackmvmba88/q2bs/internal/pipeline"
)

func newRootCmd() *cobra.Command {
	var (
		configFile string
		output     string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "dailystats <input_dir>",
		Short:         "Summarize article publication volume per day",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()

			if configFile != "" {
				loaded, err := config.LoadConfig(configFile)
				if err != nil {
					return err
				}

				cfg = loaded
			}

			if cmd.Flags().Changed("output") {
				cfg.Output.Directory = output
			}

			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level = logLevel
			}

			p, err := pipeline.New(cfg, logger.NewLogger(cfg.Logging.Level))
			if err != nil {
				return err
			}

			res, err := p.Daily(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.DailySummary(res.Report))

			for _, f := range res.Files {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s\n", f)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Path to a YAML configuration file")
	cmd.Flags().StringVar(&output, "output", "", "Output directory (default: the input directory)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
