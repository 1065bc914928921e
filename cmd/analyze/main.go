// Package main provides the analyze command, which finds exact and near-duplicate article
// titles in a crawled corpus.
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

// summaryClusters is how many clusters the terminal summary lists.
const summaryClusters = 5

type options struct {
	configFile       string
	threshold        float64
	ngram            int
	maxPairwise      int
	workers          int
	output           string
	db               string
	logLevel         string
	matchEmptyTitles bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "analyze <input_dir>",
		Short: "Detect exact and near-duplicate article titles",
		Long: `Loads articles.csv from the input directory, clusters articles with identical normalized
titles, finds title pairs whose character n-gram Jaccard similarity reaches the threshold,
and writes the report files next to the corpus.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			log := logger.NewLogger(cfg.Logging.Level)
			log.Debug("Configuration", "config", cfg.String())

			p, err := pipeline.New(cfg, log)
			if err != nil {
				return err
			}

			res, err := p.Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.Summary(res.Report, res.Clusters, summaryClusters))

			for _, f := range res.Files {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s\n", f)
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "Path to a YAML configuration file")
	flags.Float64Var(&opts.threshold, "threshold", config.DefaultThreshold, "Similarity threshold (0.0-1.0)")
	flags.IntVar(&opts.ngram, "ngram", config.DefaultNgramSize, "Character n-gram size")
	flags.IntVar(&opts.maxPairwise, "max-pairwise", config.DefaultMaxPairwiseArticles, "Largest corpus that gets pairwise matching (0 disables it)")
	flags.IntVar(&opts.workers, "workers", 0, "Matcher goroutines (0 = GOMAXPROCS)")
	flags.StringVar(&opts.output, "output", "", "Output directory (default: the input directory)")
	flags.StringVar(&opts.db, "db", "", "SQLite file to record the run in")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.BoolVar(&opts.matchEmptyTitles, "match-empty-titles", false, "Let titleless articles match each other")

	return cmd
}

// loadConfig reads the optional config file and applies the flags the user set on top.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.Default()

	if opts.configFile != "" {
		loaded, err := config.LoadConfig(opts.configFile)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	flags := cmd.Flags()

	if flags.Changed("threshold") {
		if err := config.ValidateThreshold(opts.threshold); err != nil {
			return nil, err
		}

		cfg.Analysis.Threshold = opts.threshold
	}

	if flags.Changed("ngram") {
		cfg.Analysis.NgramSize = opts.ngram
	}

	if flags.Changed("max-pairwise") {
		cfg.Analysis.MaxPairwiseArticles = opts.maxPairwise
	}

	if flags.Changed("workers") {
		cfg.Analysis.Workers = opts.workers
	}

	if flags.Changed("output") {
		cfg.Output.Directory = opts.output
	}

	if flags.Changed("db") {
		cfg.Output.ResultsDB = opts.db
	}

	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}

	if flags.Changed("match-empty-titles") {
		cfg.Analysis.MatchEmptyTitles = opts.matchEmptyTitles
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
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
