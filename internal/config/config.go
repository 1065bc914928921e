// Package config provides configuration management for the similarity analysis.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidThreshold   = errors.New("analysis.threshold must be within [0, 1]")
	ErrInvalidNgramSize   = errors.New("analysis.ngram_size must be at least 1")
	ErrInvalidMaxPairwise = errors.New("analysis.max_pairwise_articles must be non-negative")
	ErrInvalidWorkers     = errors.New("analysis.workers must be non-negative")
	ErrMissingInputFile   = errors.New("input.file_name is required")
	ErrInvalidTopClusters = errors.New("output.top_clusters must be at least 1")
	ErrInvalidProgress    = errors.New("logging.progress_every must be non-negative")
	ErrInvalidLogLevel    = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Defaults.
const (
	DefaultThreshold           = 0.85
	DefaultNgramSize           = 3
	DefaultMaxPairwiseArticles = 10000
	DefaultInputFileName       = "articles.csv"
	DefaultTopClusters         = 100
	DefaultProgressEvery       = 100000
)

// Config represents the complete analysis configuration.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AnalysisConfig contains the similarity parameters.
type AnalysisConfig struct {
	Threshold float64 `yaml:"threshold"`
	NgramSize int     `yaml:"ngram_size"`
	// MaxPairwiseArticles bounds the quadratic pairwise phase: corpora larger than this
	// only get exact-match clustering. Zero disables pairwise matching.
	MaxPairwiseArticles int `yaml:"max_pairwise_articles"`
	// Workers is the number of matcher goroutines; zero means GOMAXPROCS.
	Workers          int  `yaml:"workers"`
	MatchEmptyTitles bool `yaml:"match_empty_titles"`
}

// InputConfig locates the corpus inside the input directory.
type InputConfig struct {
	FileName string `yaml:"file_name"`
}

// OutputConfig defines output behavior.
type OutputConfig struct {
	// Directory receives the result files; empty means the input directory.
	Directory       string `yaml:"directory"`
	TopClusters     int    `yaml:"top_clusters"`
	PrettyPrint     bool   `yaml:"pretty_print"`
	MarkdownSummary bool   `yaml:"markdown_summary"`
	ResultsDB       string `yaml:"results_db"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level         string `yaml:"level"`
	ProgressEvery int    `yaml:"progress_every"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Threshold:           DefaultThreshold,
			NgramSize:           DefaultNgramSize,
			MaxPairwiseArticles: DefaultMaxPairwiseArticles,
		},
		Input: InputConfig{
			FileName: DefaultInputFileName,
		},
		Output: OutputConfig{
			TopClusters:     DefaultTopClusters,
			PrettyPrint:     true,
			MarkdownSummary: true,
		},
		Logging: LoggingConfig{
			Level:         "info",
			ProgressEvery: DefaultProgressEvery,
		},
	}
}

// LoadConfig loads configuration from a YAML file. Keys absent from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a YAML file.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := ValidateThreshold(c.Analysis.Threshold); err != nil {
		return err
	}

	if c.Analysis.NgramSize < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidNgramSize, c.Analysis.NgramSize)
	}

	if c.Analysis.MaxPairwiseArticles < 0 {
		return ErrInvalidMaxPairwise
	}

	if c.Analysis.Workers < 0 {
		return ErrInvalidWorkers
	}

	if c.Input.FileName == "" {
		return ErrMissingInputFile
	}

	if c.Output.TopClusters < 1 {
		return ErrInvalidTopClusters
	}

	if c.Logging.ProgressEvery < 0 {
		return ErrInvalidProgress
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// ValidateThreshold rejects similarity thresholds outside [0, 1]. NaN is rejected too.
func ValidateThreshold(threshold float64) error {
	if !(threshold >= 0 && threshold <= 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}

	return nil
}

// InputPath returns the corpus file inside inputDir.
func (c *Config) InputPath(inputDir string) string {
	return filepath.Join(inputDir, c.Input.FileName)
}

// OutputDir returns where result files go for inputDir.
func (c *Config) OutputDir(inputDir string) string {
	if c.Output.Directory != "" {
		return c.Output.Directory
	}

	return inputDir
}

// PairwiseEnabled reports whether a corpus of the given size gets pairwise matching.
func (c *Config) PairwiseEnabled(corpusSize int) bool {
	return c.Analysis.MaxPairwiseArticles > 0 && corpusSize <= c.Analysis.MaxPairwiseArticles
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Threshold: %.2f, Ngram: %d, MaxPairwise: %d, Workers: %d}",
		c.Analysis.Threshold,
		c.Analysis.NgramSize,
		c.Analysis.MaxPairwiseArticles,
		c.Analysis.Workers,
	)
}
