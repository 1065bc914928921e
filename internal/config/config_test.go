package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "analysis.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

const validConfigYAML = `
analysis:
  threshold: 0.9
  ngram_size: 4
  max_pairwise_articles: 500
  workers: 2
input:
  file_name: corpus.csv
output:
  directory: ./results
  top_clusters: 10
  results_db: results.db
logging:
  level: debug
`

func TestLoadConfig_Valid(t *testing.T) {
	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Analysis.Threshold != 0.9 {
		t.Errorf("Expected threshold 0.9, got %v", cfg.Analysis.Threshold)
	}

	if cfg.Analysis.NgramSize != 4 {
		t.Errorf("Expected ngram size 4, got %d", cfg.Analysis.NgramSize)
	}

	if cfg.Input.FileName != "corpus.csv" {
		t.Errorf("Expected file name corpus.csv, got %s", cfg.Input.FileName)
	}

	if cfg.Output.ResultsDB != "results.db" {
		t.Errorf("Expected results db results.db, got %s", cfg.Output.ResultsDB)
	}
}

func TestLoadConfig_KeepsDefaultsForAbsentKeys(t *testing.T) {
	configPath := createTempConfigFile(t, "analysis:\n  threshold: 0.7\n")

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Analysis.NgramSize != DefaultNgramSize {
		t.Errorf("Expected default ngram size, got %d", cfg.Analysis.NgramSize)
	}

	if cfg.Analysis.MaxPairwiseArticles != DefaultMaxPairwiseArticles {
		t.Errorf("Expected default cutoff, got %d", cfg.Analysis.MaxPairwiseArticles)
	}

	if cfg.Output.TopClusters != DefaultTopClusters {
		t.Errorf("Expected default top clusters, got %d", cfg.Output.TopClusters)
	}

	if !cfg.Output.PrettyPrint {
		t.Error("Expected pretty_print to default to true")
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/analysis.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "invalid: yaml: content: [}")

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestLoadConfig_RejectsOutOfRangeThreshold(t *testing.T) {
	configPath := createTempConfigFile(t, "analysis:\n  threshold: 1.5\n")

	_, err := LoadConfig(configPath)
	if !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("Expected ErrInvalidThreshold, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(c *Config) {}, wantErr: nil},
		{name: "threshold zero", mutate: func(c *Config) { c.Analysis.Threshold = 0 }, wantErr: nil},
		{name: "threshold one", mutate: func(c *Config) { c.Analysis.Threshold = 1 }, wantErr: nil},
		{name: "negative threshold", mutate: func(c *Config) { c.Analysis.Threshold = -0.1 }, wantErr: ErrInvalidThreshold},
		{name: "NaN threshold", mutate: func(c *Config) { c.Analysis.Threshold = math.NaN() }, wantErr: ErrInvalidThreshold},
		{name: "zero ngram", mutate: func(c *Config) { c.Analysis.NgramSize = 0 }, wantErr: ErrInvalidNgramSize},
		{name: "negative cutoff", mutate: func(c *Config) { c.Analysis.MaxPairwiseArticles = -1 }, wantErr: ErrInvalidMaxPairwise},
		{name: "negative workers", mutate: func(c *Config) { c.Analysis.Workers = -2 }, wantErr: ErrInvalidWorkers},
		{name: "empty file name", mutate: func(c *Config) { c.Input.FileName = "" }, wantErr: ErrMissingInputFile},
		{name: "zero top clusters", mutate: func(c *Config) { c.Output.TopClusters = 0 }, wantErr: ErrInvalidTopClusters},
		{name: "negative progress", mutate: func(c *Config) { c.Logging.ProgressEvery = -1 }, wantErr: ErrInvalidProgress},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}

				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_PairwiseEnabled(t *testing.T) {
	cfg := Default()
	cfg.Analysis.MaxPairwiseArticles = 3

	if !cfg.PairwiseEnabled(3) {
		t.Error("Expected pairwise matching at the cutoff")
	}

	if cfg.PairwiseEnabled(4) {
		t.Error("Expected pairwise matching to be skipped above the cutoff")
	}

	cfg.Analysis.MaxPairwiseArticles = 0
	if cfg.PairwiseEnabled(1) {
		t.Error("Expected a zero cutoff to disable pairwise matching")
	}
}

func TestConfig_Paths(t *testing.T) {
	cfg := Default()

	if got := cfg.InputPath("in"); got != filepath.Join("in", "articles.csv") {
		t.Errorf("Unexpected input path %s", got)
	}

	if got := cfg.OutputDir("in"); got != "in" {
		t.Errorf("Expected output dir to default to input dir, got %s", got)
	}

	cfg.Output.Directory = "out"
	if got := cfg.OutputDir("in"); got != "out" {
		t.Errorf("Expected configured output dir, got %s", got)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")

	cfg := Default()
	cfg.Analysis.Threshold = 0.6
	cfg.Analysis.MatchEmptyTitles = true

	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Analysis.Threshold != 0.6 || !loaded.Analysis.MatchEmptyTitles {
		t.Errorf("Saved settings not restored: %+v", loaded.Analysis)
	}
}
