package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Blackmvmba88/q2bs/internal/config"
	"github.com/Blackmvmba88/q2bs/internal/corpus"
	"github.com/Blackmvmba88/q2bs/internal/writer"
)

func runAnalyze(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()

	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	csv := "url,title,date_parsed\nu1,Foo Bar,2025-01-20\nu2,foo  bar!,2025-01-20\nu3,Baz Qux,2025-01-21\n"

	if err := os.WriteFile(filepath.Join(dir, "articles.csv"), []byte(csv), 0644); err != nil {
		t.Fatalf("Failed to write corpus: %v", err)
	}

	out, err := runAnalyze(t, dir, "--threshold", "0.9", "--log-level", "error")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if !strings.Contains(out, "Similar pairs (>=0.9)") || !strings.Contains(out, writer.ReportFile) {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestAnalyzeCommand_RejectsThreshold(t *testing.T) {
	_, err := runAnalyze(t, t.TempDir(), "--threshold", "1.5")
	if !errors.Is(err, config.ErrInvalidThreshold) {
		t.Errorf("Expected ErrInvalidThreshold, got %v", err)
	}
}

func TestAnalyzeCommand_MissingCorpus(t *testing.T) {
	_, err := runAnalyze(t, t.TempDir(), "--log-level", "error")
	if !errors.Is(err, corpus.ErrMissingCorpus) {
		t.Errorf("Expected ErrMissingCorpus, got %v", err)
	}
}

func TestAnalyzeCommand_RequiresInputDir(t *testing.T) {
	if _, err := runAnalyze(t); err == nil {
		t.Error("Expected an error without an input directory")
	}
}

func TestLoadConfig_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "analysis:\n  threshold: 0.7\n  ngram_size: 4\noutput:\n  top_clusters: 5\n"

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--config", path, "--ngram", "2", "--workers", "3"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	opts := &options{configFile: path, ngram: 2, workers: 3}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Analysis.Threshold != 0.7 || cfg.Analysis.NgramSize != 2 || cfg.Analysis.Workers != 3 || cfg.Output.TopClusters != 5 {
		t.Errorf("Unexpected config %s (top %d)", cfg, cfg.Output.TopClusters)
	}
}
