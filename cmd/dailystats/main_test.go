package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDailyStatsCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "stats")
	csv := "url,title,date_parsed\nu1,A,2025-01-20\nu2,B,2025-01-20\nu3,C,UNKNOWN_DATE\n"

	if err := os.WriteFile(filepath.Join(dir, "articles.csv"), []byte(csv), 0644); err != nil {
		t.Fatalf("Failed to write corpus: %v", err)
	}

	var buf bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs([]string{dir, "--output", out, "--log-level", "error"})
	cmd.SetOut(&buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("dailystats failed: %v", err)
	}

	if !strings.Contains(buf.String(), "2025-01-20 .. 2025-01-20") {
		t.Errorf("Unexpected output:\n%s", buf.String())
	}

	data, err := os.ReadFile(filepath.Join(out, "daily_summary.csv"))
	if err != nil {
		t.Fatalf("Failed to read daily summary: %v", err)
	}

	if string(data) != "Date,Article Count\n2025-01-20,2\nUNKNOWN_DATE,1\n" {
		t.Errorf("Unexpected daily summary %q", data)
	}
}
