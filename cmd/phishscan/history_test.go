package main

import (
	"strings"
	"testing"
)

func TestRunHistory(t *testing.T) {
	t.Parallel()

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := execute(t, "history", "--db-dir", t.TempDir(), "--no-color")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "No recent scans") {
			t.Errorf("expected empty history message, got %q", stdout)
		}
		if !strings.Contains(stdout, "http://127.0.0.1:5000") {
			t.Error("expected the endpoint origin in the header")
		}
	})

	t.Run("lists origins", func(t *testing.T) {
		t.Parallel()

		srv := newPredictionServer(t)
		dbDir := t.TempDir()

		if _, _, err := execute(t, "scan", "--db-dir", dbDir, "-e", srv.URL, "example.com"); err != nil {
			t.Fatalf("scan: %v", err)
		}

		stdout, _, err := execute(t, "history", "--db-dir", dbDir, "-e", srv.URL, "--origins")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "* "+srv.URL) {
			t.Errorf("expected current origin to be marked, got %q", stdout)
		}
	})

	t.Run("no origins", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := execute(t, "history", "--db-dir", t.TempDir(), "--origins")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "No scan history found") {
			t.Errorf("unexpected output %q", stdout)
		}
	})
}
