package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFilePath(t *testing.T) {
	day := time.Date(2025, 5, 3, 10, 0, 0, 0, time.UTC)
	got := FilePath("/tmp/majordomo/logs", day)
	if got != "/tmp/majordomo/logs/majordomo_20250503.log" {
		t.Errorf("FilePath() = %q", got)
	}
}

func TestNewWritesToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := New(dir, "info", false)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("hidden")
	logger.Info("visible")
	_ = logger.Sync()

	data, err := os.ReadFile(FilePath(dir, time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "visible") || strings.Contains(out, "hidden") {
		t.Errorf("log file = %q", out)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(t.TempDir(), "loud", false); err == nil {
		t.Error("New() should reject an unknown level")
	}
}
