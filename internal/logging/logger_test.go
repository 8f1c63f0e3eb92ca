package logging_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scrub/internal/logging"
	"scrub/internal/services"
)

func TestNewWritesConsoleFormat(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "scrub.log")
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	component := logging.NewComponentLogger(logger, "scheduler")
	component.Info("run started", logging.Int("candidates", 5))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	for _, want := range []string{"INFO", "scheduler: run started", "candidates=5"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %s", want, line)
		}
	}
}

func TestNewWritesJSONFormat(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "scrub.jsonl")
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("item complete", logging.String("outcome", "success"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	for _, want := range []string{`"msg":"item complete"`, `"level":"info"`, `"outcome":"success"`, `"ts":`} {
		if !strings.Contains(line, want) {
			t.Errorf("json line missing %q: %s", want, line)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "scrub.log")
	logger, err := logging.New(logging.Options{Level: "warn", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("quiet")
	logger.Warn("loud")

	data, _ := os.ReadFile(logPath)
	if strings.Contains(string(data), "quiet") {
		t.Errorf("info record should be filtered at warn level: %s", data)
	}
	if !strings.Contains(string(data), "loud") {
		t.Errorf("warn record missing: %s", data)
	}
}

func TestWithContextStampsFields(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "scrub.log")
	logger, err := logging.New(logging.Options{OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatal(err)
	}

	ctx := services.WithMediaPath(context.Background(), "/library/movie.mp4")
	ctx = services.WithRunID(ctx, "run-1234")
	ctx = services.WithComponent(ctx, "transform")
	logging.WithContext(ctx, logger).Info("processing")

	data, _ := os.ReadFile(logPath)
	line := string(data)
	if !strings.Contains(line, "media_path=/library/movie.mp4") {
		t.Errorf("missing media path field: %s", line)
	}
	if !strings.Contains(line, "run_id=run-1234") {
		t.Errorf("missing run id field: %s", line)
	}
	if !strings.Contains(line, "transform: processing") {
		t.Errorf("missing component prefix: %s", line)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should report disabled at every level")
	}
}
