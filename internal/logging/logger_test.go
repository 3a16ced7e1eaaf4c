package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"asreval/internal/config"
	"asreval/internal/logging"
)

func TestNewFromConfigMirrorsToLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Logging.Level = "debug"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("debug message")

	content, err := os.ReadFile(cfg.LogPath())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "debug message") {
		t.Fatalf("expected message in mirrored log, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerRendersComponentPrefix(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "component.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "scorer").Info("corpus scored", logging.Int("scored", 3))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, "scorer: corpus scored") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if !strings.Contains(line, "scored=3") {
		t.Fatalf("expected key=value attribute, got %q", line)
	}
}

func TestConsoleLoggerPrefixesShortRunID(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithRunID(context.Background(), "1a2b3c4d-5e6f-7081-92a3-b4c5d6e7f809")
	scorer := logging.NewComponentLogger(logger, "score")
	logging.WithContext(ctx, scorer).Info("corpus scored",
		logging.Float64("global_wer", 1.0/6.0),
		logging.String("manifest", "test set.jsonl"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	for _, want := range []string{
		"INFO  [1a2b3c4d] score: corpus scored",
		"global_wer=0.1667",
		`manifest="test set.jsonl"`,
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "run_id=") {
		t.Fatalf("run id should only appear as prefix, got %q", line)
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")

	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("json message", logging.String("k", "v"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(content, &entry); err != nil {
		t.Fatalf("decode json log %q: %v", content, err)
	}
	for _, key := range []string{"ts", "level", "msg", "k"} {
		if _, ok := entry[key]; !ok {
			t.Fatalf("expected key %q in %v", key, entry)
		}
	}
	if entry["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", entry["level"])
	}
	if _, ok := entry["caller"]; ok {
		t.Fatalf("caller should be omitted at info level: %v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func openFDs(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skipf("cannot list open descriptors: %v", err)
	}
	return len(entries)
}

func TestNewClosesOpenedFilesWhenLaterOutputFails(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")
	unreachable := filepath.Join(blocker, "nested", "third.log")

	before := openFDs(t)
	_, err := logging.New(logging.Options{OutputPaths: []string{first, second, unreachable}})
	if err == nil {
		t.Fatal("expected error for log path under a regular file")
	}
	if after := openFDs(t); after != before {
		t.Fatalf("expected %d open descriptors after failure, got %d", before, after)
	}
}

func TestNewRejectsUnknownFormatBeforeOpeningFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unused.log")
	if _, err := logging.New(logging.Options{Format: "xml", OutputPaths: []string{path}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no log file for rejected format, stat err = %v", err)
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	logger, err := logging.New(logging.Options{Format: "console", Level: "invalid"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger.Enabled(context.Background(), -4) {
		t.Fatal("expected debug to be disabled at the fallback level")
	}
	if !logger.Enabled(context.Background(), 0) {
		t.Fatal("expected info to be enabled at the fallback level")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "context.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithRunID(context.Background(), "run-123")
	ctx = logging.WithManifest(ctx, "/data/test.jsonl")
	logging.WithContext(ctx, logger).Info("contextual log")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(content, &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry[logging.FieldRunID] != "run-123" {
		t.Fatalf("field %s = %v", logging.FieldRunID, entry[logging.FieldRunID])
	}
	if entry[logging.FieldManifest] != "/data/test.jsonl" {
		t.Fatalf("field %s = %v", logging.FieldManifest, entry[logging.FieldManifest])
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "utterances excluded", "empty_reference",
		logging.String(logging.FieldErrorHint, "drop blank transcripts from the manifest"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(content, &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry[logging.FieldEventType] != "empty_reference" {
		t.Fatalf("unexpected event type: %v", entry[logging.FieldEventType])
	}
	if entry[logging.FieldErrorHint] != "drop blank transcripts from the manifest" {
		t.Fatalf("caller-supplied hint was replaced: %v", entry[logging.FieldErrorHint])
	}
	if _, ok := entry[logging.FieldImpact]; !ok {
		t.Fatal("expected default impact field")
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	logging.NewNop().Info("discarded")
	logging.WarnWithContext(nil, "ignored", "noop")
	logging.NewComponentLogger(nil, "x").Error("discarded")
}
