package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"asreval/internal/config"
	"asreval/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeScoringFixture writes a four-line manifest (one with an empty
// reference) and matching predictions. Expected: 2 edits over 8 reference
// words, utterance WERs 0, 1 and 0, and line 2 as the only offender.
func writeScoringFixture(t *testing.T, dir string) (manifestPath, predictionsPath string) {
	t.Helper()
	manifestPath = testsupport.WriteManifest(t, dir, "test.jsonl",
		testsupport.ManifestEntry{AudioFilepath: "/golos/1.wav", Duration: 2, Text: "Привет мир"},
		testsupport.ManifestEntry{AudioFilepath: "/golos/2.wav", Duration: 3, Text: "как дела"},
		testsupport.ManifestEntry{AudioFilepath: "/sova/3.wav", Duration: 1, Text: ""},
		testsupport.ManifestEntry{AudioFilepath: "/sova/4.wav", Duration: 4, Text: "один два три четыре"},
	)
	predictionsPath = testsupport.WriteLines(t, dir, "predictions.txt",
		"привет мир",
		"как дела у тебя",
		"что-то",
		"один  два три четыре",
	)
	return manifestPath, predictionsPath
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
