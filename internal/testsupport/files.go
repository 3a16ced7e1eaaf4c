package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ManifestEntry is a manifest line for fixtures.
type ManifestEntry struct {
	AudioFilepath string  `json:"audio_filepath"`
	Duration      float64 `json:"duration"`
	Text          string  `json:"text"`
}

// WriteManifest writes entries as a JSON-lines manifest and returns its path.
func WriteManifest(t testing.TB, dir, name string, entries ...ManifestEntry) string {
	t.Helper()

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			t.Fatalf("encode manifest entry: %v", err)
		}
		lines = append(lines, string(data))
	}
	return WriteLines(t, dir, name, lines...)
}

// WriteLines writes each line followed by a newline and returns the path.
func WriteLines(t testing.TB, dir, name string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
