package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
}

// Scoring controls normalization and offender reporting for WER runs.
type Scoring struct {
	CaseInsensitive bool `toml:"case_insensitive"`
	// Delimiter must be exactly one character. A space matches any whitespace.
	Delimiter string `toml:"delimiter"`
	// OffenderThreshold is the utterance WER above which a prediction is kept
	// for the worst-offenders report. Default: 0.5
	OffenderThreshold float64 `toml:"offender_threshold"`
	// TopK limits how many offenders are printed. Zero prints all of them.
	TopK int `toml:"top_k"`
	// Workers bounds parallel scoring. Zero uses every CPU.
	Workers int `toml:"workers"`
}

// SourceRule classifies manifest entries by substrings of their audio path.
type SourceRule struct {
	Name     string   `toml:"name"`
	Patterns []string `toml:"patterns"`
}

// Manifest contains settings for manifest filtering and inspection.
type Manifest struct {
	MaxDuration  float64      `toml:"max_duration"`
	AllowedChars string       `toml:"allowed_chars"`
	ShuffleSeed  uint64       `toml:"shuffle_seed"`
	SampleLimit  int          `toml:"sample_limit"`
	Sources      []SourceRule `toml:"sources"`
}

// History contains configuration for the run history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Metrics contains configuration for Prometheus textfile export.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for asreval.
//
// Configuration sections by subsystem:
//   - Paths: data directory for history, locks, and logs
//   - Scoring: normalization and offender reporting
//   - Manifest: duration filtering, shuffling, and inspection rules
//   - History: optional SQLite run history
//   - Metrics: optional Prometheus textfile output
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Scoring  Scoring  `toml:"scoring"`
	Manifest Manifest `toml:"manifest"`
	History  History  `toml:"history"`
	Metrics  Metrics  `toml:"metrics"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("asreval.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data directory and the lock directory.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.LockDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.History.Enabled {
		if err := os.MkdirAll(filepath.Dir(c.History.Path), 0o755); err != nil {
			return fmt.Errorf("create history directory: %w", err)
		}
	}
	return nil
}

// LockDir returns the directory holding watcher lock files.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.DataDir, "locks")
}

// LogPath returns the file that mirrors CLI log output.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.DataDir, "asreval.log")
}

// DelimiterRune returns the configured delimiter as a rune.
// Validate guarantees it holds exactly one.
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Scoring.Delimiter {
		return r
	}
	return ' '
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
