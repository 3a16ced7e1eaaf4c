package config

const (
	defaultConfigPath        = "~/.config/asreval/config.toml"
	defaultDataDir           = "~/.local/share/asreval"
	defaultHistoryFile       = "history.db"
	defaultDelimiter         = " "
	defaultOffenderThreshold = 0.5
	defaultTopK              = 3
	defaultMaxDuration       = 15.0
	defaultAllowedChars      = "а-яё "
	defaultSampleLimit       = 5
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Scoring: Scoring{
			CaseInsensitive:   true,
			Delimiter:         defaultDelimiter,
			OffenderThreshold: defaultOffenderThreshold,
			TopK:              defaultTopK,
		},
		Manifest: Manifest{
			MaxDuration:  defaultMaxDuration,
			AllowedChars: defaultAllowedChars,
			SampleLimit:  defaultSampleLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DefaultSources returns the source rules used when none are configured.
func DefaultSources() []SourceRule {
	return []SourceRule{
		{Name: "Golos/Sber", Patterns: []string{"golos", "sber", "farfield"}},
		{Name: "Sova", Patterns: []string{"sova", "youtube"}},
	}
}
