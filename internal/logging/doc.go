// Package logging builds the slog loggers asreval commands share.
//
// Console output is one line per record, prefixed with the short run ID and
// component when present; JSON output uses ts/level/msg keys. Loggers from
// NewFromConfig also append to the log file in the data directory.
// WarnWithContext guarantees event_type, error_hint and impact on warnings.
package logging
