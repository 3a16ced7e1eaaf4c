// Package config loads, normalizes, and validates asreval configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// ASREVAL_DATA_DIR and ASREVAL_LOG_LEVEL. The Config type centralizes scoring
// options, manifest rules, and the optional history and metrics outputs so the
// CLI resolves everything in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a single-rune delimiter, and clear validation errors.
package config
