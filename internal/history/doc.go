// Package history persists scored runs in a local SQLite database so WER
// can be compared across model checkpoints.
//
// Each run stores its corpus summary and its ranked worst offenders. The
// schema is embedded and versioned; opening a database written by a different
// schema version fails with ErrSchemaMismatch rather than migrating.
package history
