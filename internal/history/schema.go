package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion changes whenever schema.sql does. Older databases are rejected
// rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch reports a history database written by a different schema
// version.
var ErrSchemaMismatch = errors.New("history schema version mismatch")

// ensureSchema creates the tables on an empty database and otherwise checks
// the recorded version, all inside one transaction.
func (s *Store) ensureSchema(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var version int
		err := tx.QueryRowContext(ctx, "SELECT version FROM schema_version").Scan(&version)
		switch {
		case err == nil:
			if version != schemaVersion {
				return fmt.Errorf("%w: %s has version %d, want %d; remove it to start a fresh history",
					ErrSchemaMismatch, s.path, version, schemaVersion)
			}
			return nil
		case isMissingTable(err):
			if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
			_, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion)
			return err
		default:
			return fmt.Errorf("read schema version: %w", err)
		}
	})
}

func isMissingTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}
