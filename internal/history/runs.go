package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"asreval/internal/wer"
)

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// Run is one recorded scoring run.
type Run struct {
	ID          string      `json:"id"`
	CreatedAt   time.Time   `json:"created_at"`
	Manifest    string      `json:"manifest,omitempty"`
	Predictions string      `json:"predictions,omitempty"`
	Summary     wer.Summary `json:"summary"`
	// Offenders are stored in rank order, worst first.
	Offenders []wer.Score `json:"offenders,omitempty"`
}

// timeLayout keeps a fixed fraction width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const runColumns = "id, created_at, manifest, predictions, global_wer, average_wer, min_wer, max_wer, scored, excluded, total_edits, total_words, threshold"

// Record stores run and its offenders in a single transaction and returns the
// run ID. An empty ID is assigned a new UUID; a zero CreatedAt uses now.
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	ctx = ensureContext(ctx)
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	err := retryOnBusy(ctx, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			return insertRun(ctx, tx, run)
		})
	})
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return run.ID, nil
}

func insertRun(ctx context.Context, tx *sql.Tx, run Run) error {
	sum := run.Summary
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC().Format(timeLayout),
		nullableString(run.Manifest),
		nullableString(run.Predictions),
		sum.GlobalWER,
		sum.AverageWER,
		sum.MinWER,
		sum.MaxWER,
		sum.Scored,
		sum.Excluded,
		sum.TotalEdits,
		sum.TotalWords,
		sum.Threshold,
	); err != nil {
		return err
	}

	for rank, o := range run.Offenders {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO offenders (run_id, rank, utterance, wer, distance, ref_words, hyp_words, reference, hypothesis)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, rank+1, o.Index, o.WER, o.Distance, o.RefWords, o.HypWords, o.Reference, o.Hypothesis,
		); err != nil {
			return err
		}
	}
	return nil
}

// List returns up to limit runs, newest first, without offenders.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns the run with its offenders, or nil when no run has that ID.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT utterance, wer, distance, ref_words, hyp_words, reference, hypothesis
         FROM offenders WHERE run_id = ? ORDER BY rank`, id)
	if err != nil {
		return nil, fmt.Errorf("get offenders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o wer.Score
		if err := rows.Scan(&o.Index, &o.WER, &o.Distance, &o.RefWords, &o.HypWords, &o.Reference, &o.Hypothesis); err != nil {
			return nil, fmt.Errorf("scan offender: %w", err)
		}
		run.Offenders = append(run.Offenders, o)
	}
	return run, rows.Err()
}

// Delete removes a run and its offenders. It reports whether a run existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	ctx = ensureContext(ctx)
	var deleted bool
	err := retryOnBusy(ctx, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `DELETE FROM offenders WHERE run_id = ?`, id); err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
			if err != nil {
				return err
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			deleted = affected > 0
			return nil
		})
	})
	if err != nil {
		return false, fmt.Errorf("delete run: %w", err)
	}
	return deleted, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		createdRaw  string
		manifest    sql.NullString
		predictions sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&createdRaw,
		&manifest,
		&predictions,
		&run.Summary.GlobalWER,
		&run.Summary.AverageWER,
		&run.Summary.MinWER,
		&run.Summary.MaxWER,
		&run.Summary.Scored,
		&run.Summary.Excluded,
		&run.Summary.TotalEdits,
		&run.Summary.TotalWords,
		&run.Summary.Threshold,
	); err != nil {
		return nil, err
	}
	created, err := time.Parse(timeLayout, createdRaw)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for run %s: %w", run.ID, err)
	}
	run.CreatedAt = created
	run.Manifest = manifest.String
	run.Predictions = predictions.String
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
