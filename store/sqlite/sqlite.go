// Package sqlite persists pack invocation history in SQLite.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/readpack/readpack/model"
)

// Store manages invocation and per-file outcome persistence.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS invocations (
			id            TEXT PRIMARY KEY,
			request_json  TEXT NOT NULL DEFAULT '',
			strategy      TEXT NOT NULL DEFAULT '',
			switched      INTEGER NOT NULL DEFAULT 0,
			processed     INTEGER NOT NULL DEFAULT 0,
			succeeded     INTEGER NOT NULL DEFAULT 0,
			failed        INTEGER NOT NULL DEFAULT 0,
			full_count    INTEGER NOT NULL DEFAULT 0,
			partial_count INTEGER NOT NULL DEFAULT 0,
			omitted_count INTEGER NOT NULL DEFAULT 0,
			used_bytes    INTEGER NOT NULL DEFAULT 0,
			used_lines    INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS file_outcomes (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			invocation_id TEXT NOT NULL,
			file_index    INTEGER NOT NULL,
			path          TEXT NOT NULL,
			ok            INTEGER NOT NULL DEFAULT 0,
			error         TEXT NOT NULL DEFAULT '',
			image_count   INTEGER NOT NULL DEFAULT 0,
			inclusion     TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (invocation_id) REFERENCES invocations(id)
		);

		CREATE INDEX IF NOT EXISTS idx_outcomes_invocation_id
			ON file_outcomes(invocation_id);
	`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateInvocation inserts an invocation and its per-file outcomes in one
// transaction.
func (s *Store) CreateInvocation(inv *model.Invocation, files []model.FileOutcome) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO invocations
			(id, request_json, strategy, switched, processed, succeeded, failed,
			 full_count, partial_count, omitted_count, used_bytes, used_lines, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.RequestJSON, inv.Strategy, boolInt(inv.Switched),
		inv.Processed, inv.Succeeded, inv.Failed,
		inv.FullCount, inv.PartialCount, inv.OmittedCount,
		inv.UsedBytes, inv.UsedLines, inv.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting invocation: %w", err)
	}

	for _, f := range files {
		_, err = tx.Exec(`
			INSERT INTO file_outcomes
				(invocation_id, file_index, path, ok, error, image_count, inclusion)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			inv.ID, f.FileIndex, f.Path, boolInt(f.OK), f.Error, f.ImageCount, f.Inclusion,
		)
		if err != nil {
			return fmt.Errorf("inserting file outcome: %w", err)
		}
	}

	return tx.Commit()
}

// GetInvocation returns one invocation by ID.
func (s *Store) GetInvocation(id string) (*model.Invocation, error) {
	row := s.db.QueryRow(`
		SELECT id, request_json, strategy, switched, processed, succeeded, failed,
		       full_count, partial_count, omitted_count, used_bytes, used_lines, created_at
		FROM invocations WHERE id = ?`, id)
	return scanInvocation(row)
}

// ListInvocations returns the most recent invocations, newest first.
func (s *Store) ListInvocations(limit int) ([]*model.Invocation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, request_json, strategy, switched, processed, succeeded, failed,
		       full_count, partial_count, omitted_count, used_bytes, used_lines, created_at
		FROM invocations ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing invocations: %w", err)
	}
	defer rows.Close()

	var out []*model.Invocation
	for rows.Next() {
		inv, err := scanInvocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// GetFileOutcomes returns the per-file outcomes of one invocation, in file
// order.
func (s *Store) GetFileOutcomes(invocationID string) ([]model.FileOutcome, error) {
	rows, err := s.db.Query(`
		SELECT id, invocation_id, file_index, path, ok, error, image_count, inclusion
		FROM file_outcomes WHERE invocation_id = ? ORDER BY file_index`, invocationID)
	if err != nil {
		return nil, fmt.Errorf("listing file outcomes: %w", err)
	}
	defer rows.Close()

	var out []model.FileOutcome
	for rows.Next() {
		var f model.FileOutcome
		var ok int
		if err := rows.Scan(&f.ID, &f.InvocationID, &f.FileIndex, &f.Path, &ok, &f.Error, &f.ImageCount, &f.Inclusion); err != nil {
			return nil, fmt.Errorf("scanning file outcome: %w", err)
		}
		f.OK = ok != 0
		out = append(out, f)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInvocation(row scanner) (*model.Invocation, error) {
	var inv model.Invocation
	var switched int
	var createdAt time.Time
	err := row.Scan(
		&inv.ID, &inv.RequestJSON, &inv.Strategy, &switched,
		&inv.Processed, &inv.Succeeded, &inv.Failed,
		&inv.FullCount, &inv.PartialCount, &inv.OmittedCount,
		&inv.UsedBytes, &inv.UsedLines, &createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning invocation: %w", err)
	}
	inv.Switched = switched != 0
	inv.CreatedAt = createdAt
	return &inv, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
