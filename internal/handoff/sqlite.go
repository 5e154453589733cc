package handoff

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"shotexport/internal/services"
	"shotexport/internal/sqlitex"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// SQLite persists records in a SQLite database shared by every run.
type SQLite struct {
	db  *sqlitex.DB
	now func() time.Time
}

// SQLiteOption customises a SQLite backend.
type SQLiteOption func(*SQLite)

// WithClock overrides the clock used for record timestamps.
func WithClock(now func() time.Time) SQLiteOption {
	return func(s *SQLite) {
		if now != nil {
			s.now = now
		}
	}
}

// OpenSQLite opens or creates the handoff database at path.
func OpenSQLite(ctx context.Context, path string, opts ...SQLiteOption) (*SQLite, error) {
	db, err := sqlitex.Open(ctx, path, sqlitex.Schema{Name: "handoff", Version: schemaVersion, SQL: schemaSQL})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "handoff", "open database", path, err)
	}
	backend := &SQLite{db: db, now: time.Now}
	for _, opt := range opts {
		opt(backend)
	}
	return backend, nil
}

// ForRun implements Backend.
func (s *SQLite) ForRun(runID string) Store {
	return &sqliteStore{backend: s, runID: runID}
}

// Close implements Backend.
func (s *SQLite) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// RunSummary describes the records left behind by one run.
type RunSummary struct {
	RunID     string
	Shots     int
	CreatedAt time.Time
}

// Runs lists the runs that still hold records, oldest first.
func (s *SQLite) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.Query(ctx,
		"SELECT run_id, COUNT(1), MIN(created_at) FROM handoff GROUP BY run_id ORDER BY MIN(created_at), run_id")
	if err != nil {
		return nil, fmt.Errorf("list handoff runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			summary RunSummary
			created int64
		)
		if err := rows.Scan(&summary.RunID, &summary.Shots, &created); err != nil {
			return nil, fmt.Errorf("scan handoff run: %w", err)
		}
		summary.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, summary)
	}
	return out, rows.Err()
}

// PurgeStale deletes records older than olderThan regardless of run and
// returns how many were removed.
func (s *SQLite) PurgeStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan < 0 {
		return 0, services.Wrap(services.ErrValidation, "handoff", "purge", "retention must not be negative", nil)
	}
	cutoff := s.now().Add(-olderThan).UnixNano()
	res, err := s.db.Exec(ctx, "DELETE FROM handoff WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge stale handoff records: %w", err)
	}
	return res.RowsAffected()
}

type sqliteStore struct {
	backend *SQLite
	runID   string
}

func (s *sqliteStore) RunID() string { return s.runID }

func (s *sqliteStore) Publish(ctx context.Context, shotID string, record Record) error {
	if err := validateKey(s.runID, shotID); err != nil {
		return err
	}
	payload, err := record.Encode()
	if err != nil {
		return services.Wrap(services.ErrValidation, "handoff", "publish",
			fmt.Sprintf("encode record for shot %s", shotID), err)
	}
	_, err = s.backend.db.Exec(ctx,
		"INSERT INTO handoff (run_id, shot_id, payload, created_at) VALUES (?, ?, ?, ?)",
		s.runID, shotID, payload, s.backend.now().UnixNano())
	if err != nil {
		if sqlitex.IsConstraint(err) {
			return duplicate(s.runID, shotID)
		}
		return services.Wrap(services.ErrTransient, "handoff", "publish",
			fmt.Sprintf("store record for shot %s", shotID), err)
	}
	return nil
}

func (s *sqliteStore) Fetch(ctx context.Context, shotID string) (Record, error) {
	if err := validateKey(s.runID, shotID); err != nil {
		return Record{}, err
	}
	var payload string
	err := s.backend.db.QueryRow(ctx, []any{&payload},
		"SELECT payload FROM handoff WHERE run_id = ? AND shot_id = ?", s.runID, shotID)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, notFound(s.runID, shotID)
	}
	if err != nil {
		return Record{}, services.Wrap(services.ErrTransient, "handoff", "fetch",
			fmt.Sprintf("load record for shot %s", shotID), err)
	}
	return Parse(payload)
}

func (s *sqliteStore) Clear(ctx context.Context) error {
	if _, err := s.backend.db.Exec(ctx, "DELETE FROM handoff WHERE run_id = ?", s.runID); err != nil {
		return services.Wrap(services.ErrTransient, "handoff", "clear",
			fmt.Sprintf("delete records of run %s", s.runID), err)
	}
	return nil
}
