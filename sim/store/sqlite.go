// Package store persists simulated histograms in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/molstat/molstat/sim/histogram"
)

// ErrNotInitialized is returned by every operation before Init.
var ErrNotInitialized = errors.New("store is not initialized")

// Run describes one stored simulation.
type Run struct {
	ID          string
	CreatedAt   time.Time
	Model       string
	Observables []string
	Trials      int
	Skipped     int
	Seed        int64
	Density     bool
}

// SQLiteStore keeps runs and their histogram rows in one database file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the tables. Calling it again is a
// no-op.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

// SaveRun stores run and its rows in one transaction and returns the run
// ID. A new ID is generated when run.ID is empty.
func (s *SQLiteStore) SaveRun(ctx context.Context, run Run, rows []histogram.Row) (string, error) {
	db, err := s.getDB()
	if err != nil {
		return "", err
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, model, observables, trials, skipped, seed, density)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt.Format(time.RFC3339Nano), run.Model, strings.Join(run.Observables, ","),
		run.Trials, run.Skipped, run.Seed, run.Density)
	if err != nil {
		return "", fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cells (run_id, idx, coordinates, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()
	for i, r := range rows {
		coords, err := json.Marshal(r.Coordinates)
		if err != nil {
			return "", err
		}
		if _, err := stmt.ExecContext(ctx, run.ID, i, coords, r.Value); err != nil {
			return "", fmt.Errorf("insert cell %d of run %s: %w", i, run.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return run.ID, nil
}

// Runs lists stored runs, oldest first.
func (s *SQLiteStore) Runs(ctx context.Context) ([]Run, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rs, err := db.QueryContext(ctx, `
		SELECT id, created_at, model, observables, trials, skipped, seed, density
		FROM runs ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out []Run
	for rs.Next() {
		var (
			r       Run
			created string
			obs     string
		)
		if err := rs.Scan(&r.ID, &created, &r.Model, &obs, &r.Trials, &r.Skipped, &r.Seed, &r.Density); err != nil {
			return nil, err
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("run %s: created_at: %w", r.ID, err)
		}
		if obs != "" {
			r.Observables = strings.Split(obs, ",")
		}
		out = append(out, r)
	}
	return out, rs.Err()
}

// Rows returns the histogram rows of one run in stored order. The boolean
// is false when no run has that ID.
func (s *SQLiteStore) Rows(ctx context.Context, id string) ([]histogram.Row, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var one int
	err = db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	rs, err := db.QueryContext(ctx, `SELECT coordinates, value FROM cells WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, false, err
	}
	defer rs.Close()

	var out []histogram.Row
	for rs.Next() {
		var (
			payload []byte
			r       histogram.Row
		)
		if err := rs.Scan(&payload, &r.Value); err != nil {
			return nil, false, err
		}
		if err := json.Unmarshal(payload, &r.Coordinates); err != nil {
			return nil, false, fmt.Errorf("decode cell of run %s: %w", id, err)
		}
		out = append(out, r)
	}
	if err := rs.Err(); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			model TEXT NOT NULL,
			observables TEXT NOT NULL,
			trials INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			density INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS cells (
			run_id TEXT NOT NULL REFERENCES runs(id),
			idx INTEGER NOT NULL,
			coordinates BLOB NOT NULL,
			value REAL NOT NULL,
			PRIMARY KEY (run_id, idx)
		);
	`)
	return err
}
