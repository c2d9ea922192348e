// Package store persists training state in SQLite: one row per training run,
// the per-epoch NLL history, and the learned parameter snapshot. Parameter
// vectors and training data are the only state exchanged with storage.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/bernlang/bern/internal/params"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	program     TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	finished_at TIMESTAMP
);
CREATE TABLE IF NOT EXISTS epochs (
	run_id TEXT NOT NULL REFERENCES runs(id),
	epoch  INTEGER NOT NULL,
	nll    REAL NOT NULL,
	PRIMARY KEY (run_id, epoch)
);
CREATE TABLE IF NOT EXISTS parameters (
	run_id TEXT NOT NULL REFERENCES runs(id),
	name   TEXT NOT NULL,
	value  REAL NOT NULL,
	PRIMARY KEY (run_id, name)
);
`

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the run database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing store schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// BeginRun records the start of a training run for the named program source
// and returns the run id.
func (s *Store) BeginRun(program string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`INSERT INTO runs (id, program) VALUES (?, ?)`, id, program)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return id, nil
}

// LogEpoch records one epoch's NLL for a run.
func (s *Store) LogEpoch(runID string, epoch int, nll float64) error {
	_, err := s.db.Exec(`INSERT INTO epochs (run_id, epoch, nll) VALUES (?, ?, ?)`, runID, epoch, nll)
	if err != nil {
		return fmt.Errorf("recording epoch %d: %w", epoch, err)
	}
	return nil
}

// FinishRun marks the run finished and stores its learned parameters.
func (s *Store) FinishRun(runID string, p params.Vector) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	defer tx.Rollback()

	for _, k := range p.Keys() {
		v, err := p.Get(k)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO parameters (run_id, name, value) VALUES (?, ?, ?)`, runID, k, v); err != nil {
			return fmt.Errorf("storing parameter %s: %w", k, err)
		}
	}
	if _, err := tx.Exec(`UPDATE runs SET finished_at = CURRENT_TIMESTAMP WHERE id = ?`, runID); err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return tx.Commit()
}

// LatestParams loads the parameters of the most recent finished run for the
// named program. Returns sql.ErrNoRows if there is none.
func (s *Store) LatestParams(program string) (params.Vector, error) {
	var runID string
	err := s.db.QueryRow(
		`SELECT id FROM runs WHERE program = ? AND finished_at IS NOT NULL ORDER BY finished_at DESC LIMIT 1`,
		program,
	).Scan(&runID)
	if err != nil {
		return params.Vector{}, err
	}

	rows, err := s.db.Query(`SELECT name, value FROM parameters WHERE run_id = ?`, runID)
	if err != nil {
		return params.Vector{}, fmt.Errorf("loading parameters: %w", err)
	}
	defer rows.Close()

	vals := map[string]float64{}
	for rows.Next() {
		var name string
		var value float64
		if err := rows.Scan(&name, &value); err != nil {
			return params.Vector{}, err
		}
		vals[name] = value
	}
	if err := rows.Err(); err != nil {
		return params.Vector{}, err
	}
	return params.New(vals), nil
}

// EpochHistory returns the (epoch, nll) sequence of a run in order.
func (s *Store) EpochHistory(runID string) ([]float64, error) {
	rows, err := s.db.Query(`SELECT nll FROM epochs WHERE run_id = ? ORDER BY epoch`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading epoch history: %w", err)
	}
	defer rows.Close()

	var nlls []float64
	for rows.Next() {
		var nll float64
		if err := rows.Scan(&nll); err != nil {
			return nil, err
		}
		nlls = append(nlls, nll)
	}
	return nlls, rows.Err()
}
