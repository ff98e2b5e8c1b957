package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the run history in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS schedule_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT,
        ts INTEGER,
        algorithm TEXT,
        trains INTEGER,
        conflicts INTEGER,
        avg_delay_min REAL,
        max_delay_min INTEGER,
        duration_ms INTEGER,
        passed INTEGER,
        failed INTEGER
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Append writes the record to the database.
func (s *SQLiteStore) Append(ctx context.Context, rec RunRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO schedule_runs (run_id, ts, algorithm, trains, conflicts, avg_delay_min, max_delay_min, duration_ms, passed, failed)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Time.UnixMilli(), rec.Algorithm, rec.Trains, rec.Conflicts,
		rec.AvgDelayMin, rec.MaxDelayMin, rec.DurationMS, rec.Passed, rec.Failed)
	return err
}

// Query returns matching records ordered by insertion.
func (s *SQLiteStore) Query(ctx context.Context, q RunQuery) ([]RunRecord, error) {
	query := `SELECT run_id, ts, algorithm, trains, conflicts, avg_delay_min, max_delay_min, duration_ms, passed, failed
              FROM schedule_runs WHERE 1=1`
	var args []any
	if !q.Since.IsZero() {
		query += " AND ts >= ?"
		args = append(args, q.Since.UnixMilli())
	}
	if !q.Until.IsZero() {
		query += " AND ts <= ?"
		args = append(args, q.Until.UnixMilli())
	}
	if q.Algorithm != "" {
		query += " AND algorithm = ?"
		args = append(args, q.Algorithm)
	}
	query += " ORDER BY id"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []RunRecord
	for rows.Next() {
		var rec RunRecord
		var ts int64
		if err := rows.Scan(&rec.RunID, &ts, &rec.Algorithm, &rec.Trains, &rec.Conflicts,
			&rec.AvgDelayMin, &rec.MaxDelayMin, &rec.DurationMS, &rec.Passed, &rec.Failed); err != nil {
			return nil, err
		}
		rec.Time = time.UnixMilli(ts)
		res = append(res, rec)
	}
	return res, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
