// Package kpi persists the daily ecological ledger of simulation runs.
package kpi

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	eco "github.com/kilianp07/greengrid/core/metrics/eco"
)

// SQLiteStore persists ledger records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS eco_kpi (
        run_id TEXT,
        day INTEGER,
        solar REAL,
        imported REAL,
        exported REAL,
        consumed REAL,
        PRIMARY KEY(run_id, day)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Add accumulates r into the record of its run and day.
func (s *SQLiteStore) Add(r eco.Record) error {
	d := eco.Day(r.Date)
	_, err := s.db.Exec(`INSERT INTO eco_kpi (run_id, day, solar, imported, exported, consumed)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(run_id, day) DO UPDATE SET
            solar = solar + excluded.solar,
            imported = imported + excluded.imported,
            exported = exported + excluded.exported,
            consumed = consumed + excluded.consumed`,
		r.RunID, d.Unix(), r.SolarKWh, r.ImportedKWh, r.ExportedKWh, r.ConsumedKWh)
	return err
}

// Query returns the records of runID in the range [start,end], oldest first.
func (s *SQLiteStore) Query(runID string, start, end time.Time) ([]eco.Record, error) {
	start = eco.Day(start)
	end = eco.Day(end)
	rows, err := s.db.Query(`SELECT run_id, day, solar, imported, exported, consumed
        FROM eco_kpi WHERE run_id = ? AND day >= ? AND day <= ? ORDER BY day`,
		runID, start.Unix(), end.Unix())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []eco.Record
	for rows.Next() {
		var r eco.Record
		var ts int64
		if err := rows.Scan(&r.RunID, &ts, &r.SolarKWh, &r.ImportedKWh, &r.ExportedKWh, &r.ConsumedKWh); err != nil {
			return nil, err
		}
		r.Date = time.Unix(ts, 0).UTC()
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
