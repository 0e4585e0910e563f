package trace

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS trace (
    id     INTEGER PRIMARY KEY,
    op     INTEGER NOT NULL,
    size   INTEGER NOT NULL,
    offset INTEGER NOT NULL
);`

// SQLiteSink persists trace entries into a SQLite database so traces
// can be queried or joined with simulation results later.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLiteSink opens (or creates) the database at path and ensures
// the trace table exists.
func OpenSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening trace database %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating trace schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

// WriteAll inserts entries in emission order inside one transaction.
// Row ids follow insertion order, so the trace ordering survives.
func (s *SQLiteSink) WriteAll(entries []Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning trace insert: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO trace (op, size, offset) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing trace insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.Op(), e.SizeBytes, e.OffsetBytes); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting trace entry: %w", err)
		}
	}
	return tx.Commit()
}

// Close releases the underlying database handle.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
