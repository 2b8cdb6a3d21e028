// Package sqlite provides a SQLite-backed storage.Persister.
//
// It keeps exactly the lines the flat file would hold, one row per line
// in a student_lines table, so both backends load through the same
// parsing rules in the store.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/aanand-mishra/student-records/internal/storage"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is a storage.Persister over a *sql.DB.
type SQLite struct {
	Db   *sql.DB
	path string
}

// New opens the database at path and creates the student_lines table if
// it does not already exist.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &storage.PersistenceError{Op: "open", Location: path, Err: err}
	}

	// seq preserves file order; line is the serialized record.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS student_lines (
			seq  INTEGER PRIMARY KEY,
			line TEXT    NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, &storage.PersistenceError{Op: "open", Location: path,
			Err: fmt.Errorf("create table: %w", err)}
	}

	return &SQLite{Db: db, path: path}, nil
}

// Location returns the database path.
func (s *SQLite) Location() string { return s.path }

// Close closes the database.
func (s *SQLite) Close() error { return s.Db.Close() }

// Load returns every stored line ordered by seq.
func (s *SQLite) Load() ([]string, error) {
	rows, err := s.Db.Query("SELECT line FROM student_lines ORDER BY seq")
	if err != nil {
		return nil, s.fail("load", fmt.Errorf("query: %w", err))
	}
	defer rows.Close()

	lines := make([]string, 0)
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, s.fail("load", fmt.Errorf("scan row: %w", err))
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("load", fmt.Errorf("rows iteration: %w", err))
	}
	return lines, nil
}

// Save replaces every stored line in a single transaction. On failure the
// transaction is rolled back and the previous lines stay in place.
func (s *SQLite) Save(lines []string) error {
	tx, err := s.Db.Begin()
	if err != nil {
		return s.fail("save", fmt.Errorf("begin: %w", err))
	}
	// Rollback after Commit is a no-op.
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM student_lines"); err != nil {
		return s.fail("save", fmt.Errorf("clear: %w", err))
	}

	stmt, err := tx.Prepare("INSERT INTO student_lines (seq, line) VALUES (?, ?)")
	if err != nil {
		return s.fail("save", fmt.Errorf("prepare: %w", err))
	}
	defer stmt.Close()

	for i, line := range lines {
		if _, err := stmt.Exec(i, line); err != nil {
			return s.fail("save", fmt.Errorf("insert line %d: %w", i+1, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return s.fail("save", fmt.Errorf("commit: %w", err))
	}
	return nil
}

func (s *SQLite) fail(op string, err error) error {
	return &storage.PersistenceError{Op: op, Location: s.path, Err: err}
}
