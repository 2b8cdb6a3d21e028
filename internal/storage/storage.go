// Package storage defines the contracts shared by the record store and
// the backends that persist it.
//
// The in-memory store (storage/memory) owns every record for the life of
// the process. It renders itself to, and rebuilds itself from, a sequence
// of text lines. A Persister only moves those lines to and from durable
// storage, so switching from the flat file to SQLite changes one line in
// main.go and nothing in the store.
package storage

import (
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-records/internal/types"
)

var (
	// ErrNotFound is returned when an operation names an absent id.
	ErrNotFound = errors.New("student not found")

	// ErrDuplicateID is returned when an add reuses a live id.
	ErrDuplicateID = errors.New("student id already exists")
)

// Registry is the record store as seen by the HTTP handlers.
// *memory.Store satisfies it.
type Registry interface {
	// Add fails with ErrDuplicateID when the id is live.
	Add(student types.Student) error

	// FindByID fails with ErrNotFound when the id is absent.
	FindByID(id int) (types.Student, error)

	// Update applies the set fields of changes. Rejected fields come back
	// as joined *validate.Error values next to the updated record.
	Update(id int, changes types.Changes) (types.Student, error)

	// Delete fails with ErrNotFound when the id is absent.
	Delete(id int) error

	// List returns every record in insertion order, never nil.
	List() []types.Student

	// Serialize renders every record as one line.
	Serialize() []string
}

// Persister is the durable side of the store.
type Persister interface {
	// Load returns every stored line in file order. A store that has
	// never been saved loads as an empty slice and a nil error.
	Load() ([]string, error)

	// Save replaces the stored lines with lines.
	Save(lines []string) error

	// Location names where the lines live, for messages and logs.
	Location() string

	// Close releases any handle the backend keeps open.
	Close() error
}

// PersistenceError is an I/O failure while loading or saving.
type PersistenceError struct {
	Op       string // "load" or "save"
	Location string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Location, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
