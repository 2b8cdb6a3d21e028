// Package memory holds the record store: the in-memory owner of every
// student record, plus its line-oriented (de)serialization.
//
// WHY A SLICE AND NOT A MAP?
// ──────────────────────────
// Listing and saving must reproduce the order records were added or
// loaded in. A map has no order, so every List would need a sort and the
// file would be rewritten in a different order on each save. A class
// holds a few hundred students at most, so a linear scan on lookup costs
// nothing worth measuring.
//
// WHO VALIDATES WHAT:
// ───────────────────
//   - Add trusts its argument. The console and the HTTP create handler
//     validate every field before calling it.
//   - Update validates each changed field itself, because it is the one
//     place where a partial record arrives.
//   - Deserialize only checks the shape of a line (five fields, integer
//     id and age); whatever the file holds is taken as it was saved.
package memory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/validate"
)

// fieldCount is the number of comma-separated fields in one line:
// id,name,age,email,course.
const fieldCount = 5

// Store keeps students in insertion order. Lookups are linear scans.
//
// The console drives a Store from a single goroutine; the mutex only
// matters when the HTTP handlers share it.
type Store struct {
	mu       sync.RWMutex
	students []types.Student
}

// New returns an empty store.
func New() *Store {
	return &Store{students: make([]types.Student, 0)}
}

// indexOf returns the position of id, or -1. Callers hold mu.
func (s *Store) indexOf(id int) int {
	for i := range s.students {
		if s.students[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends student. It fails with storage.ErrDuplicateID if the id
// is already live, leaving the store unchanged.
func (s *Store) Add(student types.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Wrap the sentinel so callers can test with errors.Is and still get
	// the offending id in the message.
	if s.indexOf(student.ID) >= 0 {
		return fmt.Errorf("%w: %d", storage.ErrDuplicateID, student.ID)
	}
	s.students = append(s.students, student)
	return nil
}

// FindByID returns a copy of the record with id.
func (s *Store) FindByID(id int) (types.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return types.Student{}, fmt.Errorf("%w: %d", storage.ErrNotFound, id)
	}
	// Returning the struct by value hands out a copy; editing it does not
	// touch the store.
	return s.students[i], nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Update applies the non-nil fields of changes to the record with id.
//
// Each field is checked on its own: an invalid value (blank name or
// course, age below 1, malformed email) is skipped and the old value
// kept, while the remaining fields still apply. The updated record is
// returned together with the joined *validate.Error values of any
// rejected fields.
//
// A nil pointer in changes means "leave this field alone"; a pointer to
// an empty string is a request to blank the field, and is rejected.
// ─────────────────────────────────────────────────────────────────────────────
func (s *Store) Update(id int, changes types.Changes) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return types.Student{}, fmt.Errorf("%w: %d", storage.ErrNotFound, id)
	}

	// Edit through a pointer into the slice so the changes land in place.
	st := &s.students[i]
	var rejected []error

	if changes.Name != nil {
		if name, err := validate.Required("name", *changes.Name); err != nil {
			rejected = append(rejected, err)
		} else {
			st.Name = name
		}
	}
	if changes.Age != nil {
		if err := validate.PositiveAge(*changes.Age); err != nil {
			rejected = append(rejected, err)
		} else {
			st.Age = *changes.Age
		}
	}
	if changes.Email != nil {
		if email, err := validate.Email(*changes.Email); err != nil {
			rejected = append(rejected, err)
		} else {
			st.Email = email
		}
	}
	if changes.Course != nil {
		if course, err := validate.Required("course", *changes.Course); err != nil {
			rejected = append(rejected, err)
		} else {
			st.Course = course
		}
	}

	// errors.Join returns nil when nothing was rejected.
	return *st, errors.Join(rejected...)
}

// Delete removes the record with id.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", storage.ErrNotFound, id)
	}
	// Shift the tail left by one; the relative order of the rest is kept.
	s.students = append(s.students[:i], s.students[i+1:]...)
	return nil
}

// List returns a copy of every record in insertion/load order. It is
// never nil.
func (s *Store) List() []types.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// make with a length of zero still gives an empty, non-nil slice, which
	// the HTTP layer encodes as [] rather than null.
	out := make([]types.Student, len(s.students))
	copy(out, s.students)
	return out
}

// Len returns the number of live records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.students)
}

// ─────────────────────────────────────────────────────────────────────────────
// LINE FORMAT
//
//	id,name,age,email,course
//	1,Alice,20,a@x.com,CS
//
// No header and no quoting. Both persisters (csvfile, sqlite) store these
// lines as-is, so the format lives here and nowhere else.
// ─────────────────────────────────────────────────────────────────────────────

// Serialize renders every record as one id,name,age,email,course line.
// Commas inside name and course become spaces so the field count
// survives; the substitution is not reversed on load.
func (s *Store) Serialize() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make([]string, 0, len(s.students))
	for _, st := range s.students {
		lines = append(lines, FormatLine(st))
	}
	return lines
}

// FormatLine renders one record.
func FormatLine(st types.Student) string {
	return strings.Join([]string{
		strconv.Itoa(st.ID),
		strings.ReplaceAll(st.Name, ",", " "),
		strconv.Itoa(st.Age),
		st.Email,
		strings.ReplaceAll(st.Course, ",", " "),
	}, ",")
}

// ParseLine reads one record. ok is false when the line has fewer than
// five fields or a non-integer id or age. Fields past the fifth are
// ignored.
func ParseLine(line string) (types.Student, bool) {
	// strings.Split keeps trailing empty fields.
	parts := strings.Split(line, ",")
	if len(parts) < fieldCount {
		return types.Student{}, false
	}

	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return types.Student{}, false
	}
	age, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return types.Student{}, false
	}

	return types.Student{
		ID:     id,
		Name:   strings.TrimSpace(parts[1]),
		Age:    age,
		Email:  strings.TrimSpace(parts[3]),
		Course: strings.TrimSpace(parts[4]),
	}, true
}

// ─────────────────────────────────────────────────────────────────────────────
// Deserialize appends the records in lines and returns how many were
// loaded. Malformed lines are skipped, and so is any line whose id is
// already in the store; the first occurrence wins.
//
// A bad line is skipped rather than failing the whole load: one hand-edited
// line should not hide every other record in the file.
// ─────────────────────────────────────────────────────────────────────────────
func (s *Store) Deserialize(lines []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := 0
	for _, line := range lines {
		st, ok := ParseLine(line)
		if !ok || s.indexOf(st.ID) >= 0 {
			continue
		}
		s.students = append(s.students, st)
		loaded++
	}
	return loaded
}

// Compile-time check that *Store satisfies storage.Registry; the build
// breaks here, not in the handlers, if a method goes missing.
var _ storage.Registry = (*Store)(nil)
