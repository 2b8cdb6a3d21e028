// Package csvfile persists the store's lines to a flat text file: one
// record per line, no header, no quoting.
//
// WHY NOT encoding/csv?
// ─────────────────────
// encoding/csv would quote fields that contain spaces or quotes, and the
// file format predates that. The store already strips commas from the
// free-text fields before a line gets here, so a plain line reader is
// all this package needs.
package csvfile

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/aanand-mishra/student-records/internal/storage"
)

// File is a storage.Persister backed by a single file path.
// It holds no open handle between calls, so there is nothing to leak if
// the program exits without calling Close.
type File struct {
	Path string
}

// New returns a File for path. Nothing is opened until Load or Save.
func New(path string) *File {
	return &File{Path: path}
}

// Location returns the file path.
func (f *File) Location() string { return f.Path }

// Close is a no-op; every Load and Save opens and closes the file.
func (f *File) Close() error { return nil }

// ─────────────────────────────────────────────────────────────────────────────
// Load reads every line of the file.
//
// WHY bufio.Reader AND NOT bufio.Scanner:
// ───────────────────────────────────────
// A Scanner gives up on any line longer than its 64 KiB token limit and
// the whole load fails. The caller would then start with an empty store,
// and the next save would truncate the file, losing every record.
// ReadString has no line limit.
//
// A missing file is not an error: it just means nothing was saved yet.
// ─────────────────────────────────────────────────────────────────────────────
func (f *File) Load() ([]string, error) {
	file, err := os.Open(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, &storage.PersistenceError{Op: "load", Location: f.Path, Err: err}
	}
	// defer closes the file however we leave this function.
	defer file.Close()

	lines, err := ReadLines(file)
	if err != nil {
		return nil, &storage.PersistenceError{Op: "load", Location: f.Path, Err: err}
	}
	return lines, nil
}

// ReadLines splits r into lines with their "\n" or "\r\n" endings
// removed. A final line without a newline is still returned; a trailing
// newline does not produce an extra empty line.
func ReadLines(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	lines := make([]string, 0)
	for {
		line, err := br.ReadString('\n')
		// ReadString returns what it read before the error, so a last line
		// with no newline arrives together with io.EOF.
		if line != "" {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Save truncates the file and writes lines, each followed by a newline.
//
// The write goes through a bufio.Writer so a large store is written in a
// few syscalls rather than one per record. Flush must succeed AND Close
// must succeed: on some filesystems a failed write only surfaces when
// the file is closed, so the deferred Close reports into err.
// ─────────────────────────────────────────────────────────────────────────────
func (f *File) Save(lines []string) (err error) {
	// os.Create truncates an existing file or creates a new one (0666
	// before umask).
	file, err := os.Create(f.Path)
	if err != nil {
		return &storage.PersistenceError{Op: "save", Location: f.Path, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = &storage.PersistenceError{Op: "save", Location: f.Path, Err: cerr}
		}
	}()

	w := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return &storage.PersistenceError{Op: "save", Location: f.Path, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		return &storage.PersistenceError{Op: "save", Location: f.Path, Err: err}
	}
	return nil
}
