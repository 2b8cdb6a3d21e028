package csvfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_LoadMissingFile(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "students.csv"))

	lines, err := f.Load()
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestFile_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.csv")
	f := New(path)
	want := []string{"1,Alice,20,a@x.com,CS", "2,Bob,22,b@x.com,EE"}

	require.NoError(t, f.Save(want))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,Alice,20,a@x.com,CS\n2,Bob,22,b@x.com,EE\n", string(raw))

	got, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFile_SaveTruncates(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "students.csv"))

	require.NoError(t, f.Save([]string{"1,A,20,a@x.com,CS", "2,B,21,b@x.com,EE"}))
	require.NoError(t, f.Save([]string{"3,C,22,c@x.com,ME"}))

	got, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"3,C,22,c@x.com,ME"}, got)
}

func TestFile_SaveFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "students.csv")
	f := New(path)

	err := f.Save([]string{"1,A,20,a@x.com,CS"})
	require.Error(t, err)

	var perr *storage.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "save", perr.Op)
	assert.Equal(t, path, perr.Location)
}

func TestFile_LoadDirectory(t *testing.T) {
	f := New(t.TempDir())

	_, err := f.Load()
	var perr *storage.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "load", perr.Op)
}

func TestFile_LongLineRoundTrip(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "students.csv"))
	long := "2," + strings.Repeat("B", 70_000) + ",22,b@x.com,EE"
	want := []string{"1,Alice,20,a@x.com,CS", long, "3,Cara,19,c@x.com,Bio"}

	require.NoError(t, f.Save(want))

	got, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"crlf endings", "a\r\nb\r\n", []string{"a", "b"}},
		{"blank line kept", "a\n\nb\n", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadLines(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
