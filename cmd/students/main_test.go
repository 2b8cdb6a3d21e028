package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	t.Cleanup(func() { configPath = "" })

	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, backend, dataFile string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf("env: prod\nstorage_backend: %s\nstorage_path: %s\n", backend, dataFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "students dev\n", out)
}

func TestList(t *testing.T) {
	data := filepath.Join(t.TempDir(), "students.csv")
	require.NoError(t, os.WriteFile(data,
		[]byte("1,Alice,20,a@x.com,CS\n1,Eve,99,e@x.com,ART\nbad,line\n2,Bob,22,b@x.com,EE\n"), 0o644))

	out, err := execute(t, "", "list", "-c", writeConfig(t, "csv", data))
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Bob")
	assert.NotContains(t, out, "Eve")
	assert.Contains(t, out, "Total students: 2")
}

func TestInteractiveSavesToSQLite(t *testing.T) {
	db := filepath.Join(t.TempDir(), "students.db")
	cfg := writeConfig(t, "sqlite", db)

	out, err := execute(t, "1\n1\nAlice\n20\na@x.com\nCS\n7\nyes\n", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Data saved to "+db)

	out, err = execute(t, "", "list", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Total students: 1")
}

func TestBadConfig(t *testing.T) {
	_, err := execute(t, "", "list", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "does not exist")
}
