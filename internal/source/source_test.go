package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterContentCollapsesTrailingWhitespaceLines(t *testing.T) {
	in := "a = 1\n   \nb = 2"
	out := filterContent(in)
	assert.Equal(t, "a = 1\n\n\nb = 2\n", out)
}

func TestLoadEntryMissingFile(t *testing.T) {
	l := NewLoader()
	_, err := l.LoadEntry("/no/such/file.rk")
	require.Error(t, err)
}

func TestLoadEntryReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rk")
	require.NoError(t, os.WriteFile(path, []byte("main = 0"), 0o644))

	l := NewLoader()
	f, err := l.LoadEntry(path)
	require.NoError(t, err)
	assert.Equal(t, "main = 0\n", f.Content)
	assert.Equal(t, "main", f.ModPath)
}

func TestResolvePrefersStdlib(t *testing.T) {
	l := NewLoader()
	f := l.LoadString("/project/main.rk", "main = 0")

	resolved, err := l.Resolve(f, "prelude")
	require.NoError(t, err)
	assert.Equal(t, "prelude", resolved.ModPath)
	assert.Contains(t, resolved.Content, "id x = x")
}

func TestResolveFallsBackToFilesystem(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.rk")
	require.NoError(t, os.WriteFile(mainPath, []byte("mod main"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.rk"), []byte("util = 1"), 0o644))

	l := NewLoader()
	f := l.LoadString(mainPath, "mod main")

	resolved, err := l.Resolve(f, "util")
	require.NoError(t, err)
	assert.Equal(t, "util = 1\n", resolved.Content)
}

func TestResolveMissingModuleFails(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.rk")

	l := NewLoader()
	f := l.LoadString(mainPath, "mod main")

	_, err := l.Resolve(f, "missing")
	require.Error(t, err)
}
