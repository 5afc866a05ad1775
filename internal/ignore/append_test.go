package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend_IdempotentAndCreates(t *testing.T) {
	dir := t.TempDir()
	added, err := Append(dir, "dist/")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = Append(dir, "dist/")
	require.NoError(t, err)
	assert.False(t, added)

	b, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, "dist/\n", string(b))
}

func TestAppend_FixesMissingTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("*.min.js"), 0644))
	_, err := Append(dir, "docs/a.txt")
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, "*.min.js\ndocs/a.txt\n", string(b))

	m, err := Load(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.True(t, m.Match("docs/a.txt"))
}

func TestAppend_EmptyPattern(t *testing.T) {
	added, err := Append(t.TempDir(), "  ")
	require.NoError(t, err)
	assert.False(t, added)
}
