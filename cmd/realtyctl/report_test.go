package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.pdf")

	require.NoError(t, os.WriteFile(out, []byte("old"), 0o644))
	require.NoError(t, writeAtomic(out, []byte("%PDF-1.4")))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteAtomic_MissingDirLeavesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "report.pdf")
	assert.Error(t, writeAtomic(out, []byte("%PDF")))
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}
