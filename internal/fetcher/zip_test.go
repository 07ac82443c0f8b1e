package fetcher

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestZip(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "snapshot.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestExtractSingle(t *testing.T) {
	t.Parallel()

	zipPath := writeTestZip(t, map[string]string{
		"markets.csv": "country,name\nUS,United States\n",
	})

	destDir := t.TempDir()
	got, err := ExtractSingle(zipPath, destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "markets.csv"), got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Contains(t, string(data), "United States")
}

func TestExtractSingleNested(t *testing.T) {
	t.Parallel()

	zipPath := writeTestZip(t, map[string]string{
		"2026/markets.csv": "country,name\n",
	})

	destDir := t.TempDir()
	got, err := ExtractSingle(zipPath, destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "2026", "markets.csv"), got)
}

func TestExtractSingleRejectsMultiple(t *testing.T) {
	t.Parallel()

	zipPath := writeTestZip(t, map[string]string{
		"markets.csv":    "a",
		"industries.csv": "b",
	})

	_, err := ExtractSingle(zipPath, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected exactly 1 file")
}

func TestExtractSingleRejectsPathTraversal(t *testing.T) {
	t.Parallel()

	zipPath := writeTestZip(t, map[string]string{
		"../escape.csv": "owned",
	})

	_, err := ExtractSingle(zipPath, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal archive path")
}
