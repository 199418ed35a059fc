package eval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGroundTruth(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestGroundTruthCache_LoadAndGet(t *testing.T) {
	dir := t.TempDir()
	writeGroundTruth(t, dir, "cv_001.json", `{"name": "Jane Doe", "skills": ["Go"]}`)
	writeGroundTruth(t, dir, "labeled.json", `{"id": "cv_002", "name": "John Smith"}`)
	writeGroundTruth(t, dir, "notes.txt", "not a record")

	cache := NewGroundTruthCache(dir)
	require.NoError(t, cache.Load())
	assert.Equal(t, 2, cache.Len())

	// Keyed by filename stem when no explicit id.
	record, err := cache.Get("cv_001")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", record.Name)
	assert.NotNil(t, record.Education, "defaults must be filled on load")

	// Keyed by the explicit id field, not the filename.
	record, err = cache.Get("cv_002")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", record.Name)

	_, err = cache.Get("labeled")
	require.Error(t, err)
}

func TestGroundTruthCache_MissingDocument(t *testing.T) {
	cache := NewGroundTruthCache(t.TempDir())
	require.NoError(t, cache.Load())

	_, err := cache.Get("cv_404")
	var missing *GroundTruthMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "cv_404", missing.DocumentID)
}

func TestGroundTruthCache_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeGroundTruth(t, dir, "bad.json", `{"skills": "not a list"}`)

	cache := NewGroundTruthCache(dir)
	err := cache.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestGroundTruthCache_Reload(t *testing.T) {
	dir := t.TempDir()
	writeGroundTruth(t, dir, "cv_001.json", `{"name": "Before"}`)

	cache := NewGroundTruthCache(dir)
	require.NoError(t, cache.Load())

	record, err := cache.Get("cv_001")
	require.NoError(t, err)
	assert.Equal(t, "Before", record.Name)

	// The cache must not pick up disk changes until an explicit reload.
	writeGroundTruth(t, dir, "cv_001.json", `{"name": "After"}`)
	record, err = cache.Get("cv_001")
	require.NoError(t, err)
	assert.Equal(t, "Before", record.Name)

	require.NoError(t, cache.Reload())
	record, err = cache.Get("cv_001")
	require.NoError(t, err)
	assert.Equal(t, "After", record.Name)
}
