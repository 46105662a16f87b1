package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/tagesfed/records"
	"github.com/pevans/tagesfed/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDir(t *testing.T) *Dir {
	d, err := NewDir(filepath.Join(t.TempDir(), "export"))
	require.NoError(t, err)
	return d
}

func sampleRecord(url string) records.Record {
	return *records.New(records.KindTeaser, url, scraper.Record{
		"headline": "Test headline",
		"tags":     []string{"Corona"},
		"date":     nil,
	}, time.Date(2021, 1, 30, 18, 4, 0, 0, time.UTC))
}

// TestNewDir_CreatesDirectory verifies the directory is created owner-only
func TestNewDir_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "export")
	d, err := NewDir(path)
	require.NoError(t, err)
	assert.Equal(t, path, d.Path())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

// TestWrite_Get verifies a record round-trips through its file
func TestWrite_Get(t *testing.T) {
	d := createTestDir(t)
	r := sampleRecord("/inland/a.html")
	require.NoError(t, d.Write(r))

	info, err := os.Stat(filepath.Join(d.Path(), r.ID.String()+".json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := d.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, r.Fields, got.Fields)
	assert.True(t, r.ExtractedAt.Equal(got.ExtractedAt))
}

// TestGet_NotFound verifies a missing file
func TestGet_NotFound(t *testing.T) {
	d := createTestDir(t)
	_, err := d.Get(uuid.New())
	assert.ErrorIs(t, err, records.ErrRecordNotFound)
}

// TestList_CollectsReadErrors verifies corrupted files don't fail the list
func TestList_CollectsReadErrors(t *testing.T) {
	d := createTestDir(t)

	n, err := d.WriteAll([]records.Record{sampleRecord("/b.html"), sampleRecord("/a.html")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, os.WriteFile(filepath.Join(d.Path(), "broken.json"), []byte("{not json"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(d.Path(), "notes.txt"), []byte("ignored"), 0o600))

	result, err := d.List()
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "/a.html", result.Records[0].URL)
	assert.Equal(t, "/b.html", result.Records[1].URL)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "broken.json", result.Errors[0].Filename)
	assert.Contains(t, result.Errors[0].Error(), "broken.json")
}

// TestList_UnreadableDirectory verifies a total failure
func TestList_UnreadableDirectory(t *testing.T) {
	d := createTestDir(t)
	require.NoError(t, os.RemoveAll(d.Path()))

	_, err := d.List()
	assert.Error(t, err)
}

// TestDelete verifies deletion and missing records
func TestDelete(t *testing.T) {
	d := createTestDir(t)
	r := sampleRecord("/a.html")
	require.NoError(t, d.Write(r))

	require.NoError(t, d.Delete(r.ID))
	assert.ErrorIs(t, d.Delete(r.ID), records.ErrRecordNotFound)
}
