package records

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/tagesfed/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: create a test record store
func createTestStore(t *testing.T) *Store {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewStore(dbPath)
	require.NoError(t, err, "should create record store")
	t.Cleanup(func() { store.Close() })
	return store
}

var extractedAt = time.Date(2021, 1, 30, 18, 4, 0, 0, time.UTC)

func teaserRecord(url string, at time.Time) *Record {
	return New(KindTeaser, url, scraper.Record{
		"headline":     "Test headline",
		"article_link": url,
		"date":         nil,
	}, at)
}

// TestNewStore_ExistingDatabase verifies records survive reopening
func TestNewStore_ExistingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store1, err := NewStore(dbPath)
	require.NoError(t, err)
	r := teaserRecord("/inland/a.html", extractedAt)
	require.NoError(t, store1.Save(r))
	store1.Close()

	store2, err := NewStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	got, err := store2.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.URL, got.URL)
}

// TestSave_Get verifies a saved record reads back unchanged
func TestSave_Get(t *testing.T) {
	store := createTestStore(t)

	r := New(KindArchive, "https://www.tagesschau.de/archiv?datum=2021-01-30", scraper.Record{
		"archive_date": "30. Januar 2021",
		"teasers": []scraper.Record{
			{"headline": "One", "article_link": "/inland/one.html"},
			{"headline": "Two", "article_link": nil},
		},
		"tags": []string{"Corona", "Impfung"},
	}, extractedAt)
	require.NoError(t, store.Save(r))

	got, err := store.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, KindArchive, got.Kind)
	assert.Equal(t, r.URL, got.URL)
	assert.True(t, extractedAt.Equal(got.ExtractedAt))
	assert.Equal(t, r.Fields, got.Fields)
	assert.Len(t, got.Fields.Group("teasers"), 2)
}

// TestSave_Duplicate verifies kind and URL identify a record
func TestSave_Duplicate(t *testing.T) {
	store := createTestStore(t)

	require.NoError(t, store.Save(teaserRecord("/inland/a.html", extractedAt)))
	err := store.Save(teaserRecord("/inland/a.html", extractedAt.Add(time.Hour)))
	assert.ErrorIs(t, err, ErrDuplicateRecord)

	// Same URL under another kind is a different record
	article := New(KindArticle, "/inland/a.html", scraper.Record{"headline": "A"}, extractedAt)
	assert.NoError(t, store.Save(article))
}

// TestSave_InvalidKind verifies unknown kinds are rejected
func TestSave_InvalidKind(t *testing.T) {
	store := createTestStore(t)

	r := New(Kind("podcast"), "/x", scraper.Record{}, extractedAt)
	assert.ErrorIs(t, store.Save(r), ErrInvalidKind)
}

// TestGet_NotFound verifies missing IDs
func TestGet_NotFound(t *testing.T) {
	store := createTestStore(t)

	_, err := store.Get(uuid.New())
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

// TestExists verifies the dedup lookup
func TestExists(t *testing.T) {
	store := createTestStore(t)
	require.NoError(t, store.Save(teaserRecord("/inland/a.html", extractedAt)))

	exists, err := store.Exists(KindTeaser, "/inland/a.html")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Exists(KindArticle, "/inland/a.html")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = store.Exists(KindTeaser, "/inland/b.html")
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestList_OrderAndFilter verifies newest-first order and kind filtering
func TestList_OrderAndFilter(t *testing.T) {
	store := createTestStore(t)

	require.NoError(t, store.Save(teaserRecord("/a.html", extractedAt)))
	require.NoError(t, store.Save(teaserRecord("/b.html", extractedAt.Add(time.Minute))))
	require.NoError(t, store.Save(New(KindArticle, "/a.html", scraper.Record{}, extractedAt.Add(2*time.Minute))))

	all, err := store.List(Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, KindArticle, all[0].Kind)
	assert.Equal(t, "/b.html", all[1].URL)
	assert.Equal(t, "/a.html", all[2].URL)

	kind := KindTeaser
	teasers, err := store.List(Filter{Kind: &kind})
	require.NoError(t, err)
	assert.Len(t, teasers, 2)
	for _, r := range teasers {
		assert.Equal(t, KindTeaser, r.Kind)
	}
}

// TestList_SubSecondOrder verifies records saved within one second list
// newest first
func TestList_SubSecondOrder(t *testing.T) {
	store := createTestStore(t)

	base := time.Date(2021, 1, 30, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(teaserRecord("/old.html", base)))
	require.NoError(t, store.Save(teaserRecord("/new.html", base.Add(500*time.Millisecond))))
	require.NoError(t, store.Save(teaserRecord("/newest.html", base.Add(time.Second+time.Nanosecond))))

	all, err := store.List(Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "/newest.html", all[0].URL)
	assert.Equal(t, "/new.html", all[1].URL)
	assert.Equal(t, "/old.html", all[2].URL)
	assert.True(t, base.Add(500*time.Millisecond).Equal(all[1].ExtractedAt))
}

// TestList_Pagination verifies limit and offset
func TestList_Pagination(t *testing.T) {
	store := createTestStore(t)
	for i, url := range []string{"/1.html", "/2.html", "/3.html"} {
		require.NoError(t, store.Save(teaserRecord(url, extractedAt.Add(time.Duration(i)*time.Minute))))
	}

	page, err := store.List(Filter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "/3.html", page[0].URL)

	rest, err := store.List(Filter{Offset: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "/1.html", rest[0].URL)

	empty, err := store.List(Filter{Limit: 2, Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

// TestDelete verifies deletion and missing IDs
func TestDelete(t *testing.T) {
	store := createTestStore(t)
	r := teaserRecord("/a.html", extractedAt)
	require.NoError(t, store.Save(r))

	require.NoError(t, store.Delete(r.ID))
	_, err := store.Get(r.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	assert.ErrorIs(t, store.Delete(r.ID), ErrRecordNotFound)
}

// TestKind_Valid verifies the known kinds
func TestKind_Valid(t *testing.T) {
	assert.True(t, KindArchive.Valid())
	assert.True(t, KindTeaser.Valid())
	assert.True(t, KindArticle.Valid())
	assert.False(t, Kind("").Valid())
}
