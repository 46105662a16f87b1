package scraper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecord_UnmarshalJSON_RestoresTypes verifies an extracted record reads
// back with its accessors working
func TestRecord_UnmarshalJSON_RestoresTypes(t *testing.T) {
	doc := loadFixture(t, "archive.html")
	cfg, err := Load("testdata/teaser-list-config.yml")
	require.NoError(t, err)

	record, err := Extract(doc, cfg)
	require.NoError(t, err)

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded Record
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, record, decoded)
	assert.Equal(t, record.Strings("tags"), decoded.Strings("tags"))
	assert.Len(t, decoded.Group("teasers"), len(record.Group("teasers")))
}

// TestRecord_UnmarshalJSON_EmptyGroup verifies an empty list becomes a group
func TestRecord_UnmarshalJSON_EmptyGroup(t *testing.T) {
	var decoded Record
	require.NoError(t, json.Unmarshal([]byte(`{"teasers": [], "headline": null}`), &decoded))

	assert.Equal(t, []Record{}, decoded["teasers"])
	assert.Contains(t, decoded, "headline")
	assert.Nil(t, decoded["headline"])
}

// TestRecord_UnmarshalJSON_Rejects verifies values Extract never produces
func TestRecord_UnmarshalJSON_Rejects(t *testing.T) {
	var decoded Record
	assert.Error(t, json.Unmarshal([]byte(`{"count": 3}`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`{"tags": ["a", 1]}`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &decoded))
}
