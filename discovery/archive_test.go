package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestArchiveFilter_Params verifies the request parameters
func TestArchiveFilter_Params(t *testing.T) {
	date := time.Date(2021, 1, 30, 15, 0, 0, 0, time.UTC)

	params, err := ArchiveFilter{Date: date, Category: "Inland"}.Params()
	require.NoError(t, err)
	assert.Equal(t, "2021-01-30", params.Get("datum"))
	assert.Equal(t, "inland", params.Get("filter"))

	params, err = ArchiveFilter{Date: date}.Params()
	require.NoError(t, err)
	assert.Equal(t, "2021-01-30", params.Get("datum"))
	assert.False(t, params.Has("filter"), "no category means no filter")
}

// TestArchiveFilter_InvalidCategory verifies unknown categories
func TestArchiveFilter_InvalidCategory(t *testing.T) {
	f := ArchiveFilter{Date: time.Now(), Category: "sport"}
	assert.ErrorIs(t, f.Validate(), ErrInvalidCategory)

	_, err := f.Params()
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.Contains(t, err.Error(), "sport")
}

// TestDateRange verifies days are inclusive of start and exclusive of end
func TestDateRange(t *testing.T) {
	start := time.Date(2021, 1, 30, 18, 4, 0, 0, time.UTC)
	end := time.Date(2021, 2, 2, 0, 0, 0, 0, time.UTC)

	days, err := DateRange(start, end)
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, "2021-01-30", days[0].Format(time.DateOnly))
	assert.Equal(t, "2021-01-31", days[1].Format(time.DateOnly))
	assert.Equal(t, "2021-02-01", days[2].Format(time.DateOnly))
	assert.Zero(t, days[0].Hour(), "days start at midnight")
}

// TestDateRange_EndNotAfterStart verifies empty and reversed ranges
func TestDateRange_EndNotAfterStart(t *testing.T) {
	day := time.Date(2021, 1, 30, 0, 0, 0, 0, time.UTC)

	_, err := DateRange(day, day)
	assert.Error(t, err)

	_, err = DateRange(day, day.AddDate(0, 0, -1))
	assert.Error(t, err)

	// Later the same day is still the same day
	_, err = DateRange(day, day.Add(12*time.Hour))
	assert.Error(t, err)
}
