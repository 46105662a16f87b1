package discovery

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

// ArchiveURL is the news site's archive page.
const ArchiveURL = "https://www.tagesschau.de/archiv"

// Categories the archive can be filtered by.
var Categories = []string{"inland", "ausland", "wirtschaft"}

// ErrInvalidCategory is returned for a category outside Categories.
var ErrInvalidCategory = errors.New("category must be inland, ausland, or wirtschaft")

// ArchiveFilter selects one day of the archive, optionally narrowed to a
// category. An empty Category means all categories.
type ArchiveFilter struct {
	Date     time.Time
	Category string
}

// Validate checks the category.
func (f ArchiveFilter) Validate() error {
	if f.Category == "" {
		return nil
	}
	if !slices.Contains(Categories, strings.ToLower(f.Category)) {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, f.Category)
	}
	return nil
}

// Params returns the archive request parameters for f.
func (f ArchiveFilter) Params() (url.Values, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("datum", f.Date.Format(time.DateOnly))
	if f.Category != "" {
		params.Set("filter", strings.ToLower(f.Category))
	}
	return params, nil
}

// DateRange returns every day from start up to but excluding end.
func DateRange(start, end time.Time) ([]time.Time, error) {
	start = day(start)
	end = day(end)
	if !end.After(start) {
		return nil, fmt.Errorf("end date %s must be after start date %s",
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	var days []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days, nil
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
