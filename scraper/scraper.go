package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CanScrape reports whether doc passes cfg's validation. A config without a
// validation section accepts every document; callers wanting strict
// extraction must declare at least one rule.
func CanScrape(doc *goquery.Document, cfg *Config) bool {
	if cfg.Validation == nil {
		return true
	}
	return IsValid(doc.Selection, cfg.Validation)
}

// Extract builds a record from doc. Fields not referenced by a group are
// resolved against the whole document and must match at least once,
// otherwise a *TagNotFoundError is returned. Each group yields one nested
// record per container, with its member fields resolved inside that
// container only; a member missing from a container is nil.
//
// Extract does not consult validation; check CanScrape first when the
// document's shape is not trusted.
func Extract(doc *goquery.Document, cfg *Config) (Record, error) {
	return ExtractFrom(doc.Selection, cfg)
}

// ExtractFrom is Extract rooted at an arbitrary selection.
func ExtractFrom(root *goquery.Selection, cfg *Config) (Record, error) {
	sc := &cfg.Scraping
	grouped := sc.groupedFields()
	record := make(Record, len(sc.Fields)+len(sc.Groups))

	for _, field := range sc.Fields {
		if grouped[field.ID] {
			continue
		}

		matches := FindAll(root, field.Tag)
		if matches.Length() == 0 {
			return nil, &TagNotFoundError{FieldID: field.ID, Tag: field.Tag}
		}
		record[field.ID] = sc.collect(matches, field)
	}

	for _, group := range sc.Groups {
		members := make([]FieldSpec, 0, len(group.Members))
		for _, id := range group.Members {
			// Validate guarantees the member exists for loaded configs.
			if field, ok := sc.Field(id); ok {
				members = append(members, field)
			}
		}

		instances := []Record{}
		FindAll(root, group.Tag).Each(func(_ int, container *goquery.Selection) {
			instance := make(Record, len(members))
			for _, field := range members {
				matches := FindAll(container, field.Tag)
				if matches.Length() == 0 {
					instance[field.ID] = nil
					continue
				}
				instance[field.ID] = sc.collect(matches, field)
			}
			instances = append(instances, instance)
		})
		record[group.ID] = instances
	}

	return record, nil
}

// collect extracts content from every match and applies the field's
// multi-match policy. Matches without content are skipped; if none has
// content the result is nil.
func (s *ScrapingConfig) collect(matches *goquery.Selection, field FieldSpec) any {
	values := make([]string, 0, matches.Length())
	matches.Each(func(_ int, sel *goquery.Selection) {
		if v, ok := ExtractContent(sel, field.Content); ok {
			values = append(values, v)
		}
	})

	if len(values) == 0 {
		return nil
	}
	if field.Multiple == MultiList {
		return values
	}
	return strings.Join(values, s.delimiter())
}
