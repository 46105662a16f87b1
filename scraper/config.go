package scraper

import (
	"fmt"
	"maps"
)

// DefaultDelimiter joins the values of a field that matched more than one
// element when the field uses MultiJoin.
const DefaultDelimiter = "|"

// ContentKind selects how content is pulled from a located element.
type ContentKind int

const (
	// ContentText takes the element's normalized text.
	ContentText ContentKind = iota
	// ContentAttribute takes the value of a named attribute.
	ContentAttribute
)

// ContentSelector is either TextContent() or AttributeContent(name).
type ContentSelector struct {
	Kind ContentKind
	Attr string
}

// TextContent selects the normalized text of an element.
func TextContent() ContentSelector {
	return ContentSelector{Kind: ContentText}
}

// AttributeContent selects the value of the attribute called name.
func AttributeContent(name string) ContentSelector {
	return ContentSelector{Kind: ContentAttribute, Attr: name}
}

func (c ContentSelector) String() string {
	if c.Kind == ContentAttribute {
		return "attr:" + c.Attr
	}
	return "text"
}

// MultiMatch decides what a field yields when its tag matches more than one
// element.
type MultiMatch int

const (
	// MultiJoin joins all values with the scraping delimiter into one string.
	MultiJoin MultiMatch = iota
	// MultiList keeps all values as a []string. Matches without content
	// are left out, so positions follow content-bearing matches only.
	MultiList
)

// FieldSpec defines one output field.
type FieldSpec struct {
	ID       string
	Tag      TagDescriptor
	Content  ContentSelector
	Multiple MultiMatch
}

// GroupSpec declares a repeating container. Members are field ids resolved
// inside each container match rather than against the whole document.
type GroupSpec struct {
	ID      string
	Tag     TagDescriptor
	Members []string
}

// RuleKind distinguishes the two validation predicates.
type RuleKind int

const (
	// RuleTagExists requires at least one matching element.
	RuleTagExists RuleKind = iota
	// RuleTagContainsText requires the first matching element's text to
	// contain Text.
	RuleTagContainsText
)

// ValidationRule is a single predicate a document must satisfy.
type ValidationRule struct {
	Kind RuleKind
	Tag  TagDescriptor
	Text string
}

// TagExists builds a rule requiring tag to be present.
func TagExists(tag TagDescriptor) ValidationRule {
	return ValidationRule{Kind: RuleTagExists, Tag: tag}
}

// TagContainsText builds a rule requiring the first element matching tag to
// contain text.
func TagContainsText(tag TagDescriptor, text string) ValidationRule {
	return ValidationRule{Kind: RuleTagContainsText, Tag: tag, Text: text}
}

// Equal reports whether r and other describe the same predicate.
func (r ValidationRule) Equal(other ValidationRule) bool {
	return r.Kind == other.Kind && r.Text == other.Text && r.Tag.Equal(other.Tag)
}

func (r ValidationRule) String() string {
	if r.Kind == RuleTagContainsText {
		return fmt.Sprintf("%s contains %q", r.Tag, r.Text)
	}
	return r.Tag.String() + " exists"
}

// ScrapingConfig lists the fields to extract and the optional groups that
// nest some of them.
type ScrapingConfig struct {
	Fields    []FieldSpec
	Groups    []GroupSpec
	Delimiter string // Default: "|"
}

// ValidationConfig lists the rules a document must satisfy. An empty list is
// vacuously valid.
type ValidationConfig struct {
	Rules []ValidationRule
}

// Config defines how to validate and extract one document type. It is not
// modified after loading and is safe to share between goroutines.
type Config struct {
	Scraping ScrapingConfig
	// Validation is nil when the source had no validation section; such a
	// config accepts every document.
	Validation *ValidationConfig
}

// Field returns the field with the given id.
func (s *ScrapingConfig) Field(id string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldSpec{}, false
}

func (s *ScrapingConfig) delimiter() string {
	if s.Delimiter == "" {
		return DefaultDelimiter
	}
	return s.Delimiter
}

// groupedFields returns the ids referenced by any group.
func (s *ScrapingConfig) groupedFields() map[string]bool {
	grouped := make(map[string]bool)
	for _, g := range s.Groups {
		for _, id := range g.Members {
			grouped[id] = true
		}
	}
	return grouped
}

// Validate checks the references inside c: field ids must be non-empty and
// unique, group ids must not collide with field or other group ids, and every
// group member must name a defined field. It returns a *ConfigReferenceError.
func (c *Config) Validate() error {
	if len(c.Scraping.Fields) == 0 {
		return &ConfigReferenceError{Reason: "scraping has no tags"}
	}

	ids := make(map[string]bool, len(c.Scraping.Fields))
	for i, f := range c.Scraping.Fields {
		if f.ID == "" {
			return &ConfigReferenceError{Reason: fmt.Sprintf("scraping tag %d has no id", i)}
		}
		if ids[f.ID] {
			return &ConfigReferenceError{Reason: fmt.Sprintf("duplicate field id %q", f.ID)}
		}
		ids[f.ID] = true
	}

	groups := make(map[string]bool, len(c.Scraping.Groups))
	for i, g := range c.Scraping.Groups {
		if g.ID == "" {
			return &ConfigReferenceError{Reason: fmt.Sprintf("group %d has no id", i)}
		}
		if ids[g.ID] || groups[g.ID] {
			return &ConfigReferenceError{Reason: fmt.Sprintf("group id %q is already in use", g.ID)}
		}
		groups[g.ID] = true

		if len(g.Members) == 0 {
			return &ConfigReferenceError{Reason: fmt.Sprintf("group %q contains no fields", g.ID)}
		}
		for _, member := range g.Members {
			if !ids[member] {
				return &ConfigReferenceError{
					Reason: fmt.Sprintf("group %q references unknown field id %q", g.ID, member),
				}
			}
		}
	}

	return nil
}

// Equal reports whether c and other are structurally identical.
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}

	a, b := c.Scraping, other.Scraping
	if a.delimiter() != b.delimiter() || len(a.Fields) != len(b.Fields) || len(a.Groups) != len(b.Groups) {
		return false
	}
	for i := range a.Fields {
		fa, fb := a.Fields[i], b.Fields[i]
		if fa.ID != fb.ID || fa.Content != fb.Content || fa.Multiple != fb.Multiple || !fa.Tag.Equal(fb.Tag) {
			return false
		}
	}
	for i := range a.Groups {
		ga, gb := a.Groups[i], b.Groups[i]
		if ga.ID != gb.ID || !ga.Tag.Equal(gb.Tag) || len(ga.Members) != len(gb.Members) {
			return false
		}
		for j := range ga.Members {
			if ga.Members[j] != gb.Members[j] {
				return false
			}
		}
	}

	if (c.Validation == nil) != (other.Validation == nil) {
		return false
	}
	if c.Validation == nil {
		return true
	}
	if len(c.Validation.Rules) != len(other.Validation.Rules) {
		return false
	}
	for i := range c.Validation.Rules {
		if !c.Validation.Rules[i].Equal(other.Validation.Rules[i]) {
			return false
		}
	}
	return true
}

// cloneAttrs copies attrs so a loaded descriptor never aliases decoder
// output.
func cloneAttrs(attrs map[string]string) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	return maps.Clone(attrs)
}
