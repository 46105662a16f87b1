package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Holds reports whether the rule is satisfied under root.
func (r ValidationRule) Holds(root *goquery.Selection) bool {
	matches := FindAll(root, r.Tag)
	switch r.Kind {
	case RuleTagContainsText:
		if matches.Length() == 0 {
			return false
		}
		return strings.Contains(StrippedText(matches.First()), r.Text)
	default:
		return matches.Length() > 0
	}
}

// IsValid reports whether every rule in vc holds under root. A nil or empty
// config is valid. Evaluation stops at the first failing rule.
func IsValid(root *goquery.Selection, vc *ValidationConfig) bool {
	if vc == nil {
		return true
	}
	for _, rule := range vc.Rules {
		if !rule.Holds(root) {
			return false
		}
	}
	return true
}

// FailedRules returns the rules in vc that do not hold under root, in
// declaration order. It is meant for diagnostics; IsValid is cheaper when
// only the verdict matters.
func FailedRules(root *goquery.Selection, vc *ValidationConfig) []ValidationRule {
	if vc == nil {
		return nil
	}
	var failed []ValidationRule
	for _, rule := range vc.Rules {
		if !rule.Holds(root) {
			failed = append(failed, rule)
		}
	}
	return failed
}
