package scraper

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// TagDescriptor identifies a class of elements by tag name and attribute
// values. An empty Name matches any element type. Attribute values must match
// exactly; there is no substring or token matching.
//
// TagDescriptor implements goquery.Matcher, so it can be passed directly to
// Selection.FindMatcher and friends.
type TagDescriptor struct {
	Name  string
	Attrs map[string]string
}

// Tag is shorthand for building a descriptor from a name and key/value
// pairs, e.g. Tag("div", "class", "teaser").
func Tag(name string, kv ...string) TagDescriptor {
	d := TagDescriptor{Name: name}
	if len(kv) > 0 {
		d.Attrs = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			d.Attrs[kv[i]] = kv[i+1]
		}
	}
	return d
}

// Equal reports structural equality. A nil and an empty attribute map are
// equal.
func (d TagDescriptor) Equal(other TagDescriptor) bool {
	return d.Name == other.Name && maps.Equal(d.Attrs, other.Attrs)
}

// Match reports whether n is an element satisfying the descriptor.
func (d TagDescriptor) Match(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if d.Name != "" && n.Data != d.Name {
		return false
	}
	for key, want := range d.Attrs {
		got, ok := attrValue(n, key)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// MatchAll returns n and its descendants that satisfy the descriptor, in
// document order.
func (d TagDescriptor) MatchAll(n *html.Node) []*html.Node {
	var matches []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if d.Match(node) {
			matches = append(matches, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return matches
}

// Filter returns the nodes that satisfy the descriptor, keeping their order.
func (d TagDescriptor) Filter(nodes []*html.Node) []*html.Node {
	var result []*html.Node
	for _, n := range nodes {
		if d.Match(n) {
			result = append(result, n)
		}
	}
	return result
}

// String renders the descriptor as the equivalent CSS selector, with
// attributes sorted by key.
func (d TagDescriptor) String() string {
	var b strings.Builder
	if d.Name == "" {
		b.WriteString("*")
	} else {
		b.WriteString(d.Name)
	}
	for _, key := range slices.Sorted(maps.Keys(d.Attrs)) {
		value := strings.ReplaceAll(d.Attrs[key], `"`, `\"`)
		fmt.Fprintf(&b, `[%s="%s"]`, key, value)
	}
	return b.String()
}

// FindAll returns every descendant of root matching d, in document order.
// The root itself is never part of the result. An empty selection means
// nothing matched.
func FindAll(root *goquery.Selection, d TagDescriptor) *goquery.Selection {
	return root.FindMatcher(d)
}

func attrValue(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
