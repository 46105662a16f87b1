package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalize verifies whitespace collapsing and trimming
func TestNormalize(t *testing.T) {
	cases := map[string]string{
		" a \n b ":                 "a b",
		"  Hello   World  ":        "Hello World",
		"\n\t\tline one\n\t\tline": "line one line",
		"":                         "",
		"   ":                      "",
		"already clean":            "already clean",
	}

	for input, want := range cases {
		assert.Equal(t, want, Normalize(input), "input %q", input)
	}
}

// Property test: Normalize is idempotent
func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		" a \n b ",
		" non-breaking  space ",
		"tabs\t\tand\r\nnewlines",
		"x",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

// TestExtractContent_Text verifies normalized text extraction
func TestExtractContent_Text(t *testing.T) {
	doc := parseHTML(t, `<p class="s">
		Some <b>bold</b>
		text
	</p>`)

	text, ok := ExtractContent(FindAll(doc.Selection, Tag("p")), TextContent())

	assert.True(t, ok)
	assert.Equal(t, "Some bold text", text)
}

// TestExtractContent_EmptyText verifies an element without text yields no
// content
func TestExtractContent_EmptyText(t *testing.T) {
	doc := parseHTML(t, `<p class="s">   </p>`)

	_, ok := ExtractContent(FindAll(doc.Selection, Tag("p")), TextContent())

	assert.False(t, ok)
}

// TestExtractContent_Attribute verifies attribute values are returned
// verbatim
func TestExtractContent_Attribute(t *testing.T) {
	doc := parseHTML(t, `<a class="link" href=" /inland/x.html">text</a>`)

	href, ok := ExtractContent(FindAll(doc.Selection, Tag("a")), AttributeContent("href"))

	assert.True(t, ok)
	assert.Equal(t, " /inland/x.html", href, "attribute values should not be normalized")
}

// TestExtractContent_MissingAttribute verifies a missing attribute yields no
// content
func TestExtractContent_MissingAttribute(t *testing.T) {
	doc := parseHTML(t, `<a class="link">text</a>`)

	_, ok := ExtractContent(FindAll(doc.Selection, Tag("a")), AttributeContent("href"))

	assert.False(t, ok)
}

// TestExtractContent_EmptySelection verifies no content from nothing
func TestExtractContent_EmptySelection(t *testing.T) {
	doc := parseHTML(t, `<p>text</p>`)

	_, ok := ExtractContent(FindAll(doc.Selection, Tag("div")), TextContent())

	assert.False(t, ok)
}

// TestStrippedText verifies text nodes are trimmed and joined without a
// separator
func TestStrippedText(t *testing.T) {
	doc := parseHTML(t, `<div class="h">
		<span> Archiv </span>
		<span>vom 30. Januar</span>
	</div>`)

	assert.Equal(t, "Archivvom 30. Januar", StrippedText(FindAll(doc.Selection, Tag("div"))))
	assert.Equal(t, "", StrippedText(FindAll(doc.Selection, Tag("table"))))
}

// TestContentSelector_String verifies the selector's display form
func TestContentSelector_String(t *testing.T) {
	assert.Equal(t, "text", TextContent().String())
	assert.Equal(t, "attr:href", AttributeContent("href").String())
}
