// Package configs holds the built-in scraping configs for the three document
// types of the news site: the archive page, a single teaser and an article.
package configs

import (
	"embed"
	"fmt"
	"slices"
	"strings"

	"github.com/pevans/tagesfed/scraper"
)

// Document types with a built-in config.
const (
	Archive = "archive"
	Teaser  = "teaser"
	Article = "article"
)

//go:embed *.yml
var files embed.FS

// Names lists the built-in config names, sorted.
func Names() []string {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yml"))
	}
	slices.Sort(names)
	return names
}

// Builtin parses the embedded config called name.
func Builtin(name string) (*scraper.Config, error) {
	data, err := files.ReadFile(name + ".yml")
	if err != nil {
		return nil, fmt.Errorf("no built-in scraping config %q", name)
	}
	return scraper.Parse(data, scraper.FormatYAML)
}

// Resolve loads the config at path, or the built-in called name when path is
// empty.
func Resolve(name, path string) (*scraper.Config, error) {
	if path != "" {
		return scraper.Load(path)
	}
	return Builtin(name)
}
