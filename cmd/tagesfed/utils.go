package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pevans/tagesfed/configs"
	"github.com/pevans/tagesfed/discovery"
	"github.com/pevans/tagesfed/records"
	"github.com/pevans/tagesfed/scraper"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// scrapingConfig resolves a config argument: a built-in name (honouring a
// path override from the settings file) or a path to a YAML/JSON file.
func scrapingConfig(nameOrPath string) (*scraper.Config, error) {
	if slices.Contains(configs.Names(), nameOrPath) {
		return configs.Resolve(nameOrPath, configOverride(nameOrPath))
	}
	return scraper.Load(nameOrPath)
}

func configOverride(name string) string {
	paths := settings.Scraping.Configs
	switch name {
	case configs.Archive:
		return paths.Archive
	case configs.Teaser:
		return paths.Teaser
	case configs.Article:
		return paths.Article
	}
	return ""
}

func newClient() *discovery.Client {
	return discovery.NewClient(settings.HTTP.Timeout, settings.HTTP.UserAgent)
}

// loadDocument parses a local HTML file, or fetches source when it is an
// http(s) URL.
func loadDocument(ctx context.Context, source string) (*goquery.Document, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return discovery.FetchHTML(ctx, newClient(), source, nil)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open HTML file: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

func openStore() (*records.Store, error) {
	store, err := records.NewStore(settings.Storage.Records.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	return store, nil
}

// parseDate accepts YYYY-MM-DD; an empty string means yesterday, the most
// recent complete archive day.
func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		y, m, d := now.AddDate(0, 0, -1).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

func parseKind(s string) (*records.Kind, error) {
	if s == "" {
		return nil, nil
	}
	kind := records.Kind(s)
	if !kind.Valid() {
		return nil, records.ErrInvalidKind
	}
	return &kind, nil
}
