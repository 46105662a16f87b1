package discovery

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"sync"
	"time"

	"github.com/pevans/tagesfed/records"
	"github.com/pevans/tagesfed/scraper"
	"go.uber.org/zap"
)

// Names the archive config must use for its teaser group and the link
// member inside it.
const (
	TeaserGroup      = "teasers"
	ArticleLinkField = "article_link"
)

// ErrInvalidPage is returned when a fetched page fails its config's
// validation rules.
var ErrInvalidPage = errors.New("page does not match the expected layout")

// Store is the part of the record store the pipeline needs.
type Store interface {
	Exists(kind records.Kind, url string) (bool, error)
	Save(r *records.Record) error
}

// ItemError records why a single page was skipped.
type ItemError struct {
	URL string
	Err error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.URL, e.Err)
}

// RunResult summarizes one pipeline run.
type RunResult struct {
	Archives   int
	Teasers    int
	Articles   int
	Duplicates int
	Skipped    int
	Errors     []ItemError
}

// Pipeline fetches archive pages and articles, extracts them with the
// configured scraping configs and saves new records.
type Pipeline struct {
	Client  *Client
	Store   Store
	Archive *scraper.Config
	Article *scraper.Config

	// BaseURL resolves relative article links. Empty means ArchiveURL.
	BaseURL string
	// FetchArticles makes RunArchive also scrape each teaser's article.
	FetchArticles bool
	// Concurrency bounds parallel article fetches. Values below 1 mean 1.
	Concurrency int
	// Now stamps extracted records.
	Now func() time.Time
	// Logger defaults to zap's global logger.
	Logger *zap.Logger

	mu sync.Mutex
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Pipeline) log() *zap.Logger {
	if p.Logger == nil {
		return zap.L()
	}
	return p.Logger
}

func (p *Pipeline) resolve(link string) (string, error) {
	base := p.BaseURL
	if base == "" {
		base = ArchiveURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	ref, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", link, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}

// RunArchive scrapes one archive day. The archive page itself must pass
// validation; every teaser with a link is saved as a teaser record unless
// one exists already. With FetchArticles set, the teasers' articles are
// scraped as by RunLinks.
func (p *Pipeline) RunArchive(ctx context.Context, filter ArchiveFilter) (*RunResult, error) {
	params, err := filter.Params()
	if err != nil {
		return nil, err
	}

	archiveURL := ArchiveURL
	if p.BaseURL != "" {
		archiveURL, err = p.resolve("/archiv")
		if err != nil {
			return nil, err
		}
	}

	log := p.log().With(
		zap.String("date", filter.Date.Format(time.DateOnly)),
		zap.String("category", filter.Category),
	)

	doc, err := FetchHTML(ctx, p.Client, archiveURL, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch archive: %w", err)
	}
	if !scraper.CanScrape(doc, p.Archive) {
		return nil, fmt.Errorf("archive %s: %w", doc.Url, ErrInvalidPage)
	}

	archive, err := scraper.Extract(doc, p.Archive)
	if err != nil {
		return nil, fmt.Errorf("failed to extract archive: %w", err)
	}

	result := &RunResult{}
	pageURL := doc.Url.String()
	if saved, err := p.saveNew(records.New(records.KindArchive, pageURL, archive, p.now())); err != nil {
		return nil, err
	} else if saved {
		result.Archives++
	} else {
		result.Duplicates++
	}

	teasers := archive.Group(TeaserGroup)
	log.Info("extracted archive", zap.Int("teasers", len(teasers)))

	var links []string
	for i, teaser := range teasers {
		link, ok := teaser.Text(ArticleLinkField)
		if !ok {
			log.Warn("skipping teaser without article link", zap.Int("index", i))
			result.Skipped++
			continue
		}

		articleURL, err := p.resolve(link)
		if err != nil {
			result.Errors = append(result.Errors, ItemError{URL: link, Err: err})
			continue
		}

		fields := maps.Clone(teaser)
		fields[ArticleLinkField] = articleURL
		saved, err := p.saveNew(records.New(records.KindTeaser, articleURL, fields, p.now()))
		if err != nil {
			result.Errors = append(result.Errors, ItemError{URL: articleURL, Err: err})
			continue
		}
		if saved {
			result.Teasers++
		} else {
			result.Duplicates++
		}
		// Articles are deduplicated on their own, so a teaser stored by an
		// earlier run still gets its article fetched.
		links = append(links, articleURL)
	}

	if p.FetchArticles && len(links) > 0 {
		if err := p.runArticles(ctx, links, result); err != nil {
			return result, err
		}
	}

	log.Info("archive done",
		zap.Int("new_teasers", result.Teasers),
		zap.Int("new_articles", result.Articles),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// RunLinks scrapes the given article links. Links already stored as
// articles are counted as duplicates. Pages that fail validation or lack a
// required element are skipped and reported in the result's errors.
func (p *Pipeline) RunLinks(ctx context.Context, links []string) (*RunResult, error) {
	result := &RunResult{}

	seen := make(map[string]bool, len(links))
	var resolved []string
	for _, link := range links {
		articleURL, err := p.resolve(link)
		if err != nil {
			result.Errors = append(result.Errors, ItemError{URL: link, Err: err})
			continue
		}
		if seen[articleURL] {
			continue
		}
		seen[articleURL] = true
		resolved = append(resolved, articleURL)
	}

	err := p.runArticles(ctx, resolved, result)
	return result, err
}

// runArticles fetches articles with at most Concurrency requests in flight.
func (p *Pipeline) runArticles(ctx context.Context, links []string, result *RunResult) error {
	limit := max(p.Concurrency, 1)
	semaphore := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for _, link := range links {
		if ctx.Err() != nil {
			wg.Wait()
			return ctx.Err()
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case semaphore <- struct{}{}:
			wg.Add(1)
			go func(articleURL string) {
				defer wg.Done()
				defer func() { <-semaphore }()

				p.runArticle(ctx, articleURL, result)
			}(link)
		}
	}

	wg.Wait()
	return ctx.Err()
}

func (p *Pipeline) runArticle(ctx context.Context, articleURL string, result *RunResult) {
	log := p.log().With(zap.String("url", articleURL))

	fail := func(err error, skipped bool) {
		log.Warn("skipping article", zap.Error(err))
		p.mu.Lock()
		defer p.mu.Unlock()
		if skipped {
			result.Skipped++
		}
		result.Errors = append(result.Errors, ItemError{URL: articleURL, Err: err})
	}

	exists, err := p.Store.Exists(records.KindArticle, articleURL)
	if err != nil {
		fail(err, false)
		return
	}
	if exists {
		p.mu.Lock()
		result.Duplicates++
		p.mu.Unlock()
		return
	}

	doc, err := FetchHTML(ctx, p.Client, articleURL, nil)
	if err != nil {
		fail(err, false)
		return
	}
	if !scraper.CanScrape(doc, p.Article) {
		fail(ErrInvalidPage, true)
		return
	}

	fields, err := scraper.Extract(doc, p.Article)
	if errors.Is(err, scraper.ErrTagNotFound) {
		fail(err, true)
		return
	}
	if err != nil {
		fail(err, false)
		return
	}

	saved, err := p.saveNew(records.New(records.KindArticle, articleURL, fields, p.now()))
	if err != nil {
		fail(err, false)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if saved {
		result.Articles++
		log.Debug("saved article")
	} else {
		result.Duplicates++
	}
}

// saveNew saves r unless a record of the same kind and URL exists. It
// reports whether r was saved.
func (p *Pipeline) saveNew(r *records.Record) (bool, error) {
	exists, err := p.Store.Exists(r.Kind, r.URL)
	if err != nil {
		return false, fmt.Errorf("failed to check record: %w", err)
	}
	if exists {
		return false, nil
	}

	err = p.Store.Save(r)
	if errors.Is(err, records.ErrDuplicateRecord) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to save record: %w", err)
	}
	return true, nil
}
