// Package discovery retrieves pages from the news site and drives the
// extraction of archive pages, teasers and articles into the record store.
package discovery

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// DefaultUserAgent identifies tagesfed to the sites it fetches from.
const DefaultUserAgent = "tagesfed/1.0 (news archive scraper)"

// HTTPError is returned for responses other than 200 OK.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s (%s)", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Client fetches pages with a fixed User-Agent.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// NewClient returns a client with the given timeout. An empty userAgent
// selects DefaultUserAgent.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

// FetchHTML fetches rawURL with params added to its query and parses the
// body as HTML. The body is decoded to UTF-8 from whatever charset the
// response header or the document declares. Failed requests are not retried.
func FetchHTML(ctx context.Context, client *Client, rawURL string, params url.Values) (*goquery.Document, error) {
	target, err := withParams(rawURL, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", client.UserAgent)

	resp, err := client.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{URL: target, StatusCode: resp.StatusCode}
	}

	body := bufio.NewReader(resp.Body)
	// Peek returns what it has for short bodies along with an error.
	head, _ := body.Peek(1024)
	enc, _, _ := charset.DetermineEncoding(head, resp.Header.Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(transform.NewReader(body, enc.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Url = resp.Request.URL
	return doc, nil
}

func withParams(rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if len(params) == 0 {
		return u.String(), nil
	}

	q := u.Query()
	for key, values := range params {
		q[key] = values
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
