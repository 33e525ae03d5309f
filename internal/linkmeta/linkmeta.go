package linkmeta

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Link is the canonical URL and page title resolved for a submitted URL.
type Link struct {
	URL   string
	Title string
}

// Parser resolves link metadata for a URL. The HTTP implementation below is
// the default; tests substitute their own.
type Parser interface {
	Parse(ctx context.Context, rawURL string) (Link, error)
}

// Dispatcher submits work and returns immediately. The link ingestion
// endpoint responds before its parse job runs.
type Dispatcher interface {
	Submit(job func())
}

// GoDispatcher runs each job on its own goroutine.
type GoDispatcher struct{}

// Submit implements Dispatcher.
func (GoDispatcher) Submit(job func()) {
	go job()
}

var titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// maxBodyBytes caps how much of a page is read looking for the title.
const maxBodyBytes = 512 * 1024

// HTTPParser fetches the page and extracts its title. Redirects are
// followed; the final request URL is the canonical URL.
type HTTPParser struct {
	httpClient *http.Client
}

// NewHTTPParser creates an HTTPParser with the given fetch timeout.
func NewHTTPParser(timeout time.Duration) *HTTPParser {
	return &HTTPParser{httpClient: &http.Client{Timeout: timeout}}
}

// Parse implements Parser.
func (p *HTTPParser) Parse(ctx context.Context, rawURL string) (Link, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Link{}, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Link{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Link{}, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	link := Link{URL: resp.Request.URL.String()}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Link{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if match := titlePattern.FindSubmatch(body); match != nil {
		link.Title = strings.TrimSpace(html.UnescapeString(string(match[1])))
	}
	return link, nil
}
