// Package client implements the search client: query encoding, page
// fetching, and the pagination engine that aggregates document records
// across results pages.
package client

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"

	"github.com/doj-tools/dojsearch/config"
	"github.com/doj-tools/dojsearch/logging"
	"github.com/doj-tools/dojsearch/models"
	"github.com/doj-tools/dojsearch/parser"
)

// Client queries the multimedia-search endpoint. It issues requests
// strictly one at a time; pagination is sequential because each page's
// content decides whether the next one is requested.
type Client struct {
	cfg       *config.Config
	base      *url.URL
	collector *colly.Collector
	logger    zerolog.Logger

	Metrics *Metrics

	handlersOnce sync.Once
}

// New builds a client configured from cfg.
func New(cfg *config.Config) (*Client, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(cfg.UserAgent),
		// Later sessions of the same process may legitimately request a
		// page the collector has already seen.
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	return &Client{
		cfg:       cfg,
		base:      parsed,
		collector: collector,
		logger:    logging.NewLogger("client"),
		Metrics:   NewMetrics(),
	}, nil
}

// WithTransport replaces the HTTP transport used for page requests.
func (c *Client) WithTransport(rt http.RoundTripper) {
	c.collector.WithTransport(rt)
}

// SearchOptions configure one paginated search session. The delay and
// cap travel with the call; the client keeps no cross-session state
// beyond its HTTP plumbing.
type SearchOptions struct {
	// Query is the free-text search term. Empty matches every document.
	Query string
	// MaxResults caps the aggregate record count. nil means uncapped; a
	// cap of zero or less yields no records and no requests.
	MaxResults *int
	// Delay is the pause between consecutive page requests. Zero is
	// valid but not respectful of the endpoint.
	Delay time.Duration
	// PageSize is informational only; the endpoint fixes its own page
	// size and ignores any hint.
	PageSize int
}

// DefaultSearchOptions returns options for query with the respectful
// default delay and no cap.
func DefaultSearchOptions(query string) SearchOptions {
	return SearchOptions{Query: query, Delay: config.DefaultDelay}
}

// Search fetches and parses a single results page. It returns the
// page's records in endpoint order plus a best-effort signal that a
// further page exists. Fetch failures come back as an error, never as
// an empty record list. The context is honored before the request is
// issued; an in-flight request is bounded by the configured timeout.
func (c *Client) Search(ctx context.Context, query string, page int) ([]*models.Document, bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	p, err := c.searchPage(query, page)
	if err != nil {
		return nil, false, err
	}
	return p.Documents, parser.HasMore(p), nil
}

func (c *Client) searchPage(query string, page int) (*models.Page, error) {
	target := searchURL(c.base, query, page)
	body, status, err := c.fetchPage(target)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	p := parser.ParsePage(body, page)
	c.Metrics.IncPages()
	c.Metrics.AddDocuments(len(p.Documents))
	c.logger.Info().
		Int("page", page).
		Int("status", status).
		Str("kind", string(p.Kind)).
		Int("count", len(p.Documents)).
		Int("total", p.TotalResults).
		Msg("page parsed")
	return p, nil
}

// SearchAll walks result pages from page zero until the endpoint is
// exhausted, the cap is met, or a page fails. The returned result
// carries every record aggregated before a failure, so a mid-session
// error loses no progress; the error reports why the session stopped.
func (c *Client) SearchAll(ctx context.Context, opts SearchOptions) (*models.SearchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	result := &models.SearchResult{Query: opts.Query, StartTime: time.Now()}

	if opts.MaxResults != nil && *opts.MaxResults <= 0 {
		// A cap of zero or less means there is nothing to fetch.
		result.Stop = models.StopLimitReached
		result.EndTime = time.Now()
		return result, nil
	}

	started := c.logger.Info().Str("query", opts.Query)
	if opts.PageSize > 0 {
		started = started.Int("page_size_hint", opts.PageSize)
	}
	started.Msg("search started")

	dupes := newDuplicateObserver()
	var runErr error

	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		result.RequestCount++
		p, err := c.searchPage(opts.Query, page)
		if err != nil {
			runErr = err
			break
		}
		result.PagesFetched++
		if p.TotalResults > result.TotalReported {
			result.TotalReported = p.TotalResults
		}

		docs := p.Documents
		if opts.MaxResults != nil {
			remaining := *opts.MaxResults - len(result.Documents)
			if len(docs) > remaining {
				// Truncate to exactly fill the cap; the rest of the page
				// is discarded and no further page is requested.
				docs = docs[:remaining]
				dupes.observeAll(docs)
				result.Documents = append(result.Documents, docs...)
				result.Stop = models.StopLimitReached
				break
			}
		}
		dupes.observeAll(docs)
		result.Documents = append(result.Documents, docs...)

		if !parser.HasMore(p) {
			result.Stop = models.StopExhausted
			break
		}
		if opts.MaxResults != nil && len(result.Documents) >= *opts.MaxResults {
			result.Stop = models.StopLimitReached
			break
		}
		if err := sleep(ctx, opts.Delay); err != nil {
			runErr = err
			break
		}
	}

	if runErr != nil {
		result.Stop = models.StopFailed
	}
	result.DuplicateIDs = dupes.repeats
	result.EndTime = time.Now()
	c.Metrics.AddDuplicates(result.DuplicateIDs)

	evt := c.logger.Info()
	if runErr != nil {
		evt = c.logger.Error().Err(runErr)
	}
	evt.Str("query", opts.Query).
		Int("documents", len(result.Documents)).
		Int("pages", result.PagesFetched).
		Int("requests", result.RequestCount).
		Int("duplicates", result.DuplicateIDs).
		Str("stop", string(result.Stop)).
		Dur("elapsed", result.Duration()).
		Msg("search finished")

	return result, runErr
}

// sleep pauses for the inter-request delay unless the context ends
// first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
