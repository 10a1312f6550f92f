package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"
)

const (
	// fetchTimeout bounds a single HTTP exchange for every adapter.
	fetchTimeout = 8 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptJSON = "application/json"
)

// Client is the shared HTTP helper for the JSON API adapters. Requests are
// throttled per source so a burst of discovery queries cannot hammer one
// upstream.
type Client struct {
	http *http.Client

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewClient() *Client {
	return &Client{
		http:     &http.Client{Timeout: fetchTimeout},
		limiters: make(map[string]*rate.Limiter),
	}
}

func (c *Client) limiter(source string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	lim, ok := c.limiters[source]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(2), 4)
		c.limiters[source] = lim
	}
	return lim
}

// GetJSON fetches a URL with browser-like headers and returns the body.
func (c *Client) GetJSON(ctx context.Context, source, rawURL string) ([]byte, error) {
	return c.get(ctx, source, rawURL, acceptJSON)
}

func (c *Client) get(ctx context.Context, source, rawURL, accept string) ([]byte, error) {
	if err := c.limiter(source).Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate wait: %w", source, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", source, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request: %w", source, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", source, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d", source, resp.StatusCode)
	}
	return body, nil
}

// newCollector builds a colly collector configured the same way as Client:
// browser UA and the 8s exchange timeout. Each scrape uses a fresh collector
// because colly callbacks accumulate state per page.
func newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(fetchTimeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", acceptHTML)
		r.Headers.Set("Accept-Language", "en-US,en;q=0.5")
	})
	return c
}
