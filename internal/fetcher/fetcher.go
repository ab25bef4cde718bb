// Package fetcher downloads rule-set files with a write-through disk cache.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/ghost233/clash2rocket/internal/cache"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultAttempts  = 3
	defaultRate      = 10 // requests per second
	defaultBurst     = 5
	defaultUserAgent = "clash2rocket/1.0"
)

// FetchError reports a URL that could not be downloaded after exhausting the
// fixed retry budget. It is recovered locally by the caller: the URL's
// contribution is empty and the run continues.
type FetchError struct {
	URL      string
	Attempts int
	Status   string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("fetch %s: %s after %d attempts", e.URL, e.Status, e.Attempts)
	}
	return fmt.Sprintf("fetch %s: %v after %d attempts", e.URL, e.Err, e.Attempts)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Options configures a Fetcher. Zero values fall back to defaults.
type Options struct {
	Timeout           time.Duration
	Attempts          int
	RequestsPerSecond float64
	UserAgent         string
	// SkipCacheRead bypasses cache lookups (explicit invalidation); fetched
	// bodies are still written back.
	SkipCacheRead bool
}

// Fetcher downloads rule-set text through an injected cache store. Concurrent
// fetches of the same URL are collapsed into one request, and the outbound
// request rate is bounded.
type Fetcher struct {
	client        *http.Client
	store         cache.Store
	limiter       *rate.Limiter
	group         singleflight.Group
	userAgent     string
	attempts      int
	skipCacheRead bool
}

// New creates a Fetcher over the given store.
func New(store cache.Store, opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Attempts <= 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRate
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	return &Fetcher{
		client:        &http.Client{Timeout: opts.Timeout},
		store:         store,
		limiter:       rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), defaultBurst),
		userAgent:     opts.UserAgent,
		attempts:      opts.Attempts,
		skipCacheRead: opts.SkipCacheRead,
	}
}

// Fetch returns the rule-set body for url. A cache hit returns without any
// network access. On a miss the URL is downloaded with a fixed number of
// attempts; exhaustion surfaces a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if !f.skipCacheRead {
		if body, ok := f.store.Get(url); ok {
			return body, nil
		}
	}

	v, err, _ := f.group.Do(url, func() (interface{}, error) {
		return f.download(ctx, url)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (f *Fetcher) download(ctx context.Context, url string) (string, error) {
	var lastErr error
	var lastStatus string

	for attempt := 1; attempt <= f.attempts; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", &FetchError{URL: url, Attempts: attempt, Err: err}
		}
		body, status, err := f.get(ctx, url)
		if err == nil {
			if perr := f.store.Put(url, body); perr != nil {
				// Cache writes are best-effort.
				log.Printf("cache write failed for %s: %v", url, perr)
			}
			return body, nil
		}
		lastErr = err
		lastStatus = status
	}
	return "", &FetchError{URL: url, Attempts: f.attempts, Status: lastStatus, Err: lastErr}
}

func (f *Fetcher) get(ctx context.Context, url string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", resp.Status, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(data), "", nil
}
