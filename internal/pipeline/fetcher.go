package pipeline

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"

	"github.com/hjaltalin/caselink/internal/model"
	"github.com/hjaltalin/caselink/internal/pagecache"
	"github.com/hjaltalin/caselink/internal/util"
)

// Fetcher retrieves page text over HTTP. Every request carries the
// configured User-Agent and is bounded by the configured timeout; there
// are no retries.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	cache      pagecache.Cache // nil disables caching
}

// NewFetcher creates a Fetcher from the HTTP configuration. A nil cache
// means every Fetch goes to the network.
func NewFetcher(cfg model.HTTPConfig, cache pagecache.Cache) *Fetcher {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
	}
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		cache:     cache,
	}
}

// Fetch returns the body of the page at rawURL. Non-2xx responses are
// errors. Cached bodies are served without touching the network.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if f.cache != nil {
		if body, found := f.cache.Get(rawURL); found {
			return string(body), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if f.cache != nil {
		_ = f.cache.Set(rawURL, body)
	}

	return string(body), nil
}

// NewPageCache builds the configured page cache, or nil when disabled
func NewPageCache(cfg model.CacheConfig) pagecache.Cache {
	if !cfg.Enabled {
		return nil
	}
	return pagecache.NewLayered(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}
