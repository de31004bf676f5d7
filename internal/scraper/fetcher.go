package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/FranksOps/titlecraft/internal/bypass"
	"github.com/FranksOps/titlecraft/internal/fingerprint"
	"github.com/FranksOps/titlecraft/internal/metrics"
	"github.com/FranksOps/titlecraft/pkg/httpclient"
	"github.com/FranksOps/titlecraft/pkg/useragent"
)

// DefaultMaxBodyBytes bounds how much of a page is read.
const DefaultMaxBodyBytes = 2 << 20

// FetchConfig configures a Fetcher.
type FetchConfig struct {
	Timeout      time.Duration
	MaxRedirects int
	MaxBodyBytes int64
	UseCookieJar bool
	UAPool       *useragent.Pool
	Fingerprint  fingerprint.Profile
	// TLSOptions are passed to fingerprint.Transport.
	TLSOptions []fingerprint.Option
}

// Page is the raw result of one GET.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Header     http.Header
	Body       []byte
	Truncated  bool
	Duration   time.Duration
	// BlockedBy names the bot protection product that challenged the
	// request, if any.
	BlockedBy string
}

// Fetcher performs single URL fetches through a fingerprinted transport.
// One client is shared across requests so connections are pooled.
type Fetcher struct {
	config FetchConfig
	client *httpclient.Client
}

// NewFetcher initializes a Fetcher, applying defaults for zero fields.
func NewFetcher(cfg FetchConfig) (*Fetcher, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.UAPool == nil {
		cfg.UAPool = useragent.NewPool(nil)
	}
	if cfg.Fingerprint == "" {
		cfg.Fingerprint = fingerprint.ProfileChrome
	}

	transport, err := fingerprint.Transport(cfg.Fingerprint, cfg.TLSOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to setup transport: %w", err)
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRedirects: cfg.MaxRedirects,
		UseCookieJar: cfg.UseCookieJar,
		Transport:    transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Fetcher{config: cfg, client: client}, nil
}

// Fetch GETs targetURL with browser-like headers and a rotated User-Agent.
// A non-2xx status is not an error; transport failures are.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UAPool.Next())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(ctx, req)
	if err != nil {
		metrics.RecordPageFetch(0, "")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, truncated, err := httpclient.ReadBody(resp.Body, f.config.MaxBodyBytes)
	if err != nil {
		metrics.RecordPageFetch(0, "")
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	page := &Page{
		URL:        targetURL,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Truncated:  truncated,
		Duration:   time.Since(start),
	}
	page.BlockedBy = bypass.Analyze(&bypass.Response{
		StatusCode: page.StatusCode,
		Header:     page.Header,
		Body:       page.Body,
	}, bypass.DefaultDetectors())

	metrics.RecordPageFetch(page.StatusCode, page.BlockedBy)
	return page, nil
}
