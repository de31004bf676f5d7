package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/FranksOps/titlecraft/internal/config"
	"github.com/FranksOps/titlecraft/internal/fingerprint"
	"github.com/FranksOps/titlecraft/pkg/ratelimit"
	"github.com/FranksOps/titlecraft/pkg/useragent"
)

// MaxInspectURLs bounds a single InspectAll call.
const MaxInspectURLs = 10

// Snapshot is the on-page SEO metadata of one URL.
type Snapshot struct {
	URL               string    `json:"url"`
	FinalURL          string    `json:"final_url,omitempty"`
	StatusCode        int       `json:"status_code,omitempty"`
	Title             string    `json:"title"`
	TitleLength       int       `json:"title_length"`
	MetaDescription   string    `json:"meta_description"`
	DescriptionLength int       `json:"description_length"`
	Canonical         string    `json:"canonical,omitempty"`
	RobotsMeta        string    `json:"robots_meta,omitempty"`
	H1                []string  `json:"h1,omitempty"`
	BlockedBy         string    `json:"blocked_by,omitempty"`
	DisallowedByRobot bool      `json:"disallowed_by_robots,omitempty"`
	FetchedAt         time.Time `json:"fetched_at"`
	Error             string    `json:"error,omitempty"`
}

// InspectorConfig wires an Inspector. Robots and Limiter are optional.
type InspectorConfig struct {
	Fetcher     *Fetcher
	Robots      *RobotsAuditor
	Limiter     *ratelimit.Limiter
	Concurrency int
	Logger      zerolog.Logger
}

// Inspector fetches pages and extracts their title and meta tags.
type Inspector struct {
	fetcher     *Fetcher
	robots      *RobotsAuditor
	limiter     *ratelimit.Limiter
	concurrency int
	logger      zerolog.Logger
	now         func() time.Time
}

func NewInspector(cfg InspectorConfig) *Inspector {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 3
	}
	return &Inspector{
		fetcher:     cfg.Fetcher,
		robots:      cfg.Robots,
		limiter:     cfg.Limiter,
		concurrency: cfg.Concurrency,
		logger:      cfg.Logger,
		now:         time.Now,
	}
}

// NewInspectorFromConfig builds the fetcher, robots auditor and limiter from
// the PAGE_* settings. device picks the User-Agent family.
func NewInspectorFromConfig(cfg *config.Config, device string, logger zerolog.Logger) (*Inspector, error) {
	profile, err := fingerprint.ParseProfile(cfg.PageFingerprint)
	if err != nil {
		return nil, err
	}
	fetcher, err := NewFetcher(FetchConfig{
		Timeout:     cfg.PageTimeout,
		UAPool:      useragent.ForDevice(device),
		Fingerprint: profile,
	})
	if err != nil {
		return nil, err
	}

	logger = logger.With().Str("component", "inspector").Logger()
	var robots *RobotsAuditor
	if cfg.PageRespectRobots {
		robots = NewRobotsAuditor(fetcher, UserAgentToken, logger)
	}
	return NewInspector(InspectorConfig{
		Fetcher:     fetcher,
		Robots:      robots,
		Limiter:     ratelimit.New(cfg.PageRequestsPerSecond, 0.2),
		Concurrency: cfg.PageConcurrency,
		Logger:      logger,
	}), nil
}

// Close releases the rate limiter.
func (i *Inspector) Close() {
	i.limiter.Stop()
}

// NormalizeURL accepts bare hosts and paths by assuming https, drops the
// fragment, and rejects anything but http(s).
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid url %q: missing host", raw)
	}
	u.Fragment = ""
	return u.String(), nil
}

// Inspect fetches one URL and extracts its metadata. Failures are recorded
// in Snapshot.Error.
func (i *Inspector) Inspect(ctx context.Context, rawURL string) Snapshot {
	snap := Snapshot{URL: rawURL, FetchedAt: i.now().UTC()}

	target, err := NormalizeURL(rawURL)
	if err != nil {
		snap.Error = err.Error()
		return snap
	}
	snap.URL = target

	if i.robots != nil {
		allowed, err := i.robots.IsAllowed(ctx, target)
		if err != nil {
			i.logger.Warn().Err(err).Str("url", target).Msg("error checking robots.txt")
		} else if !allowed {
			i.logger.Debug().Str("url", target).Msg("url blocked by robots.txt")
			snap.DisallowedByRobot = true
			snap.Error = "disallowed by robots.txt"
			return snap
		}
	}

	if err := i.limiter.Wait(ctx); err != nil {
		snap.Error = fmt.Sprintf("rate limiter cancelled: %v", err)
		return snap
	}

	i.logger.Debug().Str("url", target).Msg("fetching")
	page, err := i.fetcher.Fetch(ctx, target)
	if err != nil {
		i.logger.Warn().Err(err).Str("url", target).Msg("fetch error")
		snap.Error = err.Error()
		return snap
	}

	snap.FinalURL = page.FinalURL
	snap.StatusCode = page.StatusCode
	snap.BlockedBy = page.BlockedBy
	switch {
	case page.BlockedBy != "":
		snap.Error = fmt.Sprintf("blocked by %s", page.BlockedBy)
	case page.StatusCode >= 400:
		snap.Error = fmt.Sprintf("HTTP %d", page.StatusCode)
	}

	if err := extractMeta(&snap, page.FinalURL, page.Body); err != nil && snap.Error == "" {
		snap.Error = err.Error()
	}
	return snap
}

// InspectAll inspects urls with bounded concurrency. The result has one
// snapshot per input, in input order.
func (i *Inspector) InspectAll(ctx context.Context, urls []string) []Snapshot {
	out := make([]Snapshot, len(urls))

	var g errgroup.Group
	g.SetLimit(i.concurrency)
	for idx, u := range urls {
		g.Go(func() error {
			out[idx] = i.Inspect(ctx, u)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func extractMeta(snap *Snapshot, baseURL string, body []byte) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	title := doc.Find("head > title").First()
	if title.Length() == 0 {
		title = doc.Find("title").First()
	}
	snap.Title = collapseSpace(title.Text())
	snap.TitleLength = utf8.RuneCountInString(snap.Title)

	doc.Find("meta[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		content := collapseSpace(s.AttrOr("content", ""))
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "description":
			if snap.MetaDescription == "" {
				snap.MetaDescription = content
			}
		case "robots":
			if snap.RobotsMeta == "" {
				snap.RobotsMeta = content
			}
		}
	})
	snap.DescriptionLength = utf8.RuneCountInString(snap.MetaDescription)

	doc.Find("link[rel][href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.EqualFold(strings.TrimSpace(s.AttrOr("rel", "")), "canonical") {
			return true
		}
		snap.Canonical = resolve(baseURL, s.AttrOr("href", ""))
		return false
	})

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		if text := collapseSpace(s.Text()); text != "" {
			snap.H1 = append(snap.H1, text)
		}
	})
	return nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func resolve(base, href string) string {
	href = strings.TrimSpace(href)
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(u).String()
}
