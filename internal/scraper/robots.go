package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/rs/zerolog"
	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

// UserAgentToken is the product token matched against robots.txt groups.
const UserAgentToken = "titlecraft"

// RobotsAuditor fetches and caches robots.txt per scheme+host.
type RobotsAuditor struct {
	fetcher *Fetcher
	agent   string
	logger  zerolog.Logger

	mu    sync.RWMutex
	cache map[string]*robotstxt.RobotsData
	group singleflight.Group
}

// NewRobotsAuditor creates an auditor that matches rules for agent. An empty
// agent uses UserAgentToken.
func NewRobotsAuditor(fetcher *Fetcher, agent string, logger zerolog.Logger) *RobotsAuditor {
	if agent == "" {
		agent = UserAgentToken
	}
	return &RobotsAuditor{
		fetcher: fetcher,
		agent:   agent,
		logger:  logger,
		cache:   make(map[string]*robotstxt.RobotsData),
	}
}

// IsAllowed reports whether targetURL may be fetched. A missing or
// unreachable robots.txt allows everything.
func (r *RobotsAuditor) IsAllowed(ctx context.Context, targetURL string) (bool, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return false, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return false, fmt.Errorf("invalid url: %q is not absolute", targetURL)
	}

	host := u.Scheme + "://" + u.Host
	data := r.rulesFor(ctx, host)
	if data == nil {
		return true, nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return data.FindGroup(r.agent).Test(path), nil
}

func (r *RobotsAuditor) rulesFor(ctx context.Context, host string) *robotstxt.RobotsData {
	r.mu.RLock()
	data, ok := r.cache[host]
	r.mu.RUnlock()
	if ok {
		return data
	}

	// Concurrent inspections of one host share a single robots.txt fetch.
	v, _, _ := r.group.Do(host, func() (any, error) {
		r.mu.RLock()
		data, ok := r.cache[host]
		r.mu.RUnlock()
		if ok {
			return data, nil
		}

		data, err := r.fetch(ctx, host)
		if err != nil {
			r.logger.Debug().Err(err).Str("host", host).Msg("robots.txt unavailable, defaulting to allow")
		}
		r.mu.Lock()
		r.cache[host] = data
		r.mu.Unlock()
		return data, nil
	})
	return v.(*robotstxt.RobotsData)
}

func (r *RobotsAuditor) fetch(ctx context.Context, host string) (*robotstxt.RobotsData, error) {
	page, err := r.fetcher.Fetch(ctx, host+"/robots.txt")
	if err != nil {
		return nil, err
	}
	if page.StatusCode >= http.StatusBadRequest {
		return nil, nil
	}
	data, err := robotstxt.FromStatusAndBytes(page.StatusCode, page.Body)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return data, nil
}
