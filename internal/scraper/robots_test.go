package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

const robotsBody = `
User-agent: *
Disallow: /admin/
Allow: /admin/public/

User-agent: BadBot
Disallow: /
`

func robotsServer(t *testing.T, hits *atomic.Int32, status int, body string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestRobotsAuditor_IsAllowed(t *testing.T) {
	ts := robotsServer(t, nil, http.StatusOK, robotsBody)
	ctx := context.Background()

	generic := NewRobotsAuditor(newGoFetcher(t, FetchConfig{}), "GoodBot", zerolog.Nop())
	cases := map[string]bool{
		"/public-page":             true,
		"/admin/secret":            false,
		"/admin/public/index.html": true,
		"":                         true,
	}
	for path, want := range cases {
		allowed, err := generic.IsAllowed(ctx, ts.URL+path)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", path, err)
		}
		if allowed != want {
			t.Errorf("IsAllowed(%q) = %v, want %v", path, allowed, want)
		}
	}

	bad := NewRobotsAuditor(newGoFetcher(t, FetchConfig{}), "BadBot", zerolog.Nop())
	if allowed, _ := bad.IsAllowed(ctx, ts.URL+"/public-page"); allowed {
		t.Errorf("expected /public-page to be disallowed for BadBot")
	}
}

func TestRobotsAuditor_MissingRobots(t *testing.T) {
	ts := robotsServer(t, nil, http.StatusNotFound, "")

	auditor := NewRobotsAuditor(newGoFetcher(t, FetchConfig{}), "", zerolog.Nop())
	allowed, err := auditor.IsAllowed(context.Background(), ts.URL+"/anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Errorf("expected missing robots.txt to default to allowed")
	}
}

func TestRobotsAuditor_UnreachableHostFailsOpen(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	auditor := NewRobotsAuditor(newGoFetcher(t, FetchConfig{}), "", zerolog.Nop())
	allowed, err := auditor.IsAllowed(context.Background(), url+"/page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Errorf("expected unreachable robots.txt to default to allowed")
	}
}

func TestRobotsAuditor_CachesPerHost(t *testing.T) {
	var hits atomic.Int32
	ts := robotsServer(t, &hits, http.StatusOK, robotsBody)

	auditor := NewRobotsAuditor(newGoFetcher(t, FetchConfig{}), "", zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = auditor.IsAllowed(context.Background(), ts.URL+"/page")
		}()
	}
	wg.Wait()
	_, _ = auditor.IsAllowed(context.Background(), ts.URL+"/other")

	if got := hits.Load(); got != 1 {
		t.Errorf("expected robots.txt to be fetched once, got %d", got)
	}
}

func TestRobotsAuditor_InvalidURL(t *testing.T) {
	auditor := NewRobotsAuditor(newGoFetcher(t, FetchConfig{}), "", zerolog.Nop())
	if _, err := auditor.IsAllowed(context.Background(), "/relative/path"); err == nil {
		t.Fatal("expected error for relative URL")
	}
}
