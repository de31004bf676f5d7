package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FranksOps/titlecraft/internal/config"
	"github.com/FranksOps/titlecraft/pkg/ratelimit"
)

const productPage = `<!doctype html>
<html>
<head>
  <title>
    Running Shoes   - Our Store
  </title>
  <meta name="Description" content="Shop  the best running shoes.">
  <meta name="robots" content="index, follow">
  <link rel="Canonical" href="/running-shoes">
</head>
<body>
  <svg><title>icon</title></svg>
  <h1>Running  Shoes</h1>
  <h1> </h1>
  <h1>Sale</h1>
</body>
</html>`

func inspectServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
	})
	mux.HandleFunc("/running-shoes", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, productPage)
	})
	mux.HandleFunc("/private", func(w http.ResponseWriter, r *http.Request) {
		t.Error("disallowed page must not be fetched")
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "<title>Not Found</title>")
	})
	mux.HandleFunc("/blocked", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Px-Captcha", "required")
		w.WriteHeader(http.StatusForbidden)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newTestInspector(t *testing.T, robots bool) *Inspector {
	t.Helper()
	fetcher := newGoFetcher(t, FetchConfig{Timeout: 5 * time.Second})
	cfg := InspectorConfig{Fetcher: fetcher, Concurrency: 2, Logger: zerolog.Nop()}
	if robots {
		cfg.Robots = NewRobotsAuditor(fetcher, "", zerolog.Nop())
	}
	return NewInspector(cfg)
}

func TestInspector_Inspect(t *testing.T) {
	ts := inspectServer(t)
	insp := newTestInspector(t, true)

	snap := insp.Inspect(context.Background(), ts.URL+"/running-shoes#reviews")

	assert.Empty(t, snap.Error)
	assert.Equal(t, ts.URL+"/running-shoes", snap.URL)
	assert.Equal(t, http.StatusOK, snap.StatusCode)
	assert.Equal(t, "Running Shoes - Our Store", snap.Title)
	assert.Equal(t, 25, snap.TitleLength)
	assert.Equal(t, "Shop the best running shoes.", snap.MetaDescription)
	assert.Equal(t, 28, snap.DescriptionLength)
	assert.Equal(t, "index, follow", snap.RobotsMeta)
	assert.Equal(t, ts.URL+"/running-shoes", snap.Canonical)
	assert.Equal(t, []string{"Running Shoes", "Sale"}, snap.H1)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestInspector_Failures(t *testing.T) {
	ts := inspectServer(t)
	insp := newTestInspector(t, true)
	ctx := context.Background()

	private := insp.Inspect(ctx, ts.URL+"/private")
	assert.True(t, private.DisallowedByRobot)
	assert.Equal(t, "disallowed by robots.txt", private.Error)

	gone := insp.Inspect(ctx, ts.URL+"/gone")
	assert.Equal(t, "HTTP 404", gone.Error)
	assert.Equal(t, "Not Found", gone.Title)

	blocked := insp.Inspect(ctx, ts.URL+"/blocked")
	assert.Equal(t, "PerimeterX", blocked.BlockedBy)
	assert.Equal(t, "blocked by PerimeterX", blocked.Error)

	bad := insp.Inspect(ctx, "ftp://example.com/file")
	assert.Contains(t, bad.Error, "unsupported scheme")
	assert.Zero(t, bad.StatusCode)
}

func TestInspector_RobotsDisabled(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			t.Error("robots.txt must not be fetched when disabled")
		}
		hits.Add(1)
		fmt.Fprint(w, "<title>x</title>")
	}))
	defer ts.Close()

	snap := newTestInspector(t, false).Inspect(context.Background(), ts.URL+"/private")
	assert.Empty(t, snap.Error)
	assert.Equal(t, "x", snap.Title)
	assert.EqualValues(t, 1, hits.Load())
}

func TestInspector_InspectAllPreservesOrder(t *testing.T) {
	ts := inspectServer(t)
	insp := newTestInspector(t, true)

	urls := []string{
		ts.URL + "/gone",
		ts.URL + "/running-shoes",
		"",
		ts.URL + "/private",
	}
	snaps := insp.InspectAll(context.Background(), urls)

	require.Len(t, snaps, 4)
	assert.Equal(t, "HTTP 404", snaps[0].Error)
	assert.Equal(t, "Running Shoes - Our Store", snaps[1].Title)
	assert.Equal(t, "empty url", snaps[2].Error)
	assert.True(t, snaps[3].DisallowedByRobot)
}

func TestInspector_InspectAllBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		fmt.Fprint(w, "<title>t</title>")
	}))
	defer ts.Close()

	insp := newTestInspector(t, false)
	urls := make([]string, 6)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/p%d", ts.URL, i)
	}
	snaps := insp.InspectAll(context.Background(), urls)

	require.Len(t, snaps, 6)
	for i, s := range snaps {
		assert.Equal(t, urls[i], s.URL)
		assert.Empty(t, s.Error)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestInspector_CancelledLimiter(t *testing.T) {
	ts := inspectServer(t)
	fetcher := newGoFetcher(t, FetchConfig{})
	limiter := ratelimit.New(0.1, 0)
	defer limiter.Stop()
	insp := NewInspector(InspectorConfig{Fetcher: fetcher, Limiter: limiter, Logger: zerolog.Nop()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snap := insp.Inspect(ctx, ts.URL+"/running-shoes")
	assert.Contains(t, snap.Error, "rate limiter cancelled")
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://example.com/a#frag", "https://example.com/a", false},
		{"example.com/page", "https://example.com/page", false},
		{"  http://example.com  ", "http://example.com", false},
		{"", "", true},
		{"ftp://example.com/file", "", true},
		{"https://", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeURL(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewInspectorFromConfig(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{"PAGE_FINGERPRINT": "go", "PAGE_RPS": "0"})
	require.NoError(t, err)

	insp, err := NewInspectorFromConfig(cfg, "mobile", zerolog.Nop())
	require.NoError(t, err)
	defer insp.Close()
	assert.NotNil(t, insp.robots)
	assert.Equal(t, 3, insp.concurrency)

	cfg.PageFingerprint = "netscape"
	_, err = NewInspectorFromConfig(cfg, "", zerolog.Nop())
	assert.Error(t, err)
}
