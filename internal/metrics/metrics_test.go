package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestMetricsServer(t *testing.T) {
	srv := Start(8888, func(err error) { t.Errorf("unexpected server error: %v", err) })
	// Give it a tiny bit of time to start up
	time.Sleep(100 * time.Millisecond)

	defer srv.Stop(context.Background())

	RecordAnalysis("ok")
	RecordSERPFetch(true, 1500*time.Millisecond)
	RecordSuggestions("heuristic", "not_configured")
	RecordPageFetch(403, "Cloudflare")
	RecordPageFetch(0, "")

	resp, err := http.Get("http://localhost:8888/metrics")
	if err != nil {
		t.Fatalf("failed to fetch metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	output := string(body)

	for _, want := range []string{
		`titlecraft_analyses_total{outcome="ok"}`,
		`titlecraft_serp_fetch_duration_seconds_bucket{status="ok"`,
		`titlecraft_suggestions_total{source="heuristic"}`,
		`titlecraft_suggestion_fallbacks_total{reason="not_configured"}`,
		`titlecraft_page_fetches_total{detected="true",status="403"}`,
		`titlecraft_page_fetches_total{detected="false",status="error"}`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected metric %s", want)
		}
	}
}

func TestRecordSuggestions_NoReason(t *testing.T) {
	// Must not create an empty-label fallback series.
	RecordSuggestions("ai", "")
}

func TestStopNilServer(t *testing.T) {
	var s *Server
	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
