package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "titlecraft_analyses_total",
			Help: "Total number of title analyses by outcome",
		},
		[]string{"outcome"},
	)

	SERPFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "titlecraft_serp_fetch_duration_seconds",
			Help:    "Duration of live SERP requests in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	SuggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "titlecraft_suggestions_total",
			Help: "Total number of reports by suggestion source",
		},
		[]string{"source"},
	)

	SuggestionFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "titlecraft_suggestion_fallbacks_total",
			Help: "Total number of heuristic fallbacks by reason",
		},
		[]string{"reason"},
	)

	PageFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "titlecraft_page_fetches_total",
			Help: "Total number of page inspections executed",
		},
		[]string{"status", "detected"},
	)
)

// RecordAnalysis counts one finished analysis.
func RecordAnalysis(outcome string) {
	AnalysesTotal.WithLabelValues(outcome).Inc()
}

// RecordSERPFetch observes a SERP request; status is "ok" or "error".
func RecordSERPFetch(ok bool, d time.Duration) {
	status := "ok"
	if !ok {
		status = "error"
	}
	SERPFetchDuration.WithLabelValues(status).Observe(d.Seconds())
}

// RecordSuggestions counts the suggestion source used for a report and, for
// heuristic reports, why AI suggestions were not used.
func RecordSuggestions(source, fallbackReason string) {
	SuggestionsTotal.WithLabelValues(source).Inc()
	if fallbackReason != "" {
		SuggestionFallbacks.WithLabelValues(fallbackReason).Inc()
	}
}

// RecordPageFetch counts a page inspection. A statusCode of 0 means the
// request failed before a response arrived.
func RecordPageFetch(statusCode int, detectedBy string) {
	statusStr := strconv.Itoa(statusCode)
	if statusCode == 0 {
		statusStr = "error"
	}
	detected := "false"
	if detectedBy != "" {
		detected = "true"
	}
	PageFetchesTotal.WithLabelValues(statusStr, detected).Inc()
}

// Server encapsulates an HTTP server for Prometheus metrics.
type Server struct {
	srv *http.Server
}

// Start begins listening on the specified port and exposes /metrics. Listen
// errors are passed to onErr, which may be nil.
func Start(port int, onErr func(error)) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed && onErr != nil {
			onErr(fmt.Errorf("metrics server failed: %w", err))
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s == nil || s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
