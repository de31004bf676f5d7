package analyzer

import (
	"fmt"
	"testing"
	"time"
)

// benchmarkTitles generates a realistic set of SERP titles.
func benchmarkTitles(n int) []string {
	patterns := []string{
		"The %d Best Running Shoes of 2024 | Tested by Experts",
		"Top Rated Trail Shoes - Complete Buyer's Guide (%d Picks)",
		"Running Shoes for Men & Women | Free Shipping on %d+ Styles",
		"Proven Training Plans: %d Weeks to Your First Marathon",
		"Premium Cushioned Sneakers - Award Winning Comfort #%d",
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf(patterns[i%len(patterns)], i))
	}
	return out
}

func BenchmarkCountTermUsage_FirstPage(b *testing.B) {
	titles := benchmarkTitles(10)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		CountTermUsage(titles, PowerWords)
	}
}

func BenchmarkCountTermUsage_MaxResults(b *testing.B) {
	titles := benchmarkTitles(100)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		CountTermUsage(titles, PowerWords)
	}
}

func BenchmarkBuildGuidelines(b *testing.B) {
	in := GuidelineInput{
		Query:            "best running shoes for flat feet",
		UserTitle:        "Running Shoes for Flat Feet - Our Store",
		CompetitorTitles: benchmarkTitles(100),
		PAAQuestions:     []string{"What running shoes are best for flat feet?", "Do flat feet need stability shoes?"},
		Now:              time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		BuildGuidelines(in)
	}
}
