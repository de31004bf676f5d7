package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/FranksOps/titlecraft/internal/analyzer"
	"github.com/FranksOps/titlecraft/internal/serp"
	"github.com/FranksOps/titlecraft/internal/suggest"
)

// Source names where the report's recommendations came from.
type Source string

const (
	SourceAI        Source = "ai"
	SourceHeuristic Source = "heuristic"
)

// Competitor is one entry of the detailed competitor list.
type Competitor struct {
	Rank        int    `json:"rank"`
	Position    int    `json:"position"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Host        string `json:"host"`
	Description string `json:"description"`
}

// SERPMetadata echoes what the provider reported about the search itself.
type SERPMetadata struct {
	ResultsCount *int64              `json:"se_results_count,omitempty"`
	Datetime     string              `json:"datetime,omitempty"`
	LocationCode int                 `json:"location_code,omitempty"`
	Device       string              `json:"device,omitempty"`
	Features     []serp.FeatureCount `json:"features,omitempty"`
}

// Report is the complete result of one title analysis.
type Report struct {
	RequestID   string    `json:"request_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Query        string `json:"query"`
	UserTitle    string `json:"user_title"`
	UserDomain   string `json:"user_domain,omitempty"`
	LocationCode int    `json:"location_code"`
	LanguageCode string `json:"language_code"`
	Device       string `json:"device"`

	OwnedTitle          string `json:"owned_title,omitempty"`
	DuplicateOwnedCount int    `json:"duplicate_owned_count"`

	TotalOrganic         int          `json:"total_organic"`
	CompetitorTitleCount int          `json:"competitor_title_count"`
	PAA                  []string     `json:"people_also_ask"`
	Competitors          []Competitor `json:"competitors"`

	AIEnabled        bool                 `json:"ai_enabled"`
	SuggestionSource Source               `json:"suggestion_source"`
	FallbackReason   string               `json:"fallback_reason,omitempty"`
	AISuggestions    []suggest.Suggestion `json:"ai_suggestions,omitempty"`
	Guidelines       analyzer.Guidelines  `json:"guidelines"`

	SERP SERPMetadata `json:"serp"`
}

// NewCompetitors builds the detailed competitor list from organic records.
func NewCompetitors(records []serp.OrganicRecord) []Competitor {
	out := make([]Competitor, 0, len(records))
	for i, r := range records {
		out = append(out, Competitor{
			Rank:        i + 1,
			Position:    r.Position,
			Title:       r.Title,
			URL:         r.URL,
			Host:        analyzer.HostSegment(r.URL),
			Description: r.Description,
		})
	}
	return out
}

// WriteJSON writes the report to the provided writer in JSON format.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteMarkdown writes the human-readable report.
func WriteMarkdown(w io.Writer, r *Report) error {
	if err := markdown.ExecuteTemplate(w, "report", r); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// Markdown renders the report to a string.
func Markdown(r *Report) (string, error) {
	var b strings.Builder
	if err := WriteMarkdown(&b, r); err != nil {
		return "", err
	}
	return b.String(), nil
}

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"yesno": func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	},
	"join": strings.Join,
	"features": func(fs []serp.FeatureCount) string {
		parts := make([]string, 0, len(fs))
		for _, f := range fs {
			parts = append(parts, fmt.Sprintf("%s (%d)", f.Type, f.Count))
		}
		return strings.Join(parts, ", ")
	},
}

var markdown = template.Must(template.New("markdown").Funcs(funcs).Parse(markdownTmpl))

const markdownTmpl = `{{define "report"}}# SEO Title Analysis Results

**Query analyzed:** {{.Query}}
**Current title:** {{.UserTitle}}
**Your domain:** {{or .UserDomain "Not specified"}}
**Search location:** {{.LocationCode}} ({{.LanguageCode}})
**Device type:** {{.Device}}
{{- if .UserDomain}}{{if .Guidelines.Ranking.Found}}
**Your current ranking:** Position #{{.Guidelines.Ranking.Position}}
**Your current SERP title:** {{or .OwnedTitle "N/A"}}
{{- else}}
**Your current ranking:** Not found in top {{.TotalOrganic}} results
{{- end}}{{end}}
{{- if .DuplicateOwnedCount}}
**Other listings from your domain:** {{.DuplicateOwnedCount}}
{{- end}}
**Competitor titles found:** {{.CompetitorTitleCount}}
**Total organic results:** {{.TotalOrganic}}
**People Also Ask questions:** {{len .PAA}}
**Showing detailed analysis for:** Top {{len .Competitors}} competitor results
**AI Suggestions:** {{if .AIEnabled}}Enabled{{else}}Disabled (no API key){{end}}
{{- if and .AIEnabled .FallbackReason}}
**AI fallback:** {{.FallbackReason}}, showing rule-based guidelines
{{- end}}

{{if eq .SuggestionSource "ai"}}## AI-Generated SEO Title Suggestions:

{{range $i, $s := .AISuggestions}}### Suggestion {{inc $i}}
**Title:** {{or $s.Title "N/A"}}
**Meta Description:** {{or $s.Description "N/A"}}
**Rationale:** {{or $s.Rationale "N/A"}}

{{end}}{{else}}{{template "guidelines" .Guidelines}}{{end}}
{{- if .PAA}}## People Also Ask Questions:

{{range $i, $q := .PAA}}{{inc $i}}. {{$q}}
{{end}}
{{end -}}
## Detailed Competitor Analysis (Top {{len .Competitors}} competitors):

{{range .Competitors}}### Competitor #{{.Rank}} (Position #{{.Position}})
**Title:** {{or .Title "N/A"}}
**URL:** {{or .URL "N/A"}}
**Domain:** {{or .Host "N/A"}}
**Description:** {{or .Description "N/A"}}

{{end}}
## Enhanced SERP Analysis
{{template "enhanced" .Guidelines}}
## Additional SERP Data for Analysis
**Total SERP results:** {{with .SERP.ResultsCount}}{{.}}{{else}}N/A{{end}}
**Search performed:** {{or .SERP.Datetime "N/A"}}
**Location:** {{with .SERP.LocationCode}}{{.}}{{else}}N/A{{end}}
**Device:** {{or .SERP.Device "N/A"}}
{{- if .SERP.Features}}
**SERP features:** {{features .SERP.Features}}
{{- end}}
{{end}}

{{define "guidelines"}}## SEO Analysis & Guidelines

### Your Current Performance
{{if .Ranking.Found}}- **Current ranking:** Position #{{.Ranking.Position}}
{{else}}- **Current ranking:** Not found in top results
{{end}}- **Opportunity:** {{.Ranking.Opportunity}}

{{with .TitleLength}}### Title Length Analysis
- **Your title length:** {{.User}} characters
- **Average competitor length:** {{printf "%.1f" .Average}} characters
- **Competitor range:** {{.Min}} - {{.Max}} characters
- **Recommendation:** Optimal title length is {{.RecommendedMin}}-{{.RecommendedMax}} characters

{{end}}### Keyword Usage Analysis
- **Competitor titles containing target keyword:** {{.Keywords.Count}}/{{.Keywords.Total}}
- **Your title contains keyword:** {{yesno .Keywords.UserTitleHasKeyword}}
- **Recommendation:** Include target keyword near the beginning of title

{{if .QuestionTerms}}### Question Angles
- **Query terms echoed in People Also Ask:** {{join .QuestionTerms ", "}}
- **Recommendation:** Answer the searcher's question in the title or description

{{end}}{{end}}

{{define "enhanced"}}{{if not .HasCompetitorTitles}}No competitor titles available for enhanced analysis.
{{else}}{{if .PowerWords}}### Power Words Analysis
{{range .PowerWords}}- **'{{.Term}}':** used in {{.Count}}/{{$.TotalTitles}} titles
{{end}}
{{end}}### Freshness & Date Analysis
- **Titles with {{.Freshness.CurrentYear}}:** {{.Freshness.CurrentYearCount}}/{{.TotalTitles}}
- **Titles with any year:** {{.Freshness.AnyYearCount}}/{{.TotalTitles}}
- **Recommendation:** {{.Freshness.Recommendation}}

### Numbers Usage
- **Titles with numbers:** {{.Numerals}}/{{.TotalTitles}}

### Title Structure Patterns
- **Using pipe separators (|):** {{.Separators.Pipe}}/{{.TotalTitles}}
- **Using dash separators (-):** {{.Separators.Dash}}/{{.TotalTitles}}

{{end}}{{end}}`
