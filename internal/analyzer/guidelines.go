package analyzer

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// PowerWords are the persuasive terms tracked across competitor titles.
var PowerWords = []string{
	"best", "top", "ultimate", "complete", "proven", "guaranteed", "exclusive",
	"premium", "leading", "trusted", "expert", "professional", "#1", "award", "rated",
}

const (
	RecommendedTitleMin = 50
	RecommendedTitleMax = 60

	// A year recommendation is made when more than freshnessNum/freshnessDen
	// of competitor titles carry a recent year.
	freshnessNum = 3
	freshnessDen = 10

	recentYearSpan = 3

	opportunityGood      = "Good position - optimize to move higher"
	opportunityImprove   = "Significant improvement opportunity"
	opportunityNotRanked = "Significant optimization needed to enter top rankings"
	freshnessIncludeYear = "Include current year"
	freshnessNotCritical = "Year not critical for this query"
	topTenCutoff         = 10
)

// GuidelineInput is everything the rule-based analysis looks at. Now is
// supplied by the caller; the analysis never reads a clock.
type GuidelineInput struct {
	Query            string
	UserTitle        string
	CompetitorTitles []string
	PAAQuestions     []string
	OwnedPosition    *int
	Now              time.Time
}

type Ranking struct {
	Found       bool   `json:"found"`
	Position    int    `json:"position,omitempty"`
	Opportunity string `json:"opportunity"`
}

type TitleLength struct {
	User           int     `json:"user"`
	Average        float64 `json:"average"`
	Min            int     `json:"min"`
	Max            int     `json:"max"`
	RecommendedMin int     `json:"recommended_min"`
	RecommendedMax int     `json:"recommended_max"`
}

type KeywordCoverage struct {
	Words               []string `json:"words"`
	Count               int      `json:"count"`
	Total               int      `json:"total"`
	UserTitleHasKeyword bool     `json:"user_title_has_keyword"`
}

type Freshness struct {
	CurrentYear      int    `json:"current_year"`
	RecentYears      []int  `json:"recent_years"`
	CurrentYearCount int    `json:"current_year_count"`
	AnyYearCount     int    `json:"any_year_count"`
	Recommendation   string `json:"recommendation"`
}

type Separators struct {
	Pipe int `json:"pipe"`
	Dash int `json:"dash"`
}

// Guidelines is the rule-based title analysis.
type Guidelines struct {
	Ranking     Ranking         `json:"ranking"`
	TitleLength *TitleLength    `json:"title_length,omitempty"`
	Keywords    KeywordCoverage `json:"keywords"`

	// Fields below are only meaningful when HasCompetitorTitles is set.
	HasCompetitorTitles bool        `json:"has_competitor_titles"`
	TotalTitles         int         `json:"total_titles"`
	PowerWords          []TermUsage `json:"power_words"`
	Freshness           Freshness   `json:"freshness"`
	Numerals            int         `json:"numerals"`
	Separators          Separators  `json:"separators"`

	QuestionTerms []string `json:"question_terms,omitempty"`
}

// BuildGuidelines computes the rule-based analysis. It is deterministic for a
// given input.
func BuildGuidelines(in GuidelineInput) Guidelines {
	titles := newTitleSet(in.CompetitorTitles)
	words := QueryWords(in.Query)

	g := Guidelines{
		Ranking:     rankingFor(in.OwnedPosition),
		TitleLength: titleLengths(in.UserTitle, in.CompetitorTitles),
		Keywords: KeywordCoverage{
			Words:               words,
			Count:               titles.countAnyFold(words),
			Total:               titles.len(),
			UserTitleHasKeyword: containsAny(strings.ToLower(in.UserTitle), words),
		},
		TotalTitles:   titles.len(),
		QuestionTerms: questionTerms(words, in.PAAQuestions),
	}

	if titles.len() == 0 {
		return g
	}
	g.HasCompetitorTitles = true
	g.PowerWords = CountTermUsage(in.CompetitorTitles, PowerWords)
	g.Freshness = freshness(titles, in.Now.Year())
	g.Numerals = titles.countFunc(hasDigit)
	g.Separators = Separators{
		Pipe: titles.countAny([]string{"|"}),
		Dash: titles.countAny([]string{" - "}),
	}
	return g
}

func rankingFor(pos *int) Ranking {
	if pos == nil {
		return Ranking{Opportunity: opportunityNotRanked}
	}
	r := Ranking{Found: true, Position: *pos, Opportunity: opportunityImprove}
	if *pos <= topTenCutoff {
		r.Opportunity = opportunityGood
	}
	return r
}

func titleLengths(userTitle string, titles []string) *TitleLength {
	var sum, n, lo, hi int
	for _, t := range titles {
		if t == "" {
			continue
		}
		l := utf8.RuneCountInString(t)
		if n == 0 || l < lo {
			lo = l
		}
		if n == 0 || l > hi {
			hi = l
		}
		sum += l
		n++
	}
	if n == 0 {
		return nil
	}
	return &TitleLength{
		User:           utf8.RuneCountInString(userTitle),
		Average:        float64(sum) / float64(n),
		Min:            lo,
		Max:            hi,
		RecommendedMin: RecommendedTitleMin,
		RecommendedMax: RecommendedTitleMax,
	}
}

func freshness(titles titleSet, year int) Freshness {
	f := Freshness{CurrentYear: year}
	recent := make([]string, 0, recentYearSpan)
	for i := 0; i < recentYearSpan; i++ {
		f.RecentYears = append(f.RecentYears, year-i)
		recent = append(recent, strconv.Itoa(year-i))
	}
	f.CurrentYearCount = titles.countAny(recent[:1])
	f.AnyYearCount = titles.countAny(recent)

	// any/total > 3/10, compared exactly in integers.
	if f.AnyYearCount*freshnessDen > titles.len()*freshnessNum {
		f.Recommendation = freshnessIncludeYear
	} else {
		f.Recommendation = freshnessNotCritical
	}
	return f
}

func questionTerms(words, questions []string) []string {
	if len(questions) == 0 {
		return nil
	}
	qs := newTitleSet(questions)
	seen := make(map[string]bool, len(words))
	var out []string
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		if qs.countFold(w) > 0 {
			out = append(out, w)
		}
	}
	return out
}
