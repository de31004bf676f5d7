package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/FranksOps/titlecraft/internal/analyzer"
	"github.com/FranksOps/titlecraft/internal/config"
	"github.com/FranksOps/titlecraft/internal/metrics"
	"github.com/FranksOps/titlecraft/internal/report"
	"github.com/FranksOps/titlecraft/internal/serp"
	"github.com/FranksOps/titlecraft/internal/suggest"
)

const (
	DefaultMaxResults = 10
	MaxResultsCap     = 100
)

// Outcome labels used for the analyses counter.
const (
	outcomeOK            = "ok"
	outcomeInvalidInput  = "invalid_input"
	outcomeUpstreamError = "upstream_error"
	outcomeInternalError = "internal_error"
)

// Request is one title analysis request. Nil or empty optional fields take
// the configured defaults.
type Request struct {
	Query        string
	UserTitle    string
	UserDomain   string
	LocationCode *int
	LanguageCode string
	Device       string
	MaxResults   *int

	// Optional per-request SERP credentials.
	SERPLogin    string
	SERPPassword string
}

// Suggester produces AI suggestions or says why it could not.
type Suggester interface {
	Try(ctx context.Context, query, userTitle string, competitorTitles []string) suggest.Outcome
}

// Options wires an Analyzer. Suggester may be nil, which disables AI
// suggestions.
type Options struct {
	SERP      serp.Provider
	Suggester Suggester
	Defaults  config.Defaults
	Logger    zerolog.Logger

	// Now and NewID default to time.Now and random UUIDs.
	Now   func() time.Time
	NewID func() string
}

// Analyzer runs title analyses. It holds no per-request state and is safe
// for concurrent use.
type Analyzer struct {
	serp      serp.Provider
	suggester Suggester
	defaults  config.Defaults
	logger    zerolog.Logger
	now       func() time.Time
	newID     func() string
}

// New creates an Analyzer from explicit dependencies.
func New(opts Options) (*Analyzer, error) {
	if opts.SERP == nil {
		return nil, errors.New("SERP provider is nil")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	return &Analyzer{
		serp:      opts.SERP,
		suggester: opts.Suggester,
		defaults:  opts.Defaults,
		logger:    opts.Logger,
		now:       opts.Now,
		newID:     opts.NewID,
	}, nil
}

// NewFromConfig wires the DataForSEO client and, when an Anthropic key is
// configured, the AI suggestion strategy.
func NewFromConfig(cfg *config.Config, logger zerolog.Logger) (*Analyzer, error) {
	provider := serp.NewDataForSEO(serp.DataForSEOConfig{
		BaseURL:  cfg.DataForSEOBaseURL,
		Login:    cfg.DataForSEOLogin,
		Password: cfg.DataForSEOPassword,
		Timeout:  cfg.SERPTimeout,
		Logger:   logger.With().Str("component", "serp").Logger(),
	})

	var suggester Suggester
	if cfg.AISuggestionsEnabled() {
		gen := suggest.NewAnthropicGenerator(suggest.AnthropicConfig{
			APIKey:  cfg.AnthropicAPIKey,
			BaseURL: cfg.AnthropicBaseURL,
			Model:   cfg.AnthropicModel,
			Timeout: cfg.SuggestTimeout,
		})
		suggester = suggest.NewStrategy(gen, logger)
	}

	return New(Options{
		SERP:      provider,
		Suggester: suggester,
		Defaults:  cfg.Defaults(),
		Logger:    logger,
	})
}

// AIEnabled reports whether AI suggestions are configured.
func (a *Analyzer) AIEnabled() bool {
	return a.suggester != nil
}

type resolved struct {
	locationCode int
	languageCode string
	device       string
	maxResults   int
}

func (a *Analyzer) resolve(req Request) resolved {
	r := resolved{
		locationCode: a.defaults.LocationCode,
		languageCode: a.defaults.LanguageCode,
		device:       a.defaults.Device,
		maxResults:   ClampMaxResults(req.MaxResults),
	}
	if req.LocationCode != nil {
		r.locationCode = *req.LocationCode
	}
	if lc := strings.TrimSpace(req.LanguageCode); lc != "" {
		r.languageCode = lc
	}
	if d := strings.ToLower(strings.TrimSpace(req.Device)); d != "" {
		r.device = d
	}
	return r
}

// ClampMaxResults applies the default of 10 and bounds the value to [0, 100].
func ClampMaxResults(v *int) int {
	if v == nil {
		return DefaultMaxResults
	}
	switch {
	case *v < 0:
		return 0
	case *v > MaxResultsCap:
		return MaxResultsCap
	}
	return *v
}

func validate(req Request) error {
	if strings.TrimSpace(req.Query) == "" {
		return &InputError{Field: "Query"}
	}
	if strings.TrimSpace(req.UserTitle) == "" {
		return &InputError{Field: "User title"}
	}
	return nil
}

// Analyze runs one analysis: validate, fetch the SERP once, partition the
// organic results, then try AI suggestions and fall back to rule-based
// guidelines. Errors are *InputError or *UpstreamError; a suggestion failure
// is never an error.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*report.Report, error) {
	id := a.newID()
	log := a.logger.With().Str("request_id", id).Logger()

	if err := validate(req); err != nil {
		log.Warn().Err(err).Msg("rejected invalid request")
		metrics.RecordAnalysis(outcomeInvalidInput)
		return nil, err
	}

	opts := a.resolve(req)
	log.Info().
		Str("query", req.Query).
		Int("location_code", opts.locationCode).
		Str("language_code", opts.languageCode).
		Str("device", opts.device).
		Msg("analyzing title")

	start := time.Now()
	block, err := a.serp.Fetch(ctx, serp.Query{
		Keyword:      req.Query,
		LocationCode: opts.locationCode,
		LanguageCode: opts.languageCode,
		Device:       opts.device,
		Login:        req.SERPLogin,
		Password:     req.SERPPassword,
	})
	metrics.RecordSERPFetch(err == nil, time.Since(start))
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch SERP")
		metrics.RecordAnalysis(outcomeUpstreamError)
		return nil, &UpstreamError{Err: err}
	}

	organic := serp.ExtractOrganic(block)
	paa := serp.ExtractPAA(block)
	part := analyzer.PartitionByDomain(organic, req.UserDomain)

	if part.Owned != nil {
		log.Info().Int("position", part.Owned.Position).Msg("found caller domain in results")
	}
	if n := len(part.Duplicates); n > 0 {
		log.Debug().Int("duplicates", n).Msg("caller domain ranks more than once")
	}

	titles := part.CompetitorTitles()
	guidelines := analyzer.BuildGuidelines(analyzer.GuidelineInput{
		Query:            req.Query,
		UserTitle:        req.UserTitle,
		CompetitorTitles: titles,
		PAAQuestions:     paa,
		OwnedPosition:    part.OwnedPosition(),
		Now:              a.now(),
	})

	detail := part.Competitors
	if len(detail) > opts.maxResults {
		detail = detail[:opts.maxResults]
	}

	rep := &report.Report{
		RequestID:            id,
		GeneratedAt:          a.now().UTC(),
		Query:                req.Query,
		UserTitle:            req.UserTitle,
		UserDomain:           strings.ToLower(strings.TrimSpace(req.UserDomain)),
		LocationCode:         opts.locationCode,
		LanguageCode:         opts.languageCode,
		Device:               opts.device,
		DuplicateOwnedCount:  len(part.Duplicates),
		TotalOrganic:         len(organic),
		CompetitorTitleCount: len(titles),
		PAA:                  paa,
		Competitors:          report.NewCompetitors(detail),
		AIEnabled:            a.AIEnabled(),
		Guidelines:           guidelines,
		SERP: report.SERPMetadata{
			ResultsCount: block.SEResultsCount,
			Datetime:     block.Datetime,
			LocationCode: block.LocationCode,
			Device:       block.Device,
			Features:     serp.ItemTypeCounts(block),
		},
	}
	if part.Owned != nil {
		rep.OwnedTitle = part.Owned.Title
	}

	outcome := suggest.Outcome{Reason: suggest.ReasonNotConfigured}
	if a.suggester != nil {
		outcome = a.suggester.Try(ctx, req.Query, req.UserTitle, titles)
	}
	if outcome.Available() {
		rep.SuggestionSource = report.SourceAI
		rep.AISuggestions = outcome.Set.Suggestions
		log.Info().Int("suggestions", len(outcome.Set.Suggestions)).Msg("using AI suggestions")
	} else {
		rep.SuggestionSource = report.SourceHeuristic
		rep.FallbackReason = string(outcome.Reason)
		ev := log.Info()
		if outcome.Reason != suggest.ReasonNotConfigured {
			ev = log.Warn()
		}
		ev.Err(outcome.Err).Str("reason", string(outcome.Reason)).Msg("falling back to rule-based guidelines")
	}
	metrics.RecordSuggestions(string(rep.SuggestionSource), rep.FallbackReason)
	metrics.RecordAnalysis(outcomeOK)

	return rep, nil
}

// Run is the never-failing boundary: it returns the rendered report, or a
// labelled error message with isError set. Panics are recovered and reported
// as unexpected errors.
func (a *Analyzer) Run(ctx context.Context, req Request) (text string, isError bool) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().Interface("panic", r).Msg("unexpected failure during analysis")
			metrics.RecordAnalysis(outcomeInternalError)
			text, isError = FormatError(fmt.Errorf("%v", r)), true
		}
	}()

	rep, err := a.Analyze(ctx, req)
	if err != nil {
		return FormatError(err), true
	}
	out, err := report.Markdown(rep)
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to render report")
		metrics.RecordAnalysis(outcomeInternalError)
		return FormatError(err), true
	}
	return out, false
}

// FormatError renders err with the label of its category.
func FormatError(err error) string {
	var inputErr *InputError
	var upstreamErr *UpstreamError
	switch {
	case errors.As(err, &inputErr):
		return "❌ Invalid input:\n\n" + err.Error()
	case errors.As(err, &upstreamErr):
		return "❌ Error fetching SERP data:\n\n" + err.Error()
	default:
		return "❌ Unexpected error:\n\n" + err.Error()
	}
}
