package suggest

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

const (
	// ExpectedSuggestions is how many suggestions the prompt asks for.
	ExpectedSuggestions = 5
	// MaxPromptTitles caps the competitor titles quoted in the prompt.
	MaxPromptTitles = 10

	SystemPrompt = "You are an expert SEO assistant that provides helpful, accurate, and well-structured title and description suggestions."
)

// ErrProviderUnavailable marks transport-level failures of the suggestion
// provider: timeouts, connection errors and non-2xx responses.
var ErrProviderUnavailable = errors.New("suggestion provider unavailable")

// ProviderError is returned when the provider could not be reached or
// answered with an error status. StatusCode is 0 when no response arrived.
type ProviderError struct {
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("suggestion provider error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("suggestion provider error: %v", e.Err)
}

func (e *ProviderError) Unwrap() []error {
	return []error{ErrProviderUnavailable, e.Err}
}

// Generator produces free text for a system and user prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Rationale   string `json:"rationale"`
}

// SuggestionSet is a provider answer together with the context it was asked in.
type SuggestionSet struct {
	Query       string       `json:"query"`
	UserTitle   string       `json:"user_title"`
	TopTitles   []string     `json:"top_serp_titles"`
	Suggestions []Suggestion `json:"suggestions"`
}

// UnavailableReason says why no AI suggestions were produced.
type UnavailableReason string

const (
	ReasonNotConfigured UnavailableReason = "not_configured"
	ReasonTransport     UnavailableReason = "transport"
	ReasonEmpty         UnavailableReason = "empty"
)

// Outcome is either a usable suggestion set or the reason there is none.
// Exactly one of Set and Reason is set.
type Outcome struct {
	Set    *SuggestionSet
	Reason UnavailableReason
	Err    error
}

// Available reports whether the outcome carries suggestions.
func (o Outcome) Available() bool { return o.Set != nil }

// Strategy asks a Generator for title suggestions and parses the answer.
type Strategy struct {
	gen    Generator
	logger zerolog.Logger
}

// NewStrategy returns a Strategy. A nil generator yields a Strategy whose Try
// always reports ReasonNotConfigured.
func NewStrategy(gen Generator, logger zerolog.Logger) *Strategy {
	return &Strategy{gen: gen, logger: logger.With().Str("component", "suggest").Logger()}
}

// SuggestTitles performs one generation. The only error is a transport-level
// *ProviderError; an unparseable answer yields an empty suggestion list.
func (s *Strategy) SuggestTitles(ctx context.Context, query, userTitle string, competitorTitles []string) (*SuggestionSet, error) {
	top := competitorTitles
	if len(top) > MaxPromptTitles {
		top = top[:MaxPromptTitles]
	}

	s.logger.Debug().Int("titles", len(top)).Msg("requesting title suggestions")
	content, err := s.gen.Generate(ctx, SystemPrompt, BuildPrompt(query, userTitle, top))
	if err != nil {
		var pe *ProviderError
		if !errors.As(err, &pe) {
			err = &ProviderError{Err: err}
		}
		return nil, err
	}

	suggestions, perr := ParseSuggestions(content)
	if perr != nil {
		s.logger.Warn().Err(perr).Msg("could not parse suggestion response")
	}
	if len(suggestions) != ExpectedSuggestions {
		s.logger.Warn().
			Int("expected", ExpectedSuggestions).
			Int("got", len(suggestions)).
			Msg("unexpected suggestion count")
	}

	return &SuggestionSet{
		Query:       query,
		UserTitle:   userTitle,
		TopTitles:   append([]string(nil), top...),
		Suggestions: suggestions,
	}, nil
}

// Try wraps SuggestTitles into an Outcome so callers can fall back without
// inspecting errors.
func (s *Strategy) Try(ctx context.Context, query, userTitle string, competitorTitles []string) Outcome {
	if s == nil || s.gen == nil {
		return Outcome{Reason: ReasonNotConfigured}
	}
	set, err := s.SuggestTitles(ctx, query, userTitle, competitorTitles)
	if err != nil {
		return Outcome{Reason: ReasonTransport, Err: err}
	}
	if len(set.Suggestions) == 0 {
		return Outcome{Reason: ReasonEmpty}
	}
	return Outcome{Set: set}
}
