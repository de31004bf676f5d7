package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	content string
	err     error

	gotSystem string
	gotPrompt string
	calls     int
}

func (s *stubGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	s.calls++
	s.gotSystem = system
	s.gotPrompt = prompt
	return s.content, s.err
}

func titles(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Competitor title %02d", i+1)
	}
	return out
}

func TestStrategy_SuggestTitles(t *testing.T) {
	gen := &stubGenerator{content: "```json\n" + fiveSuggestions + "\n```"}
	s := NewStrategy(gen, zerolog.Nop())

	set, err := s.SuggestTitles(context.Background(), "q", "My title", titles(12))
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, SystemPrompt, gen.gotSystem)
	assert.Contains(t, gen.gotPrompt, "Competitor title 10")
	assert.NotContains(t, gen.gotPrompt, "Competitor title 11")

	assert.Equal(t, "q", set.Query)
	assert.Equal(t, "My title", set.UserTitle)
	assert.Len(t, set.TopTitles, MaxPromptTitles)
	assert.Len(t, set.Suggestions, 5)
}

func TestStrategy_CountMismatchIsNotFatal(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf)
	gen := &stubGenerator{content: `{"suggestions":[{"title":"only one"}]}`}

	set, err := NewStrategy(gen, logger).SuggestTitles(context.Background(), "q", "t", nil)
	require.NoError(t, err)
	assert.Len(t, set.Suggestions, 1)
	assert.Contains(t, buf.String(), "unexpected suggestion count")
}

func TestStrategy_WrapsPlainErrors(t *testing.T) {
	gen := &stubGenerator{err: errors.New("dial tcp: refused")}
	_, err := NewStrategy(gen, zerolog.Nop()).SuggestTitles(context.Background(), "q", "t", nil)

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, 0, pe.StatusCode)
}

func TestStrategy_Try(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		var nilStrategy *Strategy
		out := nilStrategy.Try(context.Background(), "q", "t", nil)
		assert.False(t, out.Available())
		assert.Equal(t, ReasonNotConfigured, out.Reason)

		out = NewStrategy(nil, zerolog.Nop()).Try(context.Background(), "q", "t", nil)
		assert.Equal(t, ReasonNotConfigured, out.Reason)
	})

	t.Run("transport", func(t *testing.T) {
		gen := &stubGenerator{err: &ProviderError{StatusCode: 529, Err: errors.New("overloaded")}}
		out := NewStrategy(gen, zerolog.Nop()).Try(context.Background(), "q", "t", nil)
		assert.False(t, out.Available())
		assert.Equal(t, ReasonTransport, out.Reason)
		var pe *ProviderError
		require.ErrorAs(t, out.Err, &pe)
		assert.Equal(t, 529, pe.StatusCode)
	})

	t.Run("unparseable", func(t *testing.T) {
		gen := &stubGenerator{content: "Sorry, here are some ideas: ..."}
		out := NewStrategy(gen, zerolog.Nop()).Try(context.Background(), "q", "t", nil)
		assert.False(t, out.Available())
		assert.Equal(t, ReasonEmpty, out.Reason)
		assert.NoError(t, out.Err)
	})

	t.Run("suggestions", func(t *testing.T) {
		gen := &stubGenerator{content: fiveSuggestions}
		out := NewStrategy(gen, zerolog.Nop()).Try(context.Background(), "q", "t", []string{"a"})
		require.True(t, out.Available())
		assert.Len(t, out.Set.Suggestions, 5)
		assert.Empty(t, out.Reason)
	})
}

func TestProviderError_Message(t *testing.T) {
	err := &ProviderError{StatusCode: 500, Err: errors.New("boom")}
	assert.Equal(t, "suggestion provider error (status 500): boom", err.Error())
	err = &ProviderError{Err: context.DeadlineExceeded}
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "suggestion provider error: context deadline exceeded", err.Error())
}
