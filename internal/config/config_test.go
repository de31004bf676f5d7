package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "https://api.dataforseo.com", cfg.DataForSEOBaseURL)
	assert.Equal(t, 60*time.Second, cfg.SERPTimeout)
	assert.Equal(t, 30*time.Second, cfg.SuggestTimeout)
	assert.Equal(t, "claude-3-haiku-20240307", cfg.AnthropicModel)
	assert.Equal(t, Defaults{LocationCode: 2840, LanguageCode: "en", Device: "desktop"}, cfg.Defaults())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 0, cfg.MetricsPort)
	assert.True(t, cfg.PageRespectRobots)
	assert.Equal(t, 3, cfg.PageConcurrency)
	assert.False(t, cfg.AISuggestionsEnabled())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"DATAFORSEO_LOGIN":      "user",
		"DATAFORSEO_PASSWORD":   "secret",
		"ANTHROPIC_API_KEY":     "sk-test",
		"DEFAULT_LOCATION_CODE": "2826",
		"DEFAULT_LANGUAGE_CODE": "de",
		"DEFAULT_DEVICE":        "Mobile",
		"SERP_TIMEOUT":          "5s",
		"LOG_FORMAT":            "json",
	})
	require.NoError(t, err)

	assert.Equal(t, "user", cfg.DataForSEOLogin)
	assert.Equal(t, "secret", cfg.DataForSEOPassword)
	assert.True(t, cfg.AISuggestionsEnabled())
	assert.Equal(t, Defaults{LocationCode: 2826, LanguageCode: "de", Device: "mobile"}, cfg.Defaults())
	assert.Equal(t, 5*time.Second, cfg.SERPTimeout)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"zero serp timeout", map[string]string{"SERP_TIMEOUT": "0s"}},
		{"negative suggest timeout", map[string]string{"SUGGEST_TIMEOUT": "-1s"}},
		{"unknown log format", map[string]string{"LOG_FORMAT": "xml"}},
		{"unknown device", map[string]string{"DEFAULT_DEVICE": "tablet"}},
		{"bad location code", map[string]string{"DEFAULT_LOCATION_CODE": "us"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.vars)
			assert.Error(t, err)
		})
	}
}

func TestAISuggestionsEnabled_BlankKey(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"ANTHROPIC_API_KEY": "   "})
	require.NoError(t, err)
	assert.False(t, cfg.AISuggestionsEnabled())
}
