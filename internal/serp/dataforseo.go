package serp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL is the public DataForSEO API host.
	DefaultBaseURL = "https://api.dataforseo.com"

	liveAdvancedPath = "/v3/serp/google/organic/live/advanced"
	statusOK         = 20000
)

// DataForSEOConfig configures the live SERP client.
type DataForSEOConfig struct {
	BaseURL  string
	Login    string
	Password string
	Timeout  time.Duration
	Logger   zerolog.Logger
}

// DataForSEO fetches live Google organic results from the DataForSEO API.
type DataForSEO struct {
	cfg    DataForSEOConfig
	client *resty.Client
}

var _ Provider = (*DataForSEO)(nil)

type taskRequest struct {
	Keyword      string `json:"keyword"`
	LocationCode int    `json:"location_code"`
	LanguageCode string `json:"language_code"`
	Device       string `json:"device"`
}

// NewDataForSEO creates a client. Zero-valued fields take defaults.
func NewDataForSEO(cfg DataForSEOConfig) *DataForSEO {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "titlecraft/1.0")

	return &DataForSEO{cfg: cfg, client: client}
}

// Fetch performs a single live advanced SERP request and returns the first
// result block of the first task.
func (d *DataForSEO) Fetch(ctx context.Context, q Query) (*ResultBlock, error) {
	login, password := d.cfg.Login, d.cfg.Password
	if q.Login != "" && q.Password != "" {
		login, password = q.Login, q.Password
	}
	if login == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	payload := []taskRequest{{
		Keyword:      q.Keyword,
		LocationCode: q.LocationCode,
		LanguageCode: q.LanguageCode,
		Device:       q.Device,
	}}

	d.cfg.Logger.Debug().
		Str("keyword", q.Keyword).
		Int("location_code", q.LocationCode).
		Str("language_code", q.LanguageCode).
		Str("device", q.Device).
		Msg("requesting live SERP")

	resp, err := d.client.R().
		SetContext(ctx).
		SetBasicAuth(login, password).
		SetBody(payload).
		Post(d.cfg.BaseURL + liveAdvancedPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	default:
		return nil, fmt.Errorf("%w: %d - %s", ErrUnexpectedStatus, resp.StatusCode(), resp.String())
	}

	return parseEnvelope(resp.Body())
}

func parseEnvelope(body []byte) (*ResultBlock, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", ErrMalformedResponse)
	}
	env := gjson.ParseBytes(body)

	if code := env.Get("status_code").Int(); code != statusOK {
		return nil, fmt.Errorf("%w: %s", ErrProviderStatus, statusMessage(env))
	}

	task := env.Get("tasks.0")
	if sc := task.Get("status_code"); sc.Exists() && sc.Int() != statusOK {
		return nil, fmt.Errorf("%w: task %d: %s", ErrProviderStatus, sc.Int(), statusMessage(task))
	}

	block := task.Get("result.0")
	if !block.IsObject() {
		return nil, fmt.Errorf("%w: missing tasks[0].result[0]", ErrMalformedResponse)
	}
	return newResultBlock(block), nil
}

func statusMessage(v gjson.Result) string {
	if msg := v.Get("status_message").String(); msg != "" {
		return msg
	}
	return "Unknown error"
}
