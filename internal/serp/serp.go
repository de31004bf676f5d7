package serp

import "context"

// Query describes a single live SERP lookup. Login and Password override the
// client's configured credentials when both are set.
type Query struct {
	Keyword      string
	LocationCode int
	LanguageCode string
	Device       string

	Login    string
	Password string
}

// Provider abstracts a search engine results provider. Implementations make a
// single attempt per call; callers decide what to do with failures.
type Provider interface {
	Fetch(ctx context.Context, q Query) (*ResultBlock, error)
}
