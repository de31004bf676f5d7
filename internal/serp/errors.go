package serp

import "errors"

var (
	ErrMissingCredentials = errors.New("missing DataForSEO credentials")
	ErrUnauthorized       = errors.New("DataForSEO authentication failed, check your credentials")
	ErrUnexpectedStatus   = errors.New("DataForSEO API returned unexpected HTTP status")
	ErrProviderStatus     = errors.New("DataForSEO API reported an error")
	ErrMalformedResponse  = errors.New("malformed DataForSEO response")
	ErrTransport          = errors.New("request to DataForSEO failed")
)
