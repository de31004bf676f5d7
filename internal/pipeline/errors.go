package pipeline

import "fmt"

// InputError reports a request that failed validation. No network call is
// made for such requests.
type InputError struct {
	Field string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s parameter is required and cannot be empty", e.Field)
}

// UpstreamError wraps a SERP provider failure. It is always fatal to the
// analysis.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
