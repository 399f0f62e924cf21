package models

import "fmt"

const maxBodySnippet = 256

// ProviderError indicates a provider was unreachable or returned an
// unrecognized response. It is distinct from "provider reachable but no
// line listed", which resolvers report as a NotFound outcome instead.
type ProviderError struct {
	Provider   Provenance
	StatusCode int // 0 for transport/parse failures
	Body       string
	Err        error
}

// NewProviderError builds a ProviderError with the response body truncated
// for diagnostics
func NewProviderError(provider Provenance, status int, body string) *ProviderError {
	if len(body) > maxBodySnippet {
		body = body[:maxBodySnippet]
	}
	return &ProviderError{Provider: provider, StatusCode: status, Body: body}
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.StatusCode, e.Body)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
