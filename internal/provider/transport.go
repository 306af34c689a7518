// Package provider holds what the geocoding and weather clients share:
// transport error reporting and request metrics.
package provider

import (
	"fmt"
	"io"
	"net/http"
)

// bodyExcerptLen is the number of characters of a failed response body kept
// for diagnostics.
const bodyExcerptLen = 200

// TransportError reports a provider call that did not produce a successful
// response. StatusCode is zero when no response was received.
type TransportError struct {
	Provider   string
	Operation  string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: request failed: %v", e.Provider, e.Operation, e.Err)
	}
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Provider, e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Provider, e.Operation, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RequestFailed wraps an error returned before any response arrived.
func RequestFailed(providerName, operation string, err error) *TransportError {
	return &TransportError{Provider: providerName, Operation: operation, Err: err}
}

// CheckResponse returns nil for 2xx responses. Otherwise it reads a bounded
// part of the body and returns a TransportError carrying the status and the
// first 200 characters of the body.
func CheckResponse(resp *http.Response, providerName, operation string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*bodyExcerptLen))
	return &TransportError{
		Provider:   providerName,
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Body:       Truncate(string(raw), bodyExcerptLen),
	}
}

// Truncate returns the first n characters of s.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// CredentialSource supplies the API key a provider client sends with each
// request.
type CredentialSource interface {
	Value() (string, error)
}
