package search

import (
	"errors"
	"fmt"
)

// ErrorKind classifies provider failures for logging. Every kind is handled
// identically by the aggregator: skip the provider and continue.
type ErrorKind string

const (
	ErrTimeout      ErrorKind = "timeout"
	ErrUnauthorized ErrorKind = "unauthorized"
	ErrRateLimited  ErrorKind = "rate_limited"
	ErrUnavailable  ErrorKind = "unavailable"
	ErrMalformed    ErrorKind = "malformed"
)

// ErrNotSupported is returned by providers without a detail/media endpoint
var ErrNotSupported = errors.New("operation not supported by provider")

// ProviderError wraps any failure at a provider adapter boundary
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Kind)
}

// NewProviderError builds a classified provider error
func NewProviderError(provider string, kind ErrorKind, format string, args ...interface{}) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
	}
}

// KindForStatus maps an HTTP status code to an error kind
func KindForStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return ErrUnauthorized
	case status == 429:
		return ErrRateLimited
	case status >= 500:
		return ErrUnavailable
	default:
		return ErrMalformed
	}
}
