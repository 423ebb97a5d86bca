package completion

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a completion failure. The dispatch layer keys its
// user-visible and logging behavior off this classification.
type Kind string

const (
	// KindTransient covers network errors, timeouts, rate limits, and
	// provider-side 5xx — safe to surface a generic apologetic reply.
	KindTransient Kind = "transient"

	// KindRejected covers content/policy rejections — same generic reply.
	KindRejected Kind = "rejected"

	// KindUnauthenticated covers credential failures — a fatal condition to
	// log, not to retry per-message.
	KindUnauthenticated Kind = "unauthenticated"

	// KindFatal covers misconfiguration and unexpected provider responses.
	KindFatal Kind = "fatal"
)

var (
	// ErrAllProvidersFailed indicates all providers failed to generate content
	ErrAllProvidersFailed = errors.New("all providers failed")

	// ErrNoProvidersConfigured indicates no providers are enabled
	ErrNoProvidersConfigured = errors.New("no providers configured")

	// ErrEmptyResponse indicates the provider returned no usable content
	ErrEmptyResponse = errors.New("empty completion response")
)

// Error wraps a provider failure with its classification.
type Error struct {
	Kind     Kind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("completion %s (provider %s): %v", e.Kind, e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from err, defaulting to transient for errors that
// carry no classification (plain network failures, context timeouts).
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindTransient
}

// kindForStatus maps an HTTP status from a provider API to a Kind.
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthenticated
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindRejected
	case status == http.StatusTooManyRequests:
		return KindTransient
	case status >= http.StatusInternalServerError:
		return KindTransient
	default:
		return KindFatal
	}
}
