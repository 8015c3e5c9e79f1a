package translation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/rs/zerolog/log"
)

const (
	// SourceLanguage is the language clinicians type or speak.
	SourceLanguage = "en"
	// TargetLanguage is the patient's language.
	TargetLanguage = "ta"
)

var (
	// ErrMissingAPIKey is returned by backends that need credentials.
	ErrMissingAPIKey = errors.New("API key not found")
	// ErrEmptyResponse is returned when a backend answers without a translation.
	ErrEmptyResponse = errors.New("no translation returned")
	// ErrTextTooLong is returned when the text exceeds the backend's request limit.
	ErrTextTooLong = errors.New("text too long for translation backend")
)

// Backend translates English text to Tamil.
type Backend interface {
	// Translate returns the Tamil translation of text
	Translate(ctx context.Context, text string) (string, error)

	// Name returns the backend name
	Name() string
}

// StatusError carries the HTTP status of a failed backend call.
type StatusError struct {
	Backend string
	Code    int
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: response error %d: %v", e.Backend, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: response error %d: %s", e.Backend, e.Code, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether a failed call may succeed when repeated:
// timeouts, network errors, rate limiting and server errors.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests || statusErr.Code >= http.StatusInternalServerError
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, ErrEmptyResponse)
}

// FallbackBackend tries the primary backend first and the fallback on error.
type FallbackBackend struct {
	primary  Backend
	fallback Backend
}

// NewFallbackBackend creates a backend that falls back to secondary if primary fails
func NewFallbackBackend(primary, fallback Backend) Backend {
	return &FallbackBackend{
		primary:  primary,
		fallback: fallback,
	}
}

// Translate tries primary backend first, falls back to secondary on error
func (b *FallbackBackend) Translate(ctx context.Context, text string) (string, error) {
	translated, err := b.primary.Translate(ctx, text)
	if err == nil {
		return translated, nil
	}
	if ctx.Err() != nil {
		return "", err
	}

	log.Warn().
		Err(err).
		Str("primary", b.primary.Name()).
		Str("fallback", b.fallback.Name()).
		Msg("Primary translation backend failed, falling back")

	translated, fallbackErr := b.fallback.Translate(ctx, text)
	if fallbackErr != nil {
		return "", fmt.Errorf("both backends failed: primary=%v, fallback=%w", err, fallbackErr)
	}
	return translated, nil
}

// Name returns the backend name
func (b *FallbackBackend) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", b.primary.Name(), b.fallback.Name())
}
