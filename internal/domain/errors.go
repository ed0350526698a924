package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure at the point where it happens so the HTTP layer
// never has to guess from message text.
type ErrorKind string

const (
	KindMissingInput              ErrorKind = "missing_input"
	KindInvalidInput              ErrorKind = "invalid_input"
	KindUnsupportedMediaType      ErrorKind = "unsupported_media_type"
	KindDocumentConversionFailed  ErrorKind = "document_conversion_failed"
	KindPayloadTooLarge           ErrorKind = "payload_too_large"
	KindProviderUnreachable       ErrorKind = "provider_unreachable"
	KindQuotaExceeded             ErrorKind = "quota_exceeded"
	KindAuthenticationFailed      ErrorKind = "authentication_failed"
	KindModelNotFound             ErrorKind = "model_not_found"
	KindMalformedProviderResponse ErrorKind = "malformed_provider_response"
	KindProviderError             ErrorKind = "provider_error"
	KindRouteNotFound             ErrorKind = "route_not_found"
)

// Sentinels for errors.Is matching. A *Error matches the sentinel of its kind.
var (
	ErrMissingInput              = errors.New("no file provided in request")
	ErrInvalidInput              = errors.New("invalid request input")
	ErrUnsupportedMediaType      = errors.New("unsupported MIME type")
	ErrDocumentConversionFailed  = errors.New("document conversion failed")
	ErrPayloadTooLarge           = errors.New("file exceeds maximum allowed size")
	ErrProviderUnreachable       = errors.New("AI provider unreachable")
	ErrQuotaExceeded             = errors.New("AI provider quota exceeded")
	ErrAuthenticationFailed      = errors.New("AI provider authentication failed")
	ErrModelNotFound             = errors.New("AI provider model not found")
	ErrMalformedProviderResponse = errors.New("malformed AI provider response")
	ErrProviderError             = errors.New("AI provider error")
	ErrRouteNotFound             = errors.New("route not found")
)

var sentinels = map[ErrorKind]error{
	KindMissingInput:              ErrMissingInput,
	KindInvalidInput:              ErrInvalidInput,
	KindUnsupportedMediaType:      ErrUnsupportedMediaType,
	KindDocumentConversionFailed:  ErrDocumentConversionFailed,
	KindPayloadTooLarge:           ErrPayloadTooLarge,
	KindProviderUnreachable:       ErrProviderUnreachable,
	KindQuotaExceeded:             ErrQuotaExceeded,
	KindAuthenticationFailed:      ErrAuthenticationFailed,
	KindModelNotFound:             ErrModelNotFound,
	KindMalformedProviderResponse: ErrMalformedProviderResponse,
	KindProviderError:             ErrProviderError,
	KindRouteNotFound:             ErrRouteNotFound,
}

// Error is a classified failure. Message is safe to show to callers; Err keeps
// the underlying cause for server-side logs.
type Error struct {
	Kind    ErrorKind
	Message string
	// Status is the upstream HTTP status for provider failures, 0 otherwise.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// NewError creates a classified error.
func NewError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// Errorf creates a classified error with a formatted message and no cause.
func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewProviderError creates a classified error carrying the upstream HTTP status.
func NewProviderError(kind ErrorKind, status int, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Status: status}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
