package bloom

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies errors by where they arise and how they should be handled.
type ErrorKind string

const (
	// KindInvalidInput indicates a missing or malformed request field.
	// Never retried.
	KindInvalidInput ErrorKind = "invalid_input"

	// KindMethodNotAllowed indicates the request used an unsupported HTTP method.
	KindMethodNotAllowed ErrorKind = "method_not_allowed"

	// KindMisconfigured indicates the server lacks configuration it needs,
	// such as the upstream credential. Operator-visible, never retried.
	KindMisconfigured ErrorKind = "misconfigured"

	// KindUpstream indicates the image service answered with an explicit error.
	// Retried by callers unless flagged rate-limited or too large.
	KindUpstream ErrorKind = "upstream_error"

	// KindNoImage indicates the image service answered without any image part.
	// Never retried: a policy decision does not change on resubmission.
	KindNoImage ErrorKind = "no_image_produced"

	// KindTransport indicates the image service could not be reached or did
	// not answer before the deadline. Retried by callers.
	KindTransport ErrorKind = "transport_error"

	// KindRateLimited indicates the gateway itself refused the request because
	// the caller exceeded its request rate. Never retried.
	KindRateLimited ErrorKind = "rate_limited"
)

// Reasons attached to KindNoImage errors.
const (
	ReasonSafetyFiltered = "safety_filtered"
	ReasonNoImagePart    = "no_image_part"
)

// Error is a classified failure with enough metadata for retry decisions
// and for rendering an HTTP error body.
type Error struct {
	Kind        ErrorKind
	Msg         string
	Code        int    // upstream HTTP status code, 0 if not applicable
	Status      string // upstream status text, e.g. RESOURCE_EXHAUSTED
	Reason      string // sub-classification, e.g. ReasonSafetyFiltered
	RateLimited bool
	TooLarge    bool
	Details     any   // extra context safe to show to clients
	Cause       error // underlying error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether a caller may usefully repeat the request.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTransport:
		return true
	case KindUpstream:
		return !e.RateLimited && !e.TooLarge
	default:
		return false
	}
}

// HTTPStatus returns the status code the gateway answers with for this error.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidInput:
		if e.TooLarge {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadRequest
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindMisconfigured:
		return http.StatusInternalServerError
	case KindUpstream:
		switch {
		case e.RateLimited:
			return http.StatusTooManyRequests
		case e.TooLarge:
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadGateway
	case KindNoImage:
		return http.StatusUnprocessableEntity
	case KindTransport:
		return http.StatusBadGateway
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// NewInvalidInputError creates an error for a bad request field.
func NewInvalidInputError(msg string, cause error) *Error {
	return &Error{Kind: KindInvalidInput, Msg: msg, Cause: cause}
}

// NewMisconfiguredError creates an error for missing server configuration.
func NewMisconfiguredError(msg string) *Error {
	return &Error{Kind: KindMisconfigured, Msg: msg}
}

// NewUpstreamError creates an error for an explicit upstream failure.
// Status code 429 marks the error rate-limited and 413 marks it too large.
func NewUpstreamError(msg string, code int, status string, cause error) *Error {
	return &Error{
		Kind:        KindUpstream,
		Msg:         msg,
		Code:        code,
		Status:      status,
		RateLimited: code == http.StatusTooManyRequests,
		TooLarge:    code == http.StatusRequestEntityTooLarge,
		Cause:       cause,
	}
}

// NewNoImageError creates an error for a reply without an image part.
func NewNoImageError(reason string, details any) *Error {
	msg := "No image generated"
	if reason == ReasonSafetyFiltered {
		msg = "Your photo could not be turned into a sculpture because it was blocked by the content safety filter. Please try a different photo."
	}
	return &Error{Kind: KindNoImage, Msg: msg, Reason: reason, Details: details}
}

// NewTransportError creates an error for a failed or timed out upstream call.
func NewTransportError(msg string, cause error) *Error {
	return &Error{Kind: KindTransport, Msg: msg, Cause: cause}
}

// NewRateLimitedError creates an error for a request refused by the
// gateway's own rate limiter.
func NewRateLimitedError(msg string) *Error {
	return &Error{Kind: KindRateLimited, Msg: msg, RateLimited: true}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// IsSafetyFiltered reports whether err is a NoImageProduced error caused by
// the upstream safety filter.
func IsSafetyFiltered(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindNoImage && e.Reason == ReasonSafetyFiltered
	}
	return false
}

// StatusCodeOf returns the upstream status code from a classified error, or 0.
func StatusCodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
