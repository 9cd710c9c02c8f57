package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of failure categories the API can report.
// Every error that crosses a handler boundary carries exactly one of these.
type Kind string

const (
	KindInvalidArgument   Kind = "invalid_argument"
	KindNotFound          Kind = "not_found"
	KindCreditsExhausted  Kind = "credits_exhausted"
	KindGenerationFailed  Kind = "generation_failed"
	KindPersistenceFailed Kind = "persistence_failed"
)

// Error pairs a Kind with its HTTP status and the underlying cause.
type Error struct {
	Status int
	Kind   Kind
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Kind != "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidArgument reports malformed or missing request input (400).
func InvalidArgument(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Kind: KindInvalidArgument, Err: errors.New(msg)}
}

// NotFound reports an absent record (404).
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Kind: KindNotFound, Err: errors.New(msg)}
}

// CreditsExhausted reports a zero balance (403). The message states that no
// generation was attempted, which callers rely on for billing disputes.
func CreditsExhausted() *Error {
	return &Error{
		Status: http.StatusForbidden,
		Kind:   KindCreditsExhausted,
		Err:    errors.New("AI refresh credits exhausted; no generation was attempted"),
	}
}

// GenerationFailed wraps a failed or unusable text-generation call (500).
func GenerationFailed(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Kind: KindGenerationFailed, Err: cause}
}

// PersistenceFailed wraps a commit failure after a successful generation (500).
func PersistenceFailed(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Kind: KindPersistenceFailed, Err: cause}
}

// KindOf extracts the Kind from err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// StatusOf extracts the HTTP status from err, defaulting to 500.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}
