// Package errs implements the typed error taxonomy shared by the
// Repository, Weather Service, Run Coordinator, and Control Surface.
package errs

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// Kind classifies an error for HTTP-status mapping and caller branching.
type Kind string

const (
	BadRequest  Kind = "bad_request"
	NotFound    Kind = "not_found"
	Conflict    Kind = "conflict"
	Unavailable Kind = "unavailable"
	DataCorrupt Kind = "data_corrupt"
	Internal    Kind = "internal"
)

type taggedError struct {
	kind Kind
	err  error
}

func (e *taggedError) Error() string { return e.err.Error() }
func (e *taggedError) Unwrap() error { return e.err }
func (e *taggedError) Cause() error  { return e.err }

// Wrap attaches kind to cause, preserving cause's chain for logging while
// making kind recoverable via KindOf.
func Wrap(kind Kind, cause error, msg string) error {
	if cause == nil {
		return nil
	}
	return &taggedError{kind: kind, err: errors.Wrap(cause, msg)}
}

// New creates a fresh error tagged with kind.
func New(kind Kind, msg string) error {
	return &taggedError{kind: kind, err: errors.New(msg)}
}

// Newf creates a fresh formatted error tagged with kind.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &taggedError{kind: kind, err: errors.Newf(format, args...)}
}

// KindOf walks err's cause chain for a taggedError and returns its Kind.
// Errors never passed through Wrap/New/Newf classify as Internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var te *taggedError
	if errors.As(err, &te) {
		return te.kind
	}
	return Internal
}

// Is reports whether err (or anything it wraps) was tagged with kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps a Kind to the status code the Control Surface should
// return. Centralized here: the Control Surface sends Repository and
// Coordinator errors through this mapping rather than choosing a status
// per handler.
func HTTPStatus(kind Kind) int {
	switch kind {
	case BadRequest:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Unavailable:
		return http.StatusServiceUnavailable
	case DataCorrupt:
		// Spec §7 treats DataCorrupt as a NotFound-equivalent at the
		// endpoint level; callers should still log it at error severity.
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
