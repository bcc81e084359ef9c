package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a governance failure
type Kind string

const (
	KindNotFound             Kind = "NOT_FOUND"
	KindForbidden            Kind = "FORBIDDEN"
	KindConflict             Kind = "CONFLICT"
	KindDependencyUnresolved Kind = "DEPENDENCY_UNRESOLVED"
	KindInvalid              Kind = "INVALID"
)

// Kind sentinels, usable as errors.Is targets
var (
	ErrNotFound             = &Error{Kind: KindNotFound, Message: "not found"}
	ErrForbidden            = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrConflict             = &Error{Kind: KindConflict, Message: "conflict"}
	ErrDependencyUnresolved = &Error{Kind: KindDependencyUnresolved, Message: "dependency unresolved"}
	ErrInvalid              = &Error{Kind: KindInvalid, Message: "invalid input"}
)

// Error is a typed failure returned by services
type Error struct {
	Kind    Kind
	Message string
}

// New creates a typed error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches another *Error of the same kind when the target is one of the kind sentinels,
// otherwise identity is required.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if isKindSentinel(t) {
		return e.Kind == t.Kind
	}
	return e == t
}

func isKindSentinel(e *Error) bool {
	switch e {
	case ErrNotFound, ErrForbidden, ErrConflict, ErrDependencyUnresolved, ErrInvalid:
		return true
	}
	return false
}

// KindOf returns the kind of err, or "" when err carries no kind
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HTTPStatus is the default status code for a kind
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindDependencyUnresolved, KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
