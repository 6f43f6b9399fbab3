package platform

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a platform API failure. The classification drives retry and
// cache behavior: auth failures flush the query cache and force a login
// redirect, transient failures retry once, validation failures surface
// verbatim, permission failures stay silent.
type Kind int

const (
	KindOther Kind = iota
	KindAuth
	KindPermission
	KindValidation
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "authentication"
	case KindPermission:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindTransient:
		return "transient"
	default:
		return "other"
	}
}

// Error is a classified platform API failure
type Error struct {
	Kind    Kind
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("platform: %s failure (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("platform: %s failure: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying transport error, if any
func (e *Error) Unwrap() error {
	return e.cause
}

// classifyStatus maps an HTTP status to an error kind
func classifyStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusForbidden:
		return KindPermission
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindTransient
	default:
		return KindOther
	}
}

func kindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindOther
}

// IsAuthFailure reports whether err is an authentication failure (401)
func IsAuthFailure(err error) bool {
	return kindOf(err) == KindAuth
}

// IsPermissionDenied reports whether err is an authorization failure (403)
func IsPermissionDenied(err error) bool {
	return kindOf(err) == KindPermission
}

// IsValidation reports whether err is a request validation failure
func IsValidation(err error) bool {
	return kindOf(err) == KindValidation
}

// IsTransient reports whether err may succeed on retry
func IsTransient(err error) bool {
	return kindOf(err) == KindTransient
}

// UserMessage returns the human-readable message carried by a platform error,
// falling back to the raw error text.
func UserMessage(err error) string {
	var pe *Error
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return err.Error()
}
