package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures from the Facebook Graph boundary so the
// dispatcher's retry policy never inspects raw platform codes.
type ErrorKind string

const (
	ErrKindConfig    ErrorKind = "config"    // app id/secret unset; fatal, never retried
	ErrKindAuth      ErrorKind = "auth"      // invalid/expired/revoked token
	ErrKindNotFound  ErrorKind = "not_found" // no page credential for a target
	ErrKindTransient ErrorKind = "transient" // rate limit, timeout, 5xx
	ErrKindPermanent ErrorKind = "permanent" // platform rejected the content itself
)

// PlatformError carries the classified kind next to the platform's own
// message, which is stored verbatim for operator diagnosis.
type PlatformError struct {
	Kind    ErrorKind
	Code    int // Graph error code when known, 0 otherwise
	Message string
}

func (e *PlatformError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s (code %d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewPlatformError(kind ErrorKind, code int, message string) *PlatformError {
	return &PlatformError{Kind: kind, Code: code, Message: message}
}

// ErrPageCredentialNotFound marks a dispatch target whose page credential is
// gone, e.g. after a disconnect. Terminal, never retried.
var ErrPageCredentialNotFound = NewPlatformError(ErrKindNotFound, 0, "page credential not found")

// KindOf extracts the classified kind. Unclassified errors (plain network
// failures, context deadlines) count as transient.
func KindOf(err error) ErrorKind {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ErrKindTransient
}

func IsTransient(err error) bool { return KindOf(err) == ErrKindTransient }

func IsAuthError(err error) bool { return KindOf(err) == ErrKindAuth }

// PlatformMessage returns the raw platform message when classified, otherwise
// the error text itself.
func PlatformMessage(err error) string {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
