// Package apperr implements a uniform error taxonomy: every client-visible
// failure carries a Kind that a single table maps to an HTTP status code
// and a JSON body, so handlers never hand-roll status codes inline.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind enumerates the error taxonomy.
type Kind string

const (
	KindMalformedText       Kind = "MalformedText"
	KindMalformedAction     Kind = "MalformedAction"
	KindInvalidPlayerIndex  Kind = "InvalidPlayerIndex"
	KindTooManyPlayers      Kind = "TooManyPlayers"
	KindInvalidProofKind    Kind = "InvalidProofKind"
	KindReducerFault        Kind = "ReducerFault"
	KindProverSetupFailed   Kind = "ProverSetupFailed"
	KindProofGenFailed      Kind = "ProofGenerationFailed"
	KindProofPersistFailed  Kind = "ProofPersistFailed"
	KindSessionNotFound     Kind = "SessionNotFound"
	KindProofNotFound       Kind = "ProofNotFound"
	KindInternal            Kind = "Internal"
)

// statusFor maps each Kind to its fixed HTTP status.
var statusFor = map[Kind]int{
	KindMalformedText:      http.StatusBadRequest,
	KindMalformedAction:    http.StatusBadRequest,
	KindInvalidPlayerIndex: http.StatusBadRequest,
	KindTooManyPlayers:     http.StatusBadRequest,
	KindInvalidProofKind:   http.StatusBadRequest,
	KindReducerFault:       http.StatusBadRequest,
	KindProverSetupFailed:  http.StatusBadRequest,
	KindProofGenFailed:     http.StatusBadRequest,
	KindProofPersistFailed: http.StatusBadRequest,
	KindSessionNotFound:    http.StatusNotFound,
	KindProofNotFound:      http.StatusNotFound,
	KindInternal:           http.StatusInternalServerError,
}

// Error is the concrete error type every package in this module returns
// for client-visible failures.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Status returns the HTTP status code for this error's Kind, defaulting to
// 500 for an unrecognized kind (should not happen for values constructed
// through New/Wrap in this package).
func (e *Error) Status() int {
	if s, ok := statusFor[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// New constructs a client-visible error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs a client-visible error of the given kind, retaining an
// underlying cause for logging (never surfaced verbatim to the client
// when Kind == KindInternal).
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// As extracts an *Error from err if present.
func As(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}

// Body is the JSON shape every non-2xx response carries: `{"message":
// string}`.
type Body struct {
	Message string `json:"message"`
}

// ToBody renders err as the client-visible JSON body, collapsing internal
// errors to an opaque message so panics inside handlers never leak
// internal detail to the client.
func ToBody(err error) (status int, body Body) {
	e, ok := As(err)
	if !ok {
		return http.StatusInternalServerError, Body{Message: "internal error"}
	}
	if e.Kind == KindInternal {
		return e.Status(), Body{Message: "internal error"}
	}
	return e.Status(), Body{Message: e.Message}
}
