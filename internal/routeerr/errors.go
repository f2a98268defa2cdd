// Package routeerr classifies failures of the route pipeline.
//
// Every stage below the intent dispatcher returns a *Error carrying a Kind.
// The dispatcher is the only place that turns a Kind into an HTTP status and
// a sentence for the user.
package routeerr

import (
	"errors"
	"net/http"
)

// Kind identifies a class of failure
type Kind int

const (
	Unknown Kind = iota
	InvalidOrigin
	InvalidDestination
	InvalidTime
	InvalidParameters
	NoRoutes
	InvalidRequest
	InvalidResponse
	NoRouteContext
	Timeout
	AuthError
	Internal
)

var kindNames = map[Kind]string{
	Unknown:            "UNKNOWN",
	InvalidOrigin:      "INVALID_ORIGIN",
	InvalidDestination: "INVALID_DESTINATION",
	InvalidTime:        "INVALID_TIME",
	InvalidParameters:  "INVALID_PARAMETERS",
	NoRoutes:           "NO_ROUTES",
	InvalidRequest:     "INVALID_REQUEST",
	InvalidResponse:    "INVALID_RESPONSE",
	NoRouteContext:     "NO_ROUTE_CONTEXT",
	Timeout:            "TIMEOUT",
	AuthError:          "AUTH_ERROR",
	Internal:           "INTERNAL_ERROR",
}

var kindStatus = map[Kind]int{
	InvalidOrigin:      http.StatusBadRequest,
	InvalidDestination: http.StatusBadRequest,
	InvalidTime:        http.StatusBadRequest,
	InvalidParameters:  http.StatusBadRequest,
	NoRoutes:           http.StatusBadRequest,
	InvalidRequest:     http.StatusBadRequest,
	InvalidResponse:    http.StatusBadRequest,
	NoRouteContext:     http.StatusBadRequest,
	Timeout:            http.StatusGatewayTimeout,
	AuthError:          http.StatusForbidden,
	Internal:           http.StatusInternalServerError,
	Unknown:            http.StatusInternalServerError,
}

var kindMessages = map[Kind]string{
	InvalidOrigin:      "Please provide a valid origin.",
	InvalidDestination: "Please provide a valid destination.",
	InvalidTime:        "Please provide a valid arrival time.",
	InvalidParameters:  "Sorry, I couldn't understand those details. Could you rephrase?",
	NoRoutes:           "No routes found. Try a different time or destination.",
	InvalidRequest:     "I couldn't plan that trip. Please check the origin and destination.",
	InvalidResponse:    "The route data I received was incomplete. Please try again.",
	NoRouteContext:     "There is no active route to adjust. Please ask for a route first.",
	Timeout:            "Request timed out. Please try again.",
	AuthError:          "Service temporarily unavailable.",
	Internal:           "An error occurred. Please try again later.",
	Unknown:            "An unexpected error occurred. Please try again.",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[Unknown]
}

// Status returns the HTTP status code replied for this kind
func (k Kind) Status() int {
	if status, ok := kindStatus[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Message returns the sentence shown to the user for this kind
func (k Kind) Message() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return kindMessages[Unknown]
}

// Error is a classified pipeline failure
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// New creates a classified error
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap creates a classified error around a cause
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of the first classified error in err's chain.
// Unclassified errors are Unknown.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return Unknown
}
