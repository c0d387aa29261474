package chat

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyInput is returned when a submitted message trims to nothing.
	ErrEmptyInput = errors.New("message is empty")
	// ErrEmptyCart is returned when checkout is requested with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSessionClosed is returned for operations on a closed session.
	ErrSessionClosed = errors.New("session is closed")
	// ErrSessionNotFound is returned by the manager for unknown session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrBusy is returned while a classifier call is in flight.
	ErrBusy = errors.New("another request is in flight")
	// ErrSubmitInFlight is returned when an order submission is already running.
	ErrSubmitInFlight = errors.New("order submission already in flight")
	// ErrSessionReset signals that the session was reset while a call was in
	// flight; the late response was discarded.
	ErrSessionReset = errors.New("session was reset")
	// ErrOrderSubmission wraps any order-commit failure; the cart stays intact.
	ErrOrderSubmission = errors.New("order submission failed")
	// ErrInvalidPhase is returned for transitions the state machine forbids.
	ErrInvalidPhase = errors.New("operation not allowed in current phase")
)

// IncompleteFormError names the blank checkout-form fields.
type IncompleteFormError struct {
	Missing []string
}

func (e *IncompleteFormError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}
