package api

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies the classified category of an API error.
//
// Every error produced by this package carries exactly one Kind, so call
// sites can branch on the failure category without string matching.
type Kind int

const (
	// KindGeneric is an unclassified HTTP error carrying status and detail.
	KindGeneric Kind = iota

	// KindAuthentication indicates an invalid or missing API key (401).
	KindAuthentication

	// KindInsufficientFunds indicates the account balance is too low (402).
	KindInsufficientFunds

	// KindRateLimit indicates the rate limit was exceeded (429) and all
	// retries were exhausted.
	KindRateLimit

	// KindNotFound indicates the remote no longer recognizes the resource (404).
	KindNotFound

	// KindTimeout indicates an operation exceeded its time bound, either a
	// single request deadline or a readiness-polling window.
	KindTimeout

	// KindSession indicates the remote reported the session as
	// FAILED, ERROR, or already FINISHED.
	KindSession

	// KindTransport indicates a connection-level failure before any HTTP
	// status was received.
	KindTransport
)

// String returns a short name for the kind, used in log and error text.
func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindRateLimit:
		return "rate_limit"
	case KindNotFound:
		return "not_found"
	case KindTimeout:
		return "timeout"
	case KindSession:
		return "session"
	case KindTransport:
		return "transport"
	default:
		return "generic"
	}
}

// Error is the classified error type for all control-plane failures.
//
// It is minted only by the response classifier (and by the transport for
// timeout/connection outcomes); every other layer propagates it unchanged.
// Use errors.As to recover it, then branch on Kind.
type Error struct {
	// Kind is the failure category.
	Kind Kind

	// Message is a human-readable description.
	Message string

	// Status is the HTTP status code, when one was received.
	Status int

	// Detail carries the server-provided detail for generic errors. When
	// the body could not be decoded this is the raw response text.
	Detail string

	// Balance is the remaining account balance for insufficient-funds errors.
	Balance float64

	// RetryAfter is the server-suggested wait in seconds for rate-limit errors.
	RetryAfter int

	// SessionID identifies the session for session failures.
	SessionID string

	// Elapsed is how long the operation ran before timing out.
	Elapsed time.Duration

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Status != 0 && e.Kind == KindGeneric {
		return fmt.Sprintf("abrasio: api error (%d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("abrasio: %s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Kind == k
}

func authenticationError() *Error {
	return &Error{
		Kind:    KindAuthentication,
		Status:  401,
		Message: "invalid or missing API key",
	}
}

func insufficientFundsError(balance float64) *Error {
	return &Error{
		Kind:    KindInsufficientFunds,
		Status:  402,
		Balance: balance,
		Message: fmt.Sprintf("insufficient funds (current balance: $%.2f)", balance),
	}
}

func rateLimitError(retryAfter int) *Error {
	msg := "rate limit exceeded"
	if retryAfter > 0 {
		msg = fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfter)
	}
	return &Error{
		Kind:       KindRateLimit,
		Status:     429,
		RetryAfter: retryAfter,
		Message:    msg,
	}
}

func notFoundError() *Error {
	return &Error{
		Kind:    KindNotFound,
		Status:  404,
		Message: "session not found",
	}
}

func timeoutError(message string, elapsed time.Duration, cause error) *Error {
	return &Error{
		Kind:    KindTimeout,
		Message: message,
		Elapsed: elapsed,
		Err:     cause,
	}
}

func sessionError(message, sessionID string) *Error {
	return &Error{
		Kind:      KindSession,
		Message:   message,
		SessionID: sessionID,
	}
}

func transportError(message string, cause error) *Error {
	return &Error{
		Kind:    KindTransport,
		Message: message,
		Err:     cause,
	}
}
