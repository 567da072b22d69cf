package roli

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies where a call failed.
type Kind int

const (
	// KindNetwork covers connection, TLS and timeout failures before a status was received.
	KindNetwork Kind = iota + 1
	// KindStatus is a response whose HTTP status is not the endpoint's success status.
	KindStatus
	// KindApplication is a successful HTTP response whose body reports success=false.
	KindApplication
	// KindDecode is a body that does not match the endpoint's declared schema.
	KindDecode
	// KindAuth is a missing or unusable verification token.
	KindAuth
	// KindArgument is a call rejected before any request was sent.
	KindArgument
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindApplication:
		return "application"
	case KindDecode:
		return "decode"
	case KindAuth:
		return "auth"
	case KindArgument:
		return "argument"
	default:
		return "unknown"
	}
}

var (
	ErrTooManyRequests              = errors.New("too many requests")
	ErrInternalServerError          = errors.New("internal server error")
	ErrNotFound                     = errors.New("not found")
	ErrMalformedResponse            = errors.New("malformed response")
	ErrRequestUnsuccessful          = errors.New("request returned unsuccessful")
	ErrCooldownNotExpired           = errors.New("cooldown not expired")
	ErrVerificationNotSet           = errors.New("roli verification not set")
	ErrVerificationInvalidChars     = errors.New("roli verification contains invalid characters")
	ErrVerificationInvalidOrExpired = errors.New("roli verification invalid or expired")
	ErrInvalidItemID                = errors.New("invalid item id")
	ErrInvalidParameters            = errors.New("invalid parameters")
	ErrUnidentifiedStatus           = errors.New("unidentified status code")
	ErrNetwork                      = errors.New("network failure")
)

// Error is returned by every Client operation. Err is always one of the
// package sentinels; cause carries the underlying transport or parse error.
type Error struct {
	Op         Op
	Kind       Kind
	StatusCode int
	// Code is the service-defined code from a success=false body, zero if
	// absent or not an integer.
	Code int
	// RawCode is that code as sent, e.g. "4" or "invalid_item_id".
	RawCode string
	Message string
	Err     error
	cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("roli %s: %s", e.Op, e.Err)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	switch {
	case e.Code != 0:
		msg += fmt.Sprintf(" (code %d)", e.Code)
	case e.RawCode != "":
		msg += fmt.Sprintf(" (code %q)", e.RawCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.cause}
}

func networkError(op Op, err error) *Error {
	return &Error{Op: op, Kind: KindNetwork, Err: ErrNetwork, cause: err}
}

func statusError(op Op, status int, sentinel error) *Error {
	if sentinel == nil {
		sentinel = ErrUnidentifiedStatus
	}
	return &Error{Op: op, Kind: KindStatus, StatusCode: status, Err: sentinel}
}

func decodeError(op Op, format string, args ...any) *Error {
	return &Error{Op: op, Kind: KindDecode, Err: ErrMalformedResponse, cause: fmt.Errorf(format, args...)}
}

func argumentError(op Op, msg string) *Error {
	return &Error{Op: op, Kind: KindArgument, Err: ErrInvalidParameters, Message: msg}
}

// KindOf reports the classification of err, or zero if err did not come from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsRetryable reports whether repeating the same call later may succeed.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch {
	case e.Kind == KindNetwork:
		return true
	case errors.Is(e.Err, ErrTooManyRequests), errors.Is(e.Err, ErrCooldownNotExpired):
		return true
	case e.Kind == KindStatus && e.StatusCode >= http.StatusInternalServerError:
		return true
	}
	return false
}
