package factorial

import (
	"errors"
	"fmt"
)

// Category sentinels. RequestError wraps one of these as its Kind so
// callers can branch with errors.Is without inspecting status codes.
var (
	ErrAuthPage        = errors.New("factorial: login page unavailable")
	ErrTokenNotFound   = errors.New("factorial: authenticity token not found in login page")
	ErrLogin           = errors.New("factorial: login rejected")
	ErrLogout          = errors.New("factorial: logout rejected")
	ErrRequestFailed   = errors.New("factorial: request failed")
	ErrInvalidArgument = errors.New("factorial: invalid argument")
	ErrOnLeave         = errors.New("factorial: today you're on leave, go back to sleep")
)

// RequestError describes an HTTP exchange that completed with a status code
// outside the operation's accepted set. Transport failures are not
// RequestErrors; they propagate as plain wrapped errors.
type RequestError struct {
	Kind   error  // category sentinel: ErrLogin, ErrRequestFailed, ...
	Op     string // operation label, e.g. "Failed to clock in"
	Status int
	Reason string // HTTP reason phrase
	Body   []byte // raw response body, kept for diagnostics
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("(%d %s) %s", e.Status, e.Reason, e.Op)
}

func (e *RequestError) Unwrap() error {
	return e.Kind
}
