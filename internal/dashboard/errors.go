package dashboard

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrTooManyAttempts    = errors.New("too many failed login attempts, try again later")
	ErrUnauthorized       = errors.New("session expired or not authorized")
	ErrNotAuthenticated   = errors.New("not logged in")
)

// TransportError covers everything that is not an authentication outcome:
// network failures, unexpected statuses and undecodable bodies.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
