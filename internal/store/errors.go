package store

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/job-tracker/internal/types"
)

// ErrNotFound indicates a mutation targeted an id the store does not hold.
type ErrNotFound struct {
	ID types.ID
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("application not found: %s", e.ID)
}

// ErrInvalidArgument indicates a bad paging argument.
type ErrInvalidArgument struct {
	Field   string
	Message string
}

func (e *ErrInvalidArgument) Error() string {
	return fmt.Sprintf("invalid argument: %s %s", e.Field, e.Message)
}

// TransportError indicates a remote call failed, either on the network or
// with a non-2xx response.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *TransportError) Error() string {
	switch {
	case e.Cause != nil && e.Message != "":
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.URL, e.Message, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Cause)
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Op, e.URL, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d", e.Op, e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %s", e.Op, e.URL, e.Message)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// PersistenceError indicates the local blob could not be read, decoded or
// written.
type PersistenceError struct {
	Op    string
	Key   string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Key, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err wraps *ErrNotFound.
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf)
}

// IsTransport reports whether err wraps *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func isStatus(err error, code int) bool {
	var te *TransportError
	return errors.As(err, &te) && te.StatusCode == code
}

func isNotFoundStatus(err error) bool {
	return isStatus(err, http.StatusNotFound)
}
