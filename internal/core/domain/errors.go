package domain

import (
	"errors"
	"strings"
)

// Sentinel errors for contact operations.
var (
	// ErrContactNotFound indicates the requested contact does not exist.
	// The workflow service turns it into a recoverable failure; it never reaches HTTP as a 5xx.
	ErrContactNotFound = errors.New("contact not found")

	// ErrStorageUnavailable indicates no storage backend is configured or reachable.
	// HTTP Status: 500 Internal Server Error
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationFailure is a field-scoped, human-readable reason a write was rejected.
type ValidationFailure struct {
	Field          string `json:"field"`
	Message        string `json:"message"`
	AttemptedValue any    `json:"attemptedValue,omitempty"`
}

func (f ValidationFailure) String() string {
	return f.Message
}

// ValidationFailures is the full set of failures for one request.
type ValidationFailures []ValidationFailure

// Messages returns the failure messages in order.
func (fs ValidationFailures) Messages() []string {
	msgs := make([]string, 0, len(fs))
	for _, f := range fs {
		msgs = append(msgs, f.Message)
	}
	return msgs
}

// Join renders the failures as a single "; "-separated message.
func (fs ValidationFailures) Join() string {
	return strings.Join(fs.Messages(), "; ")
}
