package session

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition indicates a lifecycle call from a state that does not permit it.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrSessionNotFound indicates no current session exists.
	ErrSessionNotFound = errors.New("session not found")
	// ErrOrderNotEmpty indicates closing was requested while an order is in progress.
	ErrOrderNotEmpty = errors.New("order in progress")
	// ErrStalePending indicates a stale session must be resolved first.
	ErrStalePending = errors.New("stale session awaiting decision")
	// ErrNoArchive indicates the lifecycle runs without a count archive.
	ErrNoArchive = errors.New("no count archive configured")
)

// PersistenceError reports a failed store write. The transition that
// triggered it did not happen and may be retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

func transitionErr(op string, from State) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, op, from)
}
