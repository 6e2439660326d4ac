package client

import "errors"

var (
	// ErrClientNotFound indicates the client doesn't exist.
	ErrClientNotFound = errors.New("client not found")
	// ErrClientExists indicates a client with the same name already exists.
	ErrClientExists = errors.New("client already exists")
	// ErrInvalidInput indicates invalid client input.
	ErrInvalidInput = errors.New("invalid client input")
	// ErrLimitExceeded indicates the charge would take the balance below the limit.
	ErrLimitExceeded = errors.New("client limit exceeded")
)
