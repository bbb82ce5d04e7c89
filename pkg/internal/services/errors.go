package services

import "errors"

// Failure taxonomy surfaced by the call request and relay services.
// Callers branch with errors.Is; the HTTP layer maps these to statuses.
var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInvalidState     = errors.New("record is not in a state that allows this")
	ErrExpired          = errors.New("call request has expired")
	ErrForbidden        = errors.New("you are not allowed to do this")
	ErrValidation       = errors.New("malformed input")
)
