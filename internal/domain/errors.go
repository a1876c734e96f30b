package domain

import "errors"

// Failure kinds the engine surfaces. Call sites branch with errors.Is; the
// HTTP layer maps them to 400/404/409.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)
