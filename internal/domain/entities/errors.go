package entities

import "errors"

// Error taxonomy shared by the pricing engine and the quote aggregate.
// Concrete errors wrap one of these so callers can classify with errors.Is.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrTierResolution = errors.New("tier resolution failed")
	ErrInvalidState   = errors.New("invalid state")
	ErrConflict       = errors.New("concurrent modification")
)
