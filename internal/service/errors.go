package service

import "errors"

var (
	// ErrNotFound covers both a missing row and a row owned by someone
	// else, so callers cannot enumerate other participants' data.
	ErrNotFound           = errors.New("not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrDepositCapExceeded = errors.New("deposit cap exceeded")
	ErrInvalidInput       = errors.New("invalid input")
	// ErrConflict means the unit of work lost a serialization or lock
	// conflict; the request may be retried as-is.
	ErrConflict         = errors.New("transaction conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
)
