package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/nurpe/marketpay/internal/service"
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// translateError maps driver errors into the service taxonomy. Errors
// already in the taxonomy pass through unchanged so that business
// failures surfacing from a transaction callback keep their identity.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	for _, sentinel := range []error{
		service.ErrNotFound,
		service.ErrInsufficientFunds,
		service.ErrDepositCapExceeded,
		service.ErrInvalidInput,
		service.ErrConflict,
		service.ErrStoreUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return service.ErrNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", service.ErrStoreUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return fmt.Errorf("%w: %v", service.ErrConflict, err)
		}
	}

	return fmt.Errorf("%w: %v", service.ErrStoreUnavailable, err)
}
