package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/codeauth-server/internal/model"
)

// translate maps a driver error onto one of the model error kinds. Errors
// that already carry a kind pass through unchanged.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}

	var kindErr *model.Error
	if errors.As(err, &kindErr) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return model.NewError(model.KindNotFound, op, model.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return model.NewError(kindForCode(pgErr.Code), op, pgErrorCause(pgErr))
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, pgx.ErrTxClosed) {
		return model.NewError(model.KindStorageUnavailable, op, err)
	}

	return model.NewError(model.KindInternal, op, err)
}

func kindForCode(code string) model.Kind {
	switch {
	case code == pgerrcode.UniqueViolation:
		return model.KindConflict
	case pgerrcode.IsDataException(code), pgerrcode.IsIntegrityConstraintViolation(code):
		return model.KindInvalidInput
	case pgerrcode.IsConnectionException(code),
		pgerrcode.IsOperatorIntervention(code),
		pgerrcode.IsInsufficientResources(code),
		pgerrcode.IsTransactionRollback(code):
		return model.KindStorageUnavailable
	default:
		return model.KindInternal
	}
}

func pgErrorCause(pgErr *pgconn.PgError) error {
	if pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %s", model.ErrConflict, pgErr.ConstraintName)
	}
	return pgErr
}
