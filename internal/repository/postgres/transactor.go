package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/codeauth-server/internal/model"
)

type txKey struct{}

var _ model.Transactor = (*Transactor)(nil)

// Transactor is the unit-of-work guard for mutating operations. It stores the
// open pgx.Tx in the context so repository calls made by fn join it, rolls
// back on every failure path and returns errors mapped to a model kind.
type Transactor struct {
	db DB
}

func NewTransactor(db DB) *Transactor {
	return &Transactor{db: db}
}

// InTransaction runs fn in a transaction. A transaction already present in
// ctx is reused and left for the outer call to finish.
func (t *Transactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.db.Begin(ctx)
	if err != nil {
		return translate("begin transaction", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		// ctx may already be cancelled; the rollback must still reach the server.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(translate("transaction", err), translate("rollback transaction", rbErr))
		}
		return translate("transaction", err)
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(context.WithoutCancel(ctx))
		return translate("commit transaction", err)
	}

	return nil
}

// conn returns the transaction stored in ctx or falls back to db.
func conn(ctx context.Context, db DB) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db
}
