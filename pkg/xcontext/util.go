package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type txHolder struct {
	tx *gorm.DB
}

// WithDBTransaction begins a transaction and returns a context whose DB
// function returns the transaction. It must be followed by
// WithCommitDBTransaction or WithRollbackDBTransaction, calling the later after
// a commit is a no-op.
func WithDBTransaction(ctx context.Context) context.Context {
	tx := DB(ctx).Begin()
	return context.WithValue(ctx, dbTransactionKey{}, &txHolder{tx: tx})
}

// WithCommitDBTransaction commits the running transaction of ctx. A failed
// commit leaves nothing written, callers must report it as a failure.
func WithCommitDBTransaction(ctx context.Context) error {
	holder, ok := ctx.Value(dbTransactionKey{}).(*txHolder)
	if !ok || holder.tx == nil {
		return nil
	}

	err := holder.tx.Commit().Error
	holder.tx = nil
	return err
}

func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if holder, ok := ctx.Value(dbTransactionKey{}).(*txHolder); ok && holder.tx != nil {
		holder.tx.Rollback()
		holder.tx = nil
	}

	return ctx
}
