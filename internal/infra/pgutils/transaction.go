package pgutils

import (
	"context"
	"database/sql"
	"fmt"
)

// Hook observes the outcome of a transaction run by WithTx.
type Hook interface {
	// Committed runs once the transaction is durable.
	Committed(ctx context.Context)
	// RolledBack runs when fn failed or the commit did not happen.
	RolledBack()
}

// WithTx runs fn inside a transaction.
// It commits if fn returns nil, otherwise it rolls back. Hooks learn the
// outcome only after the database has decided it.
func WithTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error, hooks ...Hook) error {
	tx, err := db.BeginTx(ctx, nil) // default isolation level
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		for _, h := range hooks {
			h.RolledBack()
		}
	}()

	err = fn(tx)
	if err != nil {
		rbErr := tx.Rollback()
		if rbErr != nil {
			return fmt.Errorf("rollback after fn error: %v (fn err: %w)", rbErr, err)
		}
		return fmt.Errorf("fn: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	committed = true
	for _, h := range hooks {
		h.Committed(ctx)
	}

	return nil
}
