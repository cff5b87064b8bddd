package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// withTx runs fn inside a transaction on db, committing on success and
// rolling back on error or panic. When db is already a transaction fn runs
// on it directly.
func withTx(ctx context.Context, db DBTX, fn func(ctx context.Context, tx DBTX) error) (err error) {
	conn, ok := db.(*sql.DB)
	if !ok {
		return fn(ctx, db)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("db error: %w", cerr)
		}
	}()

	return fn(ctx, tx)
}
