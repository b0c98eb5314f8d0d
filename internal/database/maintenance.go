package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Reset wipes every persisted key but keeps the schema so the console can keep running.
func Reset(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, t := range []string{"local_storage"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = db.ExecContext(ctx, "VACUUM")
	return nil
}
