package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// RunInTx executes fn inside a single transaction. Any error from fn, a panic,
// or a failed commit leaves the database untouched.
func RunInTx(ctx context.Context, conn *sql.DB, log *logrus.Logger, fn func(tx *sql.Tx) error) (err error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		return fmt.Errorf("could not start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			log.Error("Recovered from panic, rolling back transaction")
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			log.Warnf("Rolling back transaction due to error: %v", err)
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Errorf("Failed to rollback transaction: %v", rbErr)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				log.Errorf("Failed to commit transaction: %v", cErr)
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()

	err = fn(tx)
	return err
}
