package database

import (
	"context"
	"database/sql"
	"log"
	"math/rand"
	"strings"
	"time"
)

const (
	maxRetries = 100
	baseDelay  = 10 * time.Millisecond
	maxDelay   = 25 * time.Millisecond
)

// isRetryableError checks if the error is a retryable SQLite error
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked") ||
		strings.Contains(errStr, "busy")
}

// retryDelay sleeps with linear backoff and jitter, or returns early when ctx is done
func retryDelay(ctx context.Context, attempt int) error {
	delay := time.Duration(attempt+1) * baseDelay
	if delay > maxDelay {
		delay = maxDelay
	}
	// Add random jitter (up to 50% of delay)
	jitter := time.Duration(rand.Int63n(int64(delay) / 2))

	t := time.NewTimer(delay + jitter)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retryableExec executes a SQL statement with retry logic for lock conflicts
func retryableExec(ctx context.Context, db *sql.DB, query string, args ...interface{}) (sql.Result, error) {
	var result sql.Result
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		result, err = db.ExecContext(ctx, query, args...)
		if !isRetryableError(err) {
			return result, err
		}
		log.Printf("[WARN] SQLite retry attempt %d/%d for query (first 50 chars): %s... Error: %v",
			attempt+1, maxRetries, truncateString(query, 50), err)
		if derr := retryDelay(ctx, attempt); derr != nil {
			return nil, derr
		}
	}

	return result, err
}

// retryableQueryRowScan executes a QueryRow and Scan with retry logic
func retryableQueryRowScan(ctx context.Context, db *sql.DB, query string, args []interface{}, dest ...interface{}) error {
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err = db.QueryRowContext(ctx, query, args...).Scan(dest...)
		if !isRetryableError(err) {
			return err
		}
		log.Printf("[WARN] SQLite retry attempt %d/%d for QueryRow scan (first 50 chars): %s... Error: %v",
			attempt+1, maxRetries, truncateString(query, 50), err)
		if derr := retryDelay(ctx, attempt); derr != nil {
			return derr
		}
	}

	return err
}

// retryableQuery executes a query that returns multiple rows with retry logic
func retryableQuery(ctx context.Context, db *sql.DB, query string, args ...interface{}) (*sql.Rows, error) {
	var rows *sql.Rows
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		rows, err = db.QueryContext(ctx, query, args...)
		if !isRetryableError(err) {
			return rows, err
		}
		log.Printf("[WARN] SQLite retry attempt %d/%d for query (first 50 chars): %s... Error: %v",
			attempt+1, maxRetries, truncateString(query, 50), err)
		if derr := retryDelay(ctx, attempt); derr != nil {
			return nil, derr
		}
	}

	return rows, err
}

// retryableTransactionExec runs txFunc in a transaction, retrying the whole
// transaction on lock conflicts
func retryableTransactionExec(db *sql.DB, txFunc func(*sql.Tx) error) error {
	return retryableTransactionExecContext(context.Background(), db, txFunc)
}

func retryableTransactionExecContext(ctx context.Context, db *sql.DB, txFunc func(*sql.Tx) error) error {
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		var tx *sql.Tx
		tx, err = db.BeginTx(ctx, nil)
		if err == nil {
			err = txFunc(tx)
			if err != nil {
				if rerr := tx.Rollback(); rerr != nil {
					log.Printf("[WARN] SQLite rollback failed: %v", rerr)
				}
			} else {
				err = tx.Commit()
			}
		}
		if !isRetryableError(err) {
			return err
		}
		log.Printf("[WARN] SQLite retry attempt %d/%d for transaction: %v", attempt+1, maxRetries, err)
		if derr := retryDelay(ctx, attempt); derr != nil {
			return derr
		}
	}

	return err
}

// truncateString truncates a string to the specified length
func truncateString(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length]
}
