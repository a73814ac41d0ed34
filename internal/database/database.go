// Package database provides the sqlite storage layer for go-words
package database

import (
	"context"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver
)

// IsDBshutdown reports whether Shutdown has been called
func (db *Database) IsDBshutdown() bool {
	db.mux.RLock()
	defer db.mux.RUnlock()
	return db.shutdown
}

// Ping checks that the main database answers
func (db *Database) Ping(ctx context.Context) error {
	if db.IsDBshutdown() {
		return fmt.Errorf("database is shut down")
	}
	return db.mainDB.PingContext(ctx)
}

// Shutdown checkpoints the WAL and closes the main database
func (db *Database) Shutdown() error {
	db.mux.Lock()
	if db.shutdown {
		db.mux.Unlock()
		return nil
	}
	db.shutdown = true
	db.mux.Unlock()

	if db.dbconfig.WALMode {
		if _, err := db.mainDB.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			log.Printf("[DB]: Warning: WAL checkpoint failed: %v", err)
		}
	}
	if err := db.mainDB.Close(); err != nil {
		return fmt.Errorf("failed to close main database: %w", err)
	}
	log.Printf("[DB]: Main database closed")
	return nil
}
