package database

import (
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"sync"
	"time"
)

const MainDBFile = "words.sq3"

// Database wraps the main sqlite database of go-words
type Database struct {
	mainDB *sql.DB

	// Database configuration
	dbconfig *DBConfig

	mux      sync.RWMutex
	shutdown bool
}

// DBConfig represents database configuration
type DBConfig struct {
	// Directory to store database files
	DataDir string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Performance settings
	WALMode     bool   // Write-Ahead Logging
	SyncMode    string // OFF, NORMAL, FULL
	CacheSize   int    // KB
	TempStore   string // MEMORY, FILE
	BusyTimeout time.Duration
}

// DefaultDBConfig returns default database configuration
func DefaultDBConfig() (dbconfig *DBConfig) {
	return &DBConfig{
		DataDir:         "./data",
		MaxOpenConns:    16,
		MaxIdleConns:    4,
		ConnMaxLifetime: 0, // Unlimited for SQLite - connections don't need to be recycled
		WALMode:         true,
		SyncMode:        "NORMAL",
		CacheSize:       -16384, // -16384 == 1024 KB * 16384 = 16MB cache
		TempStore:       "MEMORY",
		BusyTimeout:     30 * time.Second,
	}
}

// OpenDatabase opens (and creates if needed) the main database and applies all migrations
func OpenDatabase(dbconfig *DBConfig) (*Database, error) {
	if dbconfig == nil {
		dbconfig = DefaultDBConfig()
	}

	db := &Database{
		dbconfig: dbconfig,
	}

	// Initialize main database
	if err := db.initMainDB(); err != nil {
		return nil, fmt.Errorf("failed to initialize main database: %w", err)
	}

	// Run migrations to ensure all tables exist
	if err := db.Migrate(); err != nil {
		if cerr := db.mainDB.Close(); cerr != nil {
			log.Printf("[DB]: Failed to close main database after migration error: %v", cerr)
		}
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	log.Printf("[DB]: words DB init config: %+v", dbconfig)
	return db, nil
}

// dsn builds the sqlite3 connection string. Per-connection pragmas go here
// so every pooled connection gets them, not just the first one.
func (db *Database) dsn(dbPath string) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", fmt.Sprintf("%d", db.dbconfig.BusyTimeout.Milliseconds()))
	if db.dbconfig.SyncMode != "" {
		params.Set("_synchronous", db.dbconfig.SyncMode)
	}
	if db.dbconfig.WALMode {
		params.Set("_journal_mode", "WAL")
	}
	if db.dbconfig.CacheSize != 0 {
		params.Set("_cache_size", fmt.Sprintf("%d", db.dbconfig.CacheSize))
	}
	return "file:" + dbPath + "?" + params.Encode()
}

func (db *Database) initMainDB() error {
	dbPath := filepath.Join(db.dbconfig.DataDir, MainDBFile)
	log.Printf("[DB]: Initializing main database at: %s", dbPath)

	// Create data directory if it doesn't exist
	if err := createDirIfNotExists(db.dbconfig.DataDir); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Open main database
	mainDB, err := sql.Open("sqlite3", db.dsn(dbPath))
	if err != nil {
		return fmt.Errorf("failed to open main database: %w", err)
	}

	// Configure connection pool
	mainDB.SetMaxOpenConns(db.dbconfig.MaxOpenConns)
	mainDB.SetMaxIdleConns(db.dbconfig.MaxIdleConns)
	mainDB.SetConnMaxLifetime(db.dbconfig.ConnMaxLifetime)

	// Test connection
	if err := mainDB.Ping(); err != nil {
		if cerr := mainDB.Close(); cerr != nil {
			return fmt.Errorf("failed to ping main database: %w; also failed to close mainDB: %v", err, cerr)
		}
		return fmt.Errorf("failed to ping main database: %w", err)
	}

	// Apply SQLite pragmas for performance
	if err := db.applySQLitePragmas(mainDB); err != nil {
		if cerr := mainDB.Close(); cerr != nil {
			return fmt.Errorf("failed to apply SQLite pragmas: %w; also failed to close mainDB: %v", err, cerr)
		}
		return fmt.Errorf("failed to apply SQLite pragmas: %w", err)
	}

	db.mainDB = mainDB
	return nil
}

// applySQLitePragmas applies performance pragmas that are not part of the DSN
func (db *Database) applySQLitePragmas(conn *sql.DB) error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA temp_store = %s", db.dbconfig.TempStore),
	}
	if db.dbconfig.WALMode {
		pragmas = append(pragmas, "PRAGMA wal_autocheckpoint = 1000")
	}

	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute pragma '%s': %w", pragma, err)
		}
	}

	return nil
}
