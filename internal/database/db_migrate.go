package database

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
)

// MigrationType represents the type of database that migrations apply to
type MigrationType string

const (
	MigrationTypeMain MigrationType = "main"
)

// MigrationFile represents a migration file with its metadata
type MigrationFile struct {
	FileName    string
	Version     int
	Type        MigrationType
	Description string
	FilePath    string
}

// Migrate applies all pending embedded migrations to the main database
func (db *Database) Migrate() error {
	if err := db.migrateMainDB(); err != nil {
		return fmt.Errorf("failed to migrate main database: %w", err)
	}
	return nil
}

// parseMigrationFileName parses a migration file name to extract metadata
func parseMigrationFileName(fileName string) (*MigrationFile, error) {
	if !strings.HasSuffix(fileName, ".sql") {
		return nil, fmt.Errorf("migration file must have .sql extension: %s", fileName)
	}
	// Remove .sql extension
	name := strings.TrimSuffix(fileName, ".sql")
	parts := strings.SplitN(name, "_", 3)

	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid migration file name format: %s (expected format: 0001_type_description.sql)", fileName)
	}

	// Parse version number
	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid version number in migration file: %s", fileName)
	}

	// Determine migration type
	var migrationType MigrationType
	switch parts[1] {
	case "main":
		migrationType = MigrationTypeMain
	default:
		return nil, fmt.Errorf("invalid database migration type %q in %s", parts[1], fileName)
	}
	return &MigrationFile{
		FileName:    fileName,
		Version:     version,
		Type:        migrationType,
		Description: parts[2],
	}, nil
}

// ensureMigrationsTable creates the schema_migrations table if it doesn't exist
func ensureMigrationsTable(db *sql.DB, dbType string) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL UNIQUE,
		db_type TEXT NOT NULL DEFAULT '',
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table for %s: %w", dbType, err)
	}
	return nil
}

// getAppliedMigrations returns a map of applied migration filenames for a specific database
func getAppliedMigrations(db *sql.DB, dbType string) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := db.Query(`SELECT filename FROM schema_migrations WHERE db_type = ? OR db_type = ''`, dbType)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations for %s: %w", dbType, err)
	}
	defer rows.Close()

	for rows.Next() {
		var fname string
		if err := rows.Scan(&fname); err != nil {
			return nil, fmt.Errorf("failed to scan migration filename for %s: %w", dbType, err)
		}
		applied[fname] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating migration rows for %s: %w", dbType, err)
	}

	return applied, nil
}

// applyMigration applies a single migration and records it in one transaction
func applyMigration(db *sql.DB, migration *MigrationFile, dbType string) error {
	content, err := readEmbeddedMigrationContent(migration)
	if err != nil {
		return err
	}

	return retryableTransactionExec(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(content); err != nil {
			return fmt.Errorf("failed to execute migration %s for %s: %w", migration.FileName, dbType, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (filename, db_type) VALUES (?, ?)`, migration.FileName, dbType); err != nil {
			return fmt.Errorf("failed to record migration %s for %s: %w", migration.FileName, dbType, err)
		}
		log.Printf("[DB]: Applied migration %s to %s database", migration.FileName, dbType)
		return nil
	})
}

// migrateMainDB applies migrations to the main database
func (db *Database) migrateMainDB() error {
	// Ensure migrations table exists
	if err := ensureMigrationsTable(db.mainDB, string(MigrationTypeMain)); err != nil {
		return err
	}

	migrations, err := getEmbeddedMigrationFiles()
	if err != nil {
		return err
	}

	applied, err := getAppliedMigrations(db.mainDB, string(MigrationTypeMain))
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Type == MigrationTypeMain && !applied[migration.FileName] {
			if err := applyMigration(db.mainDB, migration, string(MigrationTypeMain)); err != nil {
				log.Printf("[DB]: Failed to apply migration %s to main database: %v", migration.FileName, err)
				return err
			}
		}
	}

	return nil
}

// AppliedMigrations lists the migration filenames recorded in the main database
func (db *Database) AppliedMigrations() ([]string, error) {
	applied, err := getAppliedMigrations(db.mainDB, string(MigrationTypeMain))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(applied))
	for name := range applied {
		names = append(names, name)
	}
	return names, nil
}
