package database

import (
	"context"
	"fmt"
)

// ConsistencyReport is the result of CheckDatabaseConsistency
type ConsistencyReport struct {
	IntegrityErrors    []string // PRAGMA integrity_check lines other than "ok"
	ForeignKeyErrors   []string // PRAGMA foreign_key_check rows
	UserCount          int64
	LanguageCount      int64
	CatalogCount       int64
	WordCount          int64
	Migrations         []string
	Errors             []string
	HasInconsistencies bool
}

// CheckDatabaseConsistency runs sqlite's integrity and foreign key checks and counts rows
func (db *Database) CheckDatabaseConsistency(ctx context.Context) (*ConsistencyReport, error) {
	if db.IsDBshutdown() {
		return nil, fmt.Errorf("database is shut down")
	}
	report := &ConsistencyReport{
		IntegrityErrors:  []string{},
		ForeignKeyErrors: []string{},
		Errors:           []string{},
	}

	rows, err := retryableQuery(ctx, db.mainDB, "PRAGMA integrity_check")
	if err != nil {
		return nil, fmt.Errorf("integrity_check: %w", err)
	}
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			rows.Close()
			return nil, fmt.Errorf("integrity_check: %w", err)
		}
		if line != "ok" {
			report.IntegrityErrors = append(report.IntegrityErrors, line)
		}
	}
	rows.Close()

	// table, rowid, parent, fkid
	rows, err = retryableQuery(ctx, db.mainDB, "PRAGMA foreign_key_check")
	if err != nil {
		return nil, fmt.Errorf("foreign_key_check: %w", err)
	}
	for rows.Next() {
		var table, parent string
		var rowid, fkid *int64
		if err := rows.Scan(&table, &rowid, &parent, &fkid); err != nil {
			rows.Close()
			return nil, fmt.Errorf("foreign_key_check: %w", err)
		}
		id := int64(0)
		if rowid != nil {
			id = *rowid
		}
		report.ForeignKeyErrors = append(report.ForeignKeyErrors,
			fmt.Sprintf("%s row %d references missing %s", table, id, parent))
	}
	rows.Close()

	counts := []struct {
		table string
		dst   *int64
	}{
		{"users", &report.UserCount},
		{"languages", &report.LanguageCount},
		{"catalogs", &report.CatalogCount},
		{"words", &report.WordCount},
	}
	for _, c := range counts {
		if err := retryableQueryRowScan(ctx, db.mainDB, "SELECT COUNT(*) FROM "+c.table, nil, c.dst); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to count %s: %v", c.table, err))
		}
	}

	report.Migrations, err = db.AppliedMigrations()
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Failed to list migrations: %v", err))
	}

	report.HasInconsistencies = len(report.IntegrityErrors) > 0 ||
		len(report.ForeignKeyErrors) > 0 ||
		len(report.Errors) > 0
	return report, nil
}

// Vacuum rebuilds the database file
func (db *Database) Vacuum(ctx context.Context) error {
	if _, err := db.mainDB.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}
