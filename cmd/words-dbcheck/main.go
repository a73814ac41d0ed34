// words-dbcheck checks the go-words database for corruption and broken references
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-while/go-words/internal/config"
	"github.com/go-while/go-words/internal/database"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion
	log.Printf("go-words Database Check Tool (version: %s)", config.AppVersion)
	var (
		dataDir = flag.String("datadir", "data", "Directory holding words.sq3")
		vacuum  = flag.Bool("vacuum", false, "VACUUM the database after a clean check")
	)
	flag.Parse()

	if _, err := os.Stat(*dataDir); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: Database path '%s' does not exist\n", *dataDir)
		os.Exit(1)
	}

	dbConfig := database.DefaultDBConfig()
	dbConfig.DataDir = *dataDir
	db, err := database.OpenDatabase(dbConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	code, err := run(context.Background(), db, os.Stdout, *vacuum)
	if err != nil {
		log.Printf("Check failed: %v", err)
	}
	if err := db.Shutdown(); err != nil {
		log.Printf("Failed to shutdown database: %v", err)
	}
	os.Exit(code)
}

// run prints the report and returns the exit code: 0 clean, 1 error, 2 inconsistent
func run(ctx context.Context, db *database.Database, w io.Writer, vacuum bool) (int, error) {
	report, err := db.CheckDatabaseConsistency(ctx)
	if err != nil {
		return 1, err
	}
	printReport(w, report)
	if report.HasInconsistencies {
		return 2, nil
	}
	if vacuum {
		if err := db.Vacuum(ctx); err != nil {
			return 1, err
		}
		fmt.Fprintln(w, "VACUUM done")
	}
	return 0, nil
}

func printReport(w io.Writer, r *database.ConsistencyReport) {
	fmt.Fprintf(w, "Migrations: %v\n", r.Migrations)
	fmt.Fprintf(w, "Users: %d  Languages: %d  Catalogs: %d  Words: %d\n",
		r.UserCount, r.LanguageCount, r.CatalogCount, r.WordCount)
	for _, e := range r.IntegrityErrors {
		fmt.Fprintf(w, "INTEGRITY: %s\n", e)
	}
	for _, e := range r.ForeignKeyErrors {
		fmt.Fprintf(w, "FOREIGN KEY: %s\n", e)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "ERROR: %s\n", e)
	}
	if r.HasInconsistencies {
		fmt.Fprintln(w, "Status: INCONSISTENT")
	} else {
		fmt.Fprintln(w, "Status: OK")
	}
}
