package database

import (
	"os"
	"time"

	"github.com/go-while/go-words/internal/models"
)

// createDirIfNotExists creates a directory if it doesn't exist
func createDirIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// dateArg returns the storage form of a catalog/word date, or nil so the column default applies
func dateArg(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(models.DateLayout)
}
