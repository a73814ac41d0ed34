package database

import (
	"context"
	"fmt"

	"github.com/go-while/go-words/internal/models"
)

const wordColumns = `id, catalog_id, name, pronunciation, value, date`

func scanWord(row interface{ Scan(...interface{}) error }) (*models.Word, error) {
	var w models.Word
	if err := row.Scan(&w.ID, &w.CatalogID, &w.Name, &w.Pronunciation, &w.Value, &w.Date); err != nil {
		return nil, err
	}
	return &w, nil
}

// InsertWord adds a word to a catalog. A zero Date means today.
func (db *Database) InsertWord(ctx context.Context, w *models.Word) (*models.Word, error) {
	res, err := retryableExec(ctx, db.mainDB,
		`INSERT INTO words (catalog_id, name, pronunciation, value, date) VALUES (?, ?, ?, ?, COALESCE(?, date('now')))`,
		w.CatalogID, w.Name, w.Pronunciation, w.Value, dateArg(w.Date.Time))
	if err != nil {
		return nil, mapWriteError("insert word", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert word: %w", err)
	}
	return db.GetWordByID(ctx, id)
}

// GetWordByID retrieves a word by ID
func (db *Database) GetWordByID(ctx context.Context, id int64) (*models.Word, error) {
	var w models.Word
	err := retryableQueryRowScan(ctx, db.mainDB, `SELECT `+wordColumns+` FROM words WHERE id = ?`, []interface{}{id},
		&w.ID, &w.CatalogID, &w.Name, &w.Pronunciation, &w.Value, &w.Date)
	if err != nil {
		return nil, mapReadError(fmt.Sprintf("get word %d", id), err)
	}
	return &w, nil
}

// ListWords retrieves the words of a catalog ordered by name, or all words if catalogID is 0
func (db *Database) ListWords(ctx context.Context, catalogID int64) ([]*models.Word, error) {
	query := `SELECT ` + wordColumns + ` FROM words`
	var args []interface{}
	if catalogID > 0 {
		query += ` WHERE catalog_id = ?`
		args = append(args, catalogID)
	}
	query += ` ORDER BY name`

	rows, err := retryableQuery(ctx, db.mainDB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	defer rows.Close()

	var words []*models.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("list words: %w", err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// UpdateWord stores all fields of an existing word
func (db *Database) UpdateWord(ctx context.Context, w *models.Word) (*models.Word, error) {
	what := fmt.Sprintf("update word %d", w.ID)
	res, err := retryableExec(ctx, db.mainDB,
		`UPDATE words SET catalog_id = ?, name = ?, pronunciation = ?, value = ?, date = COALESCE(?, date) WHERE id = ?`,
		w.CatalogID, w.Name, w.Pronunciation, w.Value, dateArg(w.Date.Time), w.ID)
	if err != nil {
		return nil, mapWriteError(what, err)
	}
	if err := expectAffected(what, res); err != nil {
		return nil, err
	}
	return db.GetWordByID(ctx, w.ID)
}

// DeleteWord removes a word
func (db *Database) DeleteWord(ctx context.Context, id int64) error {
	res, err := retryableExec(ctx, db.mainDB, `DELETE FROM words WHERE id = ?`, id)
	if err != nil {
		return mapDeleteError(fmt.Sprintf("delete word %d", id), err)
	}
	return expectAffected(fmt.Sprintf("delete word %d", id), res)
}
