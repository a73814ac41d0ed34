package database

import (
	"context"
	"fmt"

	"github.com/go-while/go-words/internal/models"
)

// InsertLanguage adds a language, name must be unique
func (db *Database) InsertLanguage(ctx context.Context, name string) (*models.Language, error) {
	res, err := retryableExec(ctx, db.mainDB, `INSERT INTO languages (name) VALUES (?)`, name)
	if err != nil {
		return nil, mapWriteError("insert language", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert language: %w", err)
	}
	return &models.Language{ID: id, Name: name}, nil
}

// GetLanguageByID retrieves a language by ID
func (db *Database) GetLanguageByID(ctx context.Context, id int64) (*models.Language, error) {
	var l models.Language
	err := retryableQueryRowScan(ctx, db.mainDB, `SELECT id, name FROM languages WHERE id = ?`, []interface{}{id}, &l.ID, &l.Name)
	if err != nil {
		return nil, mapReadError(fmt.Sprintf("get language %d", id), err)
	}
	return &l, nil
}

// ListLanguages retrieves all languages ordered by name
func (db *Database) ListLanguages(ctx context.Context) ([]*models.Language, error) {
	rows, err := retryableQuery(ctx, db.mainDB, `SELECT id, name FROM languages ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()

	var languages []*models.Language
	for rows.Next() {
		var l models.Language
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, fmt.Errorf("list languages: %w", err)
		}
		languages = append(languages, &l)
	}
	return languages, rows.Err()
}

// UpdateLanguage renames a language
func (db *Database) UpdateLanguage(ctx context.Context, id int64, name string) (*models.Language, error) {
	res, err := retryableExec(ctx, db.mainDB, `UPDATE languages SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return nil, mapWriteError(fmt.Sprintf("update language %d", id), err)
	}
	if err := expectAffected(fmt.Sprintf("update language %d", id), res); err != nil {
		return nil, err
	}
	return &models.Language{ID: id, Name: name}, nil
}

// DeleteLanguage removes a language that no catalog refers to
func (db *Database) DeleteLanguage(ctx context.Context, id int64) error {
	res, err := retryableExec(ctx, db.mainDB, `DELETE FROM languages WHERE id = ?`, id)
	if err != nil {
		return mapDeleteError(fmt.Sprintf("delete language %d", id), err)
	}
	return expectAffected(fmt.Sprintf("delete language %d", id), res)
}
