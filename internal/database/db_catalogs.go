package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-while/go-words/internal/models"
)

const catalogSelect = `SELECT c.id, c.language_id, c.user_id, c.name, c.date, l.name
	FROM catalogs c JOIN languages l ON l.id = c.language_id`

func scanCatalog(row interface{ Scan(...interface{}) error }) (*models.Catalog, error) {
	c := &models.Catalog{Language: &models.Language{}}
	if err := row.Scan(&c.ID, &c.LanguageID, &c.UserID, &c.Name, &c.Date, &c.Language.Name); err != nil {
		return nil, err
	}
	c.Language.ID = c.LanguageID
	return c, nil
}

// InsertCatalog creates a catalog. A zero Date means today.
func (db *Database) InsertCatalog(ctx context.Context, c *models.Catalog) (*models.Catalog, error) {
	res, err := retryableExec(ctx, db.mainDB,
		`INSERT INTO catalogs (language_id, user_id, name, date) VALUES (?, ?, ?, COALESCE(?, date('now')))`,
		c.LanguageID, c.UserID, c.Name, dateArg(c.Date.Time))
	if err != nil {
		return nil, mapWriteError("insert catalog", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert catalog: %w", err)
	}
	return db.GetCatalogByID(ctx, id)
}

// GetCatalogByID retrieves a catalog with its language
func (db *Database) GetCatalogByID(ctx context.Context, id int64) (*models.Catalog, error) {
	rows, err := retryableQuery(ctx, db.mainDB, catalogSelect+` WHERE c.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get catalog %d: %w", id, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get catalog %d: %w", id, err)
		}
		return nil, fmt.Errorf("get catalog %d: %w", id, models.ErrNotFound)
	}
	c, err := scanCatalog(rows)
	if err != nil {
		return nil, fmt.Errorf("get catalog %d: %w", id, err)
	}
	return c, nil
}

// ListCatalogs retrieves catalogs matching filter ordered by name
func (db *Database) ListCatalogs(ctx context.Context, filter models.CatalogFilter) ([]*models.Catalog, error) {
	var where []string
	var args []interface{}
	if filter.LanguageID > 0 {
		where = append(where, "c.language_id = ?")
		args = append(args, filter.LanguageID)
	}
	if filter.UserID > 0 {
		where = append(where, "c.user_id = ?")
		args = append(args, filter.UserID)
	}
	query := catalogSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.name"

	rows, err := retryableQuery(ctx, db.mainDB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	defer rows.Close()

	var catalogs []*models.Catalog
	for rows.Next() {
		c, err := scanCatalog(rows)
		if err != nil {
			return nil, fmt.Errorf("list catalogs: %w", err)
		}
		catalogs = append(catalogs, c)
	}
	return catalogs, rows.Err()
}

// UpdateCatalog stores name, language and date of an existing catalog
func (db *Database) UpdateCatalog(ctx context.Context, c *models.Catalog) (*models.Catalog, error) {
	what := fmt.Sprintf("update catalog %d", c.ID)
	res, err := retryableExec(ctx, db.mainDB,
		`UPDATE catalogs SET language_id = ?, name = ?, date = COALESCE(?, date) WHERE id = ?`,
		c.LanguageID, c.Name, dateArg(c.Date.Time), c.ID)
	if err != nil {
		return nil, mapWriteError(what, err)
	}
	if err := expectAffected(what, res); err != nil {
		return nil, err
	}
	return db.GetCatalogByID(ctx, c.ID)
}

// DeleteCatalog removes a catalog and its words
func (db *Database) DeleteCatalog(ctx context.Context, id int64) error {
	res, err := retryableExec(ctx, db.mainDB, `DELETE FROM catalogs WHERE id = ?`, id)
	if err != nil {
		return mapDeleteError(fmt.Sprintf("delete catalog %d", id), err)
	}
	return expectAffected(fmt.Sprintf("delete catalog %d", id), res)
}
