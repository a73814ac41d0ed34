package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-while/go-words/internal/models"
)

// CatalogService manages word lists
type CatalogService struct {
	store    Store
	listings catalogListings
}

type CatalogInput struct {
	LanguageID int64  `json:"language_id"`
	UserID     int64  `json:"user_id"`
	Name       string `json:"name"`
	Date       string `json:"date"` // 2006-01-02, empty means today on create and unchanged on update
}

// parseDate accepts an empty string (zero time) or a DateLayout date
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD: %w", s, ErrInvalid)
	}
	return t, nil
}

func (in CatalogInput) toModel() (*models.Catalog, error) {
	name, err := checkName("name", in.Name)
	if err != nil {
		return nil, err
	}
	if err := checkID("language_id", in.LanguageID); err != nil {
		return nil, err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	return &models.Catalog{LanguageID: in.LanguageID, UserID: in.UserID, Name: name, Date: models.NewDate(date)}, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Catalog, error) {
	return s.store.GetCatalogByID(ctx, id)
}

func (s *CatalogService) List(ctx context.Context, filter models.CatalogFilter) ([]*models.Catalog, error) {
	if catalogs, ok := s.listings.get(filter); ok {
		return catalogs, nil
	}
	gen := s.listings.generation()
	catalogs, err := s.store.ListCatalogs(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.listings.set(gen, filter, catalogs)
	return catalogs, nil
}

func (s *CatalogService) Create(ctx context.Context, in CatalogInput) (*models.Catalog, error) {
	c, err := in.toModel()
	if err != nil {
		return nil, err
	}
	if err := checkID("user_id", c.UserID); err != nil {
		return nil, err
	}
	created, err := s.store.InsertCatalog(ctx, c)
	s.listings.invalidate(err)
	return created, err
}

// Update changes name, language and date. The owner of a catalog never changes.
func (s *CatalogService) Update(ctx context.Context, id int64, in CatalogInput) (*models.Catalog, error) {
	c, err := in.toModel()
	if err != nil {
		return nil, err
	}
	c.ID = id
	updated, err := s.store.UpdateCatalog(ctx, c)
	s.listings.invalidate(err)
	return updated, err
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	err := s.store.DeleteCatalog(ctx, id)
	s.listings.invalidate(err)
	return err
}
