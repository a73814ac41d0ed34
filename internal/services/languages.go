package services

import (
	"context"

	"github.com/go-while/go-words/internal/models"
)

// LanguageService manages the languages catalogs are written in
type LanguageService struct {
	store    Store
	listings catalogListings
}

type LanguageInput struct {
	Name string `json:"name"`
}

func (s *LanguageService) Get(ctx context.Context, id int64) (*models.Language, error) {
	return s.store.GetLanguageByID(ctx, id)
}

func (s *LanguageService) List(ctx context.Context) ([]*models.Language, error) {
	return s.store.ListLanguages(ctx)
}

func (s *LanguageService) Create(ctx context.Context, in LanguageInput) (*models.Language, error) {
	name, err := checkName("name", in.Name)
	if err != nil {
		return nil, err
	}
	return s.store.InsertLanguage(ctx, name)
}

func (s *LanguageService) Update(ctx context.Context, id int64, in LanguageInput) (*models.Language, error) {
	name, err := checkName("name", in.Name)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateLanguage(ctx, id, name)
	s.listings.invalidate(err)
	return updated, err
}

func (s *LanguageService) Delete(ctx context.Context, id int64) error {
	err := s.store.DeleteLanguage(ctx, id)
	s.listings.invalidate(err)
	return err
}
