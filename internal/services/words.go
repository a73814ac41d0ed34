package services

import (
	"context"
	"strings"

	"github.com/go-while/go-words/internal/models"
)

// WordService manages vocabulary entries
type WordService struct {
	store Store
}

type WordInput struct {
	CatalogID     int64  `json:"catalog_id"`
	Name          string `json:"name"`
	Pronunciation string `json:"pronunciation"`
	Value         string `json:"value"`
	Date          string `json:"date"`
}

func (in WordInput) toModel() (*models.Word, error) {
	name, err := checkName("name", in.Name)
	if err != nil {
		return nil, err
	}
	if err := checkID("catalog_id", in.CatalogID); err != nil {
		return nil, err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	return &models.Word{
		CatalogID:     in.CatalogID,
		Name:          name,
		Pronunciation: NormalizeName(in.Pronunciation),
		Value:         strings.TrimSpace(in.Value),
		Date:          models.NewDate(date),
	}, nil
}

func (s *WordService) Get(ctx context.Context, id int64) (*models.Word, error) {
	return s.store.GetWordByID(ctx, id)
}

// List returns the words of one catalog, or all words for catalogID 0
func (s *WordService) List(ctx context.Context, catalogID int64) ([]*models.Word, error) {
	if catalogID > 0 {
		if _, err := s.store.GetCatalogByID(ctx, catalogID); err != nil {
			return nil, err
		}
	}
	return s.store.ListWords(ctx, catalogID)
}

func (s *WordService) Create(ctx context.Context, in WordInput) (*models.Word, error) {
	w, err := in.toModel()
	if err != nil {
		return nil, err
	}
	return s.store.InsertWord(ctx, w)
}

func (s *WordService) Update(ctx context.Context, id int64, in WordInput) (*models.Word, error) {
	w, err := in.toModel()
	if err != nil {
		return nil, err
	}
	w.ID = id
	return s.store.UpdateWord(ctx, w)
}

func (s *WordService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteWord(ctx, id)
}
