// Package services holds the validation and normalization rules of go-words.
// Controllers call services, services call the database.
package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/go-while/go-words/internal/cache"
	"github.com/go-while/go-words/internal/models"
)

// Re-exported so callers only need this package to classify errors.
var (
	ErrInvalid  = models.ErrInvalid
	ErrNotFound = models.ErrNotFound
	ErrConflict = models.ErrConflict
)

const MaxNameLength = 255

// Store is the persistence the services need. *database.Database implements it.
type Store interface {
	Ping(ctx context.Context) error

	InsertUser(ctx context.Context, name, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id int64, name, password *string) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error

	InsertLanguage(ctx context.Context, name string) (*models.Language, error)
	GetLanguageByID(ctx context.Context, id int64) (*models.Language, error)
	ListLanguages(ctx context.Context) ([]*models.Language, error)
	UpdateLanguage(ctx context.Context, id int64, name string) (*models.Language, error)
	DeleteLanguage(ctx context.Context, id int64) error

	InsertCatalog(ctx context.Context, c *models.Catalog) (*models.Catalog, error)
	GetCatalogByID(ctx context.Context, id int64) (*models.Catalog, error)
	ListCatalogs(ctx context.Context, filter models.CatalogFilter) ([]*models.Catalog, error)
	UpdateCatalog(ctx context.Context, c *models.Catalog) (*models.Catalog, error)
	DeleteCatalog(ctx context.Context, id int64) error

	InsertWord(ctx context.Context, w *models.Word) (*models.Word, error)
	GetWordByID(ctx context.Context, id int64) (*models.Word, error)
	ListWords(ctx context.Context, catalogID int64) ([]*models.Word, error)
	UpdateWord(ctx context.Context, w *models.Word) (*models.Word, error)
	DeleteWord(ctx context.Context, id int64) error
}

// Services bundles the per-entity services and the version value
type Services struct {
	Version   string
	Users     *UserService
	Languages *LanguageService
	Catalogs  *CatalogService
	Words     *WordService

	store Store
}

// Option configures New
type Option func(*options)

type options struct {
	catalogCache *cache.CatalogCache
}

// WithCatalogCache serves catalog listings from cc and clears it on every
// write that can change a listing
func WithCatalogCache(cc *cache.CatalogCache) Option {
	return func(o *options) { o.catalogCache = cc }
}

// New wires all services onto one store
func New(store Store, version string, opts ...Option) *Services {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	listings := catalogListings{cache: o.catalogCache}
	return &Services{
		Version:   version,
		Users:     &UserService{store: store, listings: listings},
		Languages: &LanguageService{store: store, listings: listings},
		Catalogs:  &CatalogService{store: store, listings: listings},
		Words:     &WordService{store: store},
		store:     store,
	}
}

// catalogListings is the optional catalog cache; the zero value disables it
type catalogListings struct {
	cache *cache.CatalogCache
}

func (l catalogListings) get(filter models.CatalogFilter) ([]*models.Catalog, bool) {
	if l.cache == nil {
		return nil, false
	}
	return l.cache.Get(filter)
}

// generation is taken before a listing is read from the store
func (l catalogListings) generation() uint64 {
	if l.cache == nil {
		return 0
	}
	return l.cache.Generation()
}

// set caches a listing read at gen, unless a write cleared the cache meanwhile
func (l catalogListings) set(gen uint64, filter models.CatalogFilter, catalogs []*models.Catalog) {
	if l.cache != nil {
		l.cache.SetIfGeneration(gen, filter, catalogs)
	}
}

// invalidate clears the cache after a successful write
func (l catalogListings) invalidate(err error) {
	if err == nil && l.cache != nil {
		l.cache.Clear()
	}
}

// Healthy reports whether the backing store answers
func (s *Services) Healthy(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// NormalizeName trims and NFC-normalizes a name so composed and decomposed
// spellings hit the same unique index.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// checkName normalizes name and rejects empty or oversized values
func checkName(field, name string) (string, error) {
	name = NormalizeName(name)
	if name == "" {
		return "", fmt.Errorf("%s is required: %w", field, ErrInvalid)
	}
	if len(name) > MaxNameLength {
		return "", fmt.Errorf("%s longer than %d bytes: %w", field, MaxNameLength, ErrInvalid)
	}
	return name, nil
}

func checkID(field string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%s is required: %w", field, ErrInvalid)
	}
	return nil
}
