package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-while/go-words/internal/cache"
	"github.com/go-while/go-words/internal/database"
	"github.com/go-while/go-words/internal/models"
	"github.com/go-while/go-words/internal/services"
)

func newTestServices(t *testing.T) *services.Services {
	t.Helper()
	cfg := database.DefaultDBConfig()
	cfg.DataDir = t.TempDir()
	db, err := database.OpenDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Shutdown() })
	return services.New(db, "1.2.3")
}

func strp(s string) *string { return &s }

func TestNormalizeName(t *testing.T) {
	// "é" as e + combining acute accent becomes the single composed rune
	assert.Equal(t, "caf\u00e9", services.NormalizeName("  cafe\u0301 "))
}

func TestUserService_CreateValidation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Users.Create(ctx, services.UserInput{Password: strp("my_password")})
	assert.ErrorIs(t, err, services.ErrInvalid, "missing name")

	_, err = svc.Users.Create(ctx, services.UserInput{Name: strp("my_name")})
	assert.ErrorIs(t, err, services.ErrInvalid, "missing password")

	_, err = svc.Users.Create(ctx, services.UserInput{Name: strp("   "), Password: strp("pw")})
	assert.ErrorIs(t, err, services.ErrInvalid, "blank name")

	u, err := svc.Users.Create(ctx, services.UserInput{Name: strp("my_name"), Password: strp("my_password")})
	require.NoError(t, err)
	assert.Equal(t, "my_name", u.Name)

	_, err = svc.Users.Create(ctx, services.UserInput{Name: strp("my_name"), Password: strp("my_password")})
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestUserService_Update(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	u, err := svc.Users.Create(ctx, services.UserInput{Name: strp("a"), Password: strp("b")})
	require.NoError(t, err)

	_, err = svc.Users.Update(ctx, u.ID, services.UserInput{})
	assert.ErrorIs(t, err, services.ErrInvalid)

	_, err = svc.Users.Update(ctx, 1000, services.UserInput{Name: strp("x")})
	assert.ErrorIs(t, err, services.ErrNotFound)

	u, err = svc.Users.Update(ctx, u.ID, services.UserInput{Name: strp("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", u.Name)
}

func TestCatalogAndWordServices(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	u, err := svc.Users.Create(ctx, services.UserInput{Name: strp("owner"), Password: strp("pw")})
	require.NoError(t, err)
	lang, err := svc.Languages.Create(ctx, services.LanguageInput{Name: "Deutsch"})
	require.NoError(t, err)

	_, err = svc.Catalogs.Create(ctx, services.CatalogInput{LanguageID: lang.ID, Name: "no owner"})
	assert.ErrorIs(t, err, services.ErrInvalid)
	_, err = svc.Catalogs.Create(ctx, services.CatalogInput{LanguageID: lang.ID, UserID: u.ID, Name: "x", Date: "yesterday"})
	assert.ErrorIs(t, err, services.ErrInvalid)

	cat, err := svc.Catalogs.Create(ctx, services.CatalogInput{LanguageID: lang.ID, UserID: u.ID, Name: "Tiere", Date: "2024-01-31"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", cat.Date.Format("2006-01-02"))

	cat, err = svc.Catalogs.Update(ctx, cat.ID, services.CatalogInput{LanguageID: lang.ID, Name: "Tiere 2"})
	require.NoError(t, err)
	assert.Equal(t, "Tiere 2", cat.Name)
	assert.Equal(t, u.ID, cat.UserID)
	assert.Equal(t, "2024-01-31", cat.Date.Format("2006-01-02"), "empty date keeps the stored one")

	_, err = svc.Words.Create(ctx, services.WordInput{Name: "Hund"})
	assert.ErrorIs(t, err, services.ErrInvalid, "catalog_id required")

	w, err := svc.Words.Create(ctx, services.WordInput{CatalogID: cat.ID, Name: " Hund ", Value: " dog "})
	require.NoError(t, err)
	assert.Equal(t, "Hund", w.Name)
	assert.Equal(t, "dog", w.Value)

	words, err := svc.Words.List(ctx, cat.ID)
	require.NoError(t, err)
	assert.Len(t, words, 1)

	_, err = svc.Words.List(ctx, cat.ID+100)
	assert.ErrorIs(t, err, services.ErrNotFound)

	require.NoError(t, svc.Healthy(ctx))
}

func TestCatalogService_ListingCache(t *testing.T) {
	cfg := database.DefaultDBConfig()
	cfg.DataDir = t.TempDir()
	db, err := database.OpenDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Shutdown() })
	cc := cache.NewCatalogCache(10, time.Minute)
	t.Cleanup(cc.Stop)
	svc := services.New(db, "1.2.3", services.WithCatalogCache(cc))
	ctx := context.Background()

	u, err := svc.Users.Create(ctx, services.UserInput{Name: strp("alice"), Password: strp("pw")})
	require.NoError(t, err)
	lang, err := svc.Languages.Create(ctx, services.LanguageInput{Name: "english"})
	require.NoError(t, err)

	list, err := svc.Catalogs.List(ctx, models.CatalogFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 1, cc.Len())

	_, err = svc.Catalogs.Create(ctx, services.CatalogInput{LanguageID: lang.ID, UserID: u.ID, Name: "basics"})
	require.NoError(t, err)
	assert.Equal(t, 0, cc.Len(), "create clears listings")

	list, err = svc.Catalogs.List(ctx, models.CatalogFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// a failed write keeps the cache
	_, err = svc.Catalogs.Create(ctx, services.CatalogInput{LanguageID: lang.ID, UserID: u.ID, Name: "basics"})
	assert.ErrorIs(t, err, services.ErrConflict)
	assert.Equal(t, 1, cc.Len())

	require.NoError(t, svc.Users.Delete(ctx, u.ID))
	list, err = svc.Catalogs.List(ctx, models.CatalogFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "catalogs of a deleted user are gone")
}

// blockingStore holds the first ListCatalogs after it has read from the
// database, until release is closed.
type blockingStore struct {
	services.Store
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (s *blockingStore) ListCatalogs(ctx context.Context, filter models.CatalogFilter) ([]*models.Catalog, error) {
	list, err := s.Store.ListCatalogs(ctx, filter)
	s.once.Do(func() {
		close(s.entered)
		<-s.release
	})
	return list, err
}

func TestCatalogService_ListingCacheConcurrentWrite(t *testing.T) {
	cfg := database.DefaultDBConfig()
	cfg.DataDir = t.TempDir()
	db, err := database.OpenDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Shutdown() })
	cc := cache.NewCatalogCache(10, time.Minute)
	t.Cleanup(cc.Stop)
	store := &blockingStore{Store: db, entered: make(chan struct{}), release: make(chan struct{})}
	svc := services.New(store, "1.2.3", services.WithCatalogCache(cc))
	ctx := context.Background()

	u, err := svc.Users.Create(ctx, services.UserInput{Name: strp("alice"), Password: strp("pw")})
	require.NoError(t, err)
	lang, err := svc.Languages.Create(ctx, services.LanguageInput{Name: "english"})
	require.NoError(t, err)
	_, err = svc.Catalogs.Create(ctx, services.CatalogInput{LanguageID: lang.ID, UserID: u.ID, Name: "basics"})
	require.NoError(t, err)

	done := make(chan []*models.Catalog)
	go func() {
		list, _ := svc.Catalogs.List(ctx, models.CatalogFilter{})
		done <- list
	}()
	<-store.entered

	_, err = svc.Catalogs.Create(ctx, services.CatalogInput{LanguageID: lang.ID, UserID: u.ID, Name: "animals"})
	require.NoError(t, err)
	close(store.release)
	assert.Len(t, <-done, 1, "in-flight listing was read before the write")
	assert.Equal(t, 0, cc.Len(), "listing read before the write is not cached")

	list, err := svc.Catalogs.List(ctx, models.CatalogFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
