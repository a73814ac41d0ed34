package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-while/go-words/internal/models"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	cfg := DefaultDBConfig()
	cfg.DataDir = t.TempDir()
	db, err := OpenDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Shutdown())
	})
	return db
}

func TestOpenDatabase_MigratesOnce(t *testing.T) {
	cfg := DefaultDBConfig()
	cfg.DataDir = t.TempDir()

	db, err := OpenDatabase(cfg)
	require.NoError(t, err)
	applied, err := db.AppliedMigrations()
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_main_words_schema.sql"}, applied)
	require.NoError(t, db.Shutdown())
	assert.True(t, db.IsDBshutdown())

	// reopening must not re-apply anything
	db, err = OpenDatabase(cfg)
	require.NoError(t, err)
	applied, err = db.AppliedMigrations()
	require.NoError(t, err)
	assert.Len(t, applied, 1)
	require.NoError(t, db.Shutdown())
}

func TestParseMigrationFileName(t *testing.T) {
	m, err := parseMigrationFileName("0007_main_add_tags.sql")
	require.NoError(t, err)
	assert.Equal(t, 7, m.Version)
	assert.Equal(t, MigrationTypeMain, m.Type)
	assert.Equal(t, "add_tags", m.Description)

	_, err = parseMigrationFileName("0007_group_add_tags.sql")
	assert.Error(t, err)
	_, err = parseMigrationFileName("broken.sql")
	assert.Error(t, err)
	_, err = parseMigrationFileName("0001_main_x.txt")
	assert.Error(t, err)
}

func TestUsers(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	u, err := db.InsertUser(ctx, "my_name", "my_password")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "my_name", u.Name)
	assert.NotEqual(t, "my_password", u.Password, "password must be stored hashed")

	_, err = db.InsertUser(ctx, "my_name", "other")
	assert.ErrorIs(t, err, models.ErrConflict)

	got, err := db.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Name, got.Name)

	_, err = db.GetUserByID(ctx, u.ID+1000)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = db.VerifyUserPassword(ctx, "my_name", "my_password")
	assert.NoError(t, err)
	_, err = db.VerifyUserPassword(ctx, "my_name", "wrong")
	assert.Error(t, err)

	newName := "new_hah"
	newPassword := "bad)password"
	updated, err := db.UpdateUser(ctx, u.ID, &newName, &newPassword)
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	_, err = db.VerifyUserPassword(ctx, newName, newPassword)
	assert.NoError(t, err)

	_, err = db.UpdateUser(ctx, 99999, &newName, nil)
	assert.ErrorIs(t, err, models.ErrNotFound)

	other, err := db.InsertUser(ctx, "other", "pw")
	require.NoError(t, err)
	_, err = db.UpdateUser(ctx, other.ID, &newName, nil)
	assert.ErrorIs(t, err, models.ErrConflict)

	users, err := db.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, db.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, db.DeleteUser(ctx, u.ID), models.ErrNotFound)
}

func TestCatalogsAndWords(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	user, err := db.InsertUser(ctx, "reader", "secret")
	require.NoError(t, err)
	lang, err := db.InsertLanguage(ctx, "English")
	require.NoError(t, err)
	_, err = db.InsertLanguage(ctx, "English")
	assert.ErrorIs(t, err, models.ErrConflict)

	cat, err := db.InsertCatalog(ctx, &models.Catalog{LanguageID: lang.ID, UserID: user.ID, Name: "basics"})
	require.NoError(t, err)
	assert.Equal(t, "English", cat.Language.Name)
	assert.False(t, cat.Date.IsZero(), "date defaults to today")

	_, err = db.InsertCatalog(ctx, &models.Catalog{LanguageID: 4242, UserID: user.ID, Name: "orphan"})
	assert.ErrorIs(t, err, models.ErrInvalid)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	word, err := db.InsertWord(ctx, &models.Word{CatalogID: cat.ID, Name: "apple", Pronunciation: "ˈæp.əl", Value: "Apfel", Date: models.NewDate(day)})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", word.Date.Format(models.DateLayout))

	_, err = db.InsertWord(ctx, &models.Word{CatalogID: cat.ID, Name: "apple"})
	assert.ErrorIs(t, err, models.ErrConflict)

	word.Value = "der Apfel"
	word, err = db.UpdateWord(ctx, word)
	require.NoError(t, err)
	assert.Equal(t, "der Apfel", word.Value)

	words, err := db.ListWords(ctx, cat.ID)
	require.NoError(t, err)
	assert.Len(t, words, 1)

	catalogs, err := db.ListCatalogs(ctx, models.CatalogFilter{LanguageID: lang.ID})
	require.NoError(t, err)
	assert.Len(t, catalogs, 1)
	catalogs, err = db.ListCatalogs(ctx, models.CatalogFilter{UserID: user.ID + 1})
	require.NoError(t, err)
	assert.Empty(t, catalogs)

	// a language in use cannot be removed
	assert.ErrorIs(t, db.DeleteLanguage(ctx, lang.ID), models.ErrConflict)

	// deleting the user cascades to catalogs and words
	require.NoError(t, db.DeleteUser(ctx, user.ID))
	_, err = db.GetCatalogByID(ctx, cat.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = db.GetWordByID(ctx, word.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, db.DeleteLanguage(ctx, lang.ID))
}

func TestCheckDatabaseConsistency(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	u, err := db.InsertUser(ctx, "alice", "pw")
	require.NoError(t, err)
	lang, err := db.InsertLanguage(ctx, "english")
	require.NoError(t, err)
	_, err = db.InsertCatalog(ctx, &models.Catalog{LanguageID: lang.ID, UserID: u.ID, Name: "basics"})
	require.NoError(t, err)

	report, err := db.CheckDatabaseConsistency(ctx)
	require.NoError(t, err)
	assert.False(t, report.HasInconsistencies, "%+v", report)
	assert.Equal(t, int64(1), report.UserCount)
	assert.Equal(t, int64(1), report.LanguageCount)
	assert.Equal(t, int64(1), report.CatalogCount)
	assert.Equal(t, int64(0), report.WordCount)
	assert.Equal(t, []string{"0001_main_words_schema.sql"}, report.Migrations)

	require.NoError(t, db.Vacuum(ctx))

	require.NoError(t, db.Shutdown())
	_, err = db.CheckDatabaseConsistency(ctx)
	assert.Error(t, err)
}
