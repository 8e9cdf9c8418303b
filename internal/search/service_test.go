package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyview-tv/skyview/internal/db"
	"github.com/skyview-tv/skyview/internal/models"
)

func setupTestService(t *testing.T) (*Service, *db.Repositories, func()) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(sqlDB, "file://../../migrations"))

	repos := db.NewRepositories(database)
	service := NewService(repos)

	cleanup := func() {
		_ = database.Close()
	}
	return service, repos, cleanup
}

func seedCatalog(t *testing.T, repos *db.Repositories) {
	t.Helper()
	ctx := context.Background()

	movie := models.NewMovie(1, "Catfish")
	require.NoError(t, repos.Movies.Create(ctx, movie))

	movie = models.NewMovie(2, "Dog Day Afternoon")
	require.NoError(t, repos.Movies.Create(ctx, movie))

	series := models.NewSeries(3, "Concatenate")
	require.NoError(t, repos.Series.Create(ctx, series))
}

func TestSearch_BlankQuery(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Search(context.Background(), uuid.New(), "   ", 0)

	require.Error(t, err)
	assert.True(t, IsBlankQuery(err))
}

func TestSearch_SubstringAcrossCollections(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	seedCatalog(t, repos)

	results, err := service.Search(context.Background(), uuid.New(), "cat", 0)

	require.NoError(t, err)
	require.Len(t, results, 2)
	// Sorted by name, case-insensitively
	assert.Equal(t, "Catfish", results[0].Name)
	assert.Equal(t, models.ContentTypeMovie, results[0].Type)
	assert.Equal(t, "Concatenate", results[1].Name)
	assert.Equal(t, models.ContentTypeSeries, results[1].Type)
}

func TestSearch_CaseInsensitive(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	seedCatalog(t, repos)

	results, err := service.Search(context.Background(), uuid.New(), "CATFISH", 0)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Catfish", results[0].Name)
}

func TestSearch_LimitTruncates(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	seedCatalog(t, repos)

	results, err := service.Search(context.Background(), uuid.New(), "cat", 1)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Catfish", results[0].Name)
}

func TestSearch_LimitKeepsAlphabeticallyFirst(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	// Inserted in reverse order so an unordered limit would cut differently
	for i, name := range []string{"Catwoman", "Cats", "Catfish", "Catch-22"} {
		require.NoError(t, repos.Movies.Create(ctx, models.NewMovie(i+1, name)))
	}

	results, err := service.Search(ctx, uuid.New(), "cat", 2)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Catch-22", results[0].Name)
	assert.Equal(t, "Catfish", results[1].Name)
}

func TestSearch_ZeroResultsStillLogged(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userID := uuid.New()

	results, err := service.Search(ctx, userID, "nothing matches this", 0)
	require.NoError(t, err)
	assert.Empty(t, results)

	entries, err := service.History(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "nothing matches this", entries[0].Query)
}

func TestHistory_NewestFirst(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userID := uuid.New()

	for _, q := range []string{"first", "second", "third"} {
		_, err := service.Search(ctx, userID, q, 0)
		require.NoError(t, err)
	}

	entries, err := service.History(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Query)
	assert.Equal(t, "first", entries[2].Query)
}

func TestDeleteHistoryEntry_OwnerOnly(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	owner := uuid.New()

	_, err := service.Search(ctx, owner, "secret query", 0)
	require.NoError(t, err)

	entries, err := service.History(ctx, owner)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Someone else's id must look like a missing entry
	err = service.DeleteHistoryEntry(ctx, uuid.New(), entries[0].ID)
	require.Error(t, err)
	assert.True(t, IsEntryNotFound(err))

	require.NoError(t, service.DeleteHistoryEntry(ctx, owner, entries[0].ID))

	entries, err = service.History(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClearHistory_ReportsCount(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userID := uuid.New()

	for _, q := range []string{"one", "two"} {
		_, err := service.Search(ctx, userID, q, 0)
		require.NoError(t, err)
	}

	count, err := service.ClearHistory(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
