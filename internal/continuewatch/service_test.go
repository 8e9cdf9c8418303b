package continuewatch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyview-tv/skyview/internal/catalog"
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
	service := NewService(repos, catalog.NewResolver(repos))

	cleanup := func() {
		_ = database.Close()
	}
	return service, repos, cleanup
}

func strPtr(s string) *string {
	return &s
}

func seedMovie(t *testing.T, repos *db.Repositories, streamID int, name string) *models.Movie {
	t.Helper()
	movie := models.NewMovie(streamID, name)
	movie.StreamIcon = strPtr("http://img/" + name + ".png")
	require.NoError(t, repos.Movies.Create(context.Background(), movie))
	return movie
}

func TestSaveProgress_BelowRatioPersists(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userID := uuid.New()
	movie := seedMovie(t, repos, 1, "Alien")

	outcome, err := service.SaveProgress(ctx, userID, movie.ID, models.ContentTypeMovie, 89, 100)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSaved, outcome)

	entries, err := service.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 89.0, entries[0].Progress)
	assert.Equal(t, 100.0, entries[0].Duration)
	assert.Equal(t, "Alien", entries[0].Name)
}

func TestSaveProgress_AtRatioRemoves(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userID := uuid.New()
	movie := seedMovie(t, repos, 1, "Alien")

	_, err := service.SaveProgress(ctx, userID, movie.ID, models.ContentTypeMovie, 50, 100)
	require.NoError(t, err)

	outcome, err := service.SaveProgress(ctx, userID, movie.ID, models.ContentTypeMovie, 90, 100)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRemoved, outcome)

	entries, err := service.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveProgress_CompletedWithNoEntryIsStillRemoved(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	movie := seedMovie(t, repos, 1, "Alien")

	// Nothing saved yet; finishing in one sitting must not fault
	outcome, err := service.SaveProgress(ctx, uuid.New(), movie.ID, models.ContentTypeMovie, 100, 100)

	require.NoError(t, err)
	assert.Equal(t, OutcomeRemoved, outcome)
}

func TestSaveProgress_LiveChannelNeverAutoRemoved(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userID := uuid.New()
	channel := models.NewLiveChannel(1, "News 24")
	channel.StreamIcon = strPtr("http://img/news.png")
	require.NoError(t, repos.Channels.Create(ctx, channel))

	outcome, err := service.SaveProgress(ctx, userID, channel.ID, models.ContentTypeLiveChannel, 5000, 5000)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSaved, outcome)

	entries, err := service.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ContentTypeLiveChannel, entries[0].ContentType)
}

func TestSaveProgress_ZeroDurationPersists(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userID := uuid.New()
	movie := seedMovie(t, repos, 1, "Alien")

	// Duration not yet known; nothing to complete against
	outcome, err := service.SaveProgress(ctx, userID, movie.ID, models.ContentTypeMovie, 42, 0)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSaved, outcome)
}

func TestSaveProgress_UnknownContent(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	// No movie seeded, so the ID cannot resolve
	_, err := service.SaveProgress(context.Background(), uuid.New(), uuid.New(), models.ContentTypeMovie, 10, 100)

	require.Error(t, err)
	assert.True(t, IsContentNotFound(err))
}

func TestSaveProgress_WrongCollection(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	movie := seedMovie(t, repos, 1, "Alien")

	_, err := service.SaveProgress(ctx, uuid.New(), movie.ID, models.ContentTypeSeries, 10, 100)

	require.Error(t, err)
	assert.True(t, IsContentNotFound(err))
}

func TestSaveProgress_NegativeValues(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()

	_, err := service.SaveProgress(ctx, uuid.New(), uuid.New(), models.ContentTypeMovie, -1, 100)
	require.Error(t, err)
	assert.True(t, IsInvalidProgress(err))

	_, err = service.SaveProgress(ctx, uuid.New(), uuid.New(), models.ContentTypeMovie, 1, -100)
	require.Error(t, err)
	assert.True(t, IsInvalidProgress(err))
}

func TestSaveProgress_UpsertsInPlace(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userID := uuid.New()
	movie := seedMovie(t, repos, 1, "Alien")

	_, err := service.SaveProgress(ctx, userID, movie.ID, models.ContentTypeMovie, 10, 100)
	require.NoError(t, err)
	_, err = service.SaveProgress(ctx, userID, movie.ID, models.ContentTypeMovie, 20, 100)
	require.NoError(t, err)

	entries, err := service.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 20.0, entries[0].Progress)
}

func TestList_DropsUnresolvableEntries(t *testing.T) {
	service, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	userID := uuid.New()
	kept := seedMovie(t, repos, 1, "Alien")
	doomed := seedMovie(t, repos, 2, "Gone")

	_, err := service.SaveProgress(ctx, userID, kept.ID, models.ContentTypeMovie, 10, 100)
	require.NoError(t, err)
	_, err = service.SaveProgress(ctx, userID, doomed.ID, models.ContentTypeMovie, 10, 100)
	require.NoError(t, err)

	require.NoError(t, repos.Movies.Delete(ctx, doomed.ID))

	entries, err := service.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, kept.ID, entries[0].ContentID)
}

func TestRemove_Unknown(t *testing.T) {
	service, _, cleanup := setupTestService(t)
	defer cleanup()

	err := service.Remove(context.Background(), uuid.New(), uuid.New())

	require.Error(t, err)
	assert.True(t, IsEntryNotFound(err))
}
