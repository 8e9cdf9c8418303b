package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyview-tv/skyview/internal/db"
	"github.com/skyview-tv/skyview/internal/models"
)

func seedUnplayableMovie(t *testing.T, repos *db.Repositories, name string) *models.Movie {
	t.Helper()
	nextStreamID++
	movie := models.NewMovie(nextStreamID, name)
	require.NoError(t, repos.Movies.Create(context.Background(), movie))
	return movie
}

func seedCompleteSeries(t *testing.T, repos *db.Repositories, name string) *models.Series {
	t.Helper()
	nextStreamID++
	series := models.NewSeries(nextStreamID, name)
	series.Cover = strPtr("http://img/" + name + ".png")
	series.Seasons = []models.Season{
		{
			ID:           uuid.New(),
			SeasonNumber: 1,
			Episodes: []models.Episode{
				{ID: uuid.New(), EpisodeNum: 1, Title: name + " S01E01", StreamID: nextStreamID, StreamURL: "http://stream/ep1.mp4"},
			},
		},
	}
	require.NoError(t, repos.Series.Create(context.Background(), series))
	return series
}

func TestFetchMovies_EmptyCatalog(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	service := NewService(repos)

	_, err := service.FetchMovies(context.Background())

	require.Error(t, err)
	assert.True(t, IsNoContent(err))
}

func TestFetchMovies_OnlyPlayable(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	service := NewService(repos)
	playable := seedMovie(t, repos, "Alien")
	seedUnplayableMovie(t, repos, "Broken Upload")

	movies, err := service.FetchMovies(context.Background())

	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, playable.ID, movies[0].ID)
}

func TestFetchMovieByID_UnplayableIsNotFound(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	service := NewService(repos)
	movie := seedUnplayableMovie(t, repos, "No Stream")

	_, err := service.FetchMovieByID(context.Background(), movie.ID)

	require.Error(t, err)
	assert.True(t, IsContentNotFound(err))
}

func TestFetchSeries_IncompleteIsHidden(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	service := NewService(repos)
	complete := seedCompleteSeries(t, repos, "Dark")

	nextStreamID++
	bare := models.NewSeries(nextStreamID, "No Cover")
	require.NoError(t, repos.Series.Create(context.Background(), bare))

	series, err := service.FetchSeries(context.Background())

	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, complete.ID, series[0].ID)
	assert.NotEmpty(t, series[0].Seasons)
}

func TestBrowse_FiltersByTypeAndName(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	service := NewService(repos)
	seedMovie(t, repos, "Catfish")
	seedMovie(t, repos, "Dog Day")
	seedCompleteSeries(t, repos, "Cat People")

	total, items, err := service.Browse(context.Background(), models.ContentTypeMovie, "", "cat", 1, 10)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Catfish", items[0].Name())
	assert.Equal(t, models.ContentTypeMovie, items[0].Type)
}

func TestBrowse_AllTypesMerged(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	service := NewService(repos)
	seedMovie(t, repos, "Catfish")
	seedCompleteSeries(t, repos, "Cat People")

	total, items, err := service.Browse(context.Background(), "", "", "cat", 1, 10)

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)
}

func TestBrowse_InvalidType(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	service := NewService(repos)

	_, _, err := service.Browse(context.Background(), models.ContentType("podcast"), "", "", 1, 10)

	require.Error(t, err)
	assert.True(t, IsInvalidContentType(err))
}

func TestBrowse_Pagination(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	service := NewService(repos)
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		seedMovie(t, repos, "Movie "+name)
	}

	total, page1, err := service.Browse(context.Background(), models.ContentTypeMovie, "", "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page1, 2)

	_, page3, err := service.Browse(context.Background(), models.ContentTypeMovie, "", "", 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	_, pastEnd, err := service.Browse(context.Background(), models.ContentTypeMovie, "", "", 4, 2)
	require.NoError(t, err)
	assert.Empty(t, pastEnd)
}

func TestDetails_FallsAcrossCollections(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	service := NewService(repos)
	series := seedCompleteSeries(t, repos, "Dark")

	item, err := service.Details(context.Background(), series.ID)

	require.NoError(t, err)
	assert.Equal(t, models.ContentTypeSeries, item.Type)
	assert.Equal(t, "Dark", item.Series.Name)
}

func TestDetails_Unknown(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	service := NewService(repos)

	_, err := service.Details(context.Background(), uuid.New())

	require.Error(t, err)
	assert.True(t, IsContentNotFound(err))
}

func TestFeatured_CapsSelection(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	service := NewService(repos)
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		seedMovie(t, repos, "Movie "+name)
	}

	items, err := service.Featured(context.Background())

	require.NoError(t, err)
	assert.Len(t, items, featuredCount)
}

func TestTrending_IncludesChannels(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	service := NewService(repos)
	seedMovie(t, repos, "Alien")

	nextStreamID++
	channel := models.NewLiveChannel(nextStreamID, "News 24")
	require.NoError(t, repos.Channels.Create(context.Background(), channel))

	total, items, err := service.Trending(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)
}

func TestCategories_KeyedByKind(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	service := NewService(repos)
	category := models.NewCategory(models.ContentTypeMovie, "7", "Action")
	require.NoError(t, repos.Categories.Upsert(context.Background(), category))

	index, err := service.Categories(context.Background())

	require.NoError(t, err)
	require.Len(t, index["movie"], 1)
	assert.Equal(t, "Action", index["movie"][0].CategoryName)
	assert.Empty(t, index["series"])
}
