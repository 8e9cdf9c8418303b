package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyview-tv/skyview/internal/catalog"
	"github.com/skyview-tv/skyview/internal/db"
	"github.com/skyview-tv/skyview/internal/models"
)

func setupCatalogTestRouter(t *testing.T) (*gin.Engine, *db.Repositories, func()) {
	_, repos, cleanup := setupTestDB(t)
	service := catalog.NewService(repos)

	router, apiGroup := newTestRouter()
	SetupCatalogRoutes(apiGroup, service)
	return router, repos, cleanup
}

func seedPlayableMovie(t *testing.T, repos *db.Repositories, streamID int, name string) *models.Movie {
	t.Helper()
	movie := models.NewMovie(streamID, name)
	movie.StreamIcon = strPtr("http://img/" + name + ".png")
	movie.StreamURL = strPtr("http://stream/" + name + ".mkv")
	movie.ContainerExtension = strPtr(db.MovieContainerExtension)
	require.NoError(t, repos.Movies.Create(context.Background(), movie))
	return movie
}

func TestFetchMovies_EmptyIs404(t *testing.T) {
	router, _, cleanup := setupCatalogTestRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/movies/fetch", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "no_content", errResp.Error)
}

func TestFetchMovies_OnlyPlayable(t *testing.T) {
	router, repos, cleanup := setupCatalogTestRouter(t)
	defer cleanup()

	seedPlayableMovie(t, repos, 1, "Heat")

	// no stream URL, filtered out of the fetch endpoints
	broken := models.NewMovie(2, "Broken")
	require.NoError(t, repos.Movies.Create(context.Background(), broken))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/movies/fetch", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var listed MovieListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Equal(t, 1, listed.Total)
	assert.Equal(t, "Heat", listed.Movies[0].Name)
}

func TestFetchMovieByID_BadID(t *testing.T) {
	router, _, cleanup := setupCatalogTestRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/movies/fetch/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "invalid_id", errResp.Error)
}

func TestBrowse_PaginatesMovies(t *testing.T) {
	router, repos, cleanup := setupCatalogTestRouter(t)
	defer cleanup()

	for i := 1; i <= 5; i++ {
		seedPlayableMovie(t, repos, i, fmt.Sprintf("Movie %02d", i))
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/catalog/browse?type=movie&page=2&page_size=2", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp BrowseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 2, resp.PageSize)
	require.Len(t, resp.Items, 2)
	require.NotNil(t, resp.Items[0].Movie)
	assert.Equal(t, "Movie 03", resp.Items[0].Movie.Name)
}

func TestBrowse_InvalidType(t *testing.T) {
	router, _, cleanup := setupCatalogTestRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/catalog/browse?type=podcast", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "invalid_type", errResp.Error)
}

func TestDetails_FindsMovie(t *testing.T) {
	router, repos, cleanup := setupCatalogTestRouter(t)
	defer cleanup()

	movie := seedPlayableMovie(t, repos, 1, "Heat")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/catalog/details/"+movie.ID.String(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var item catalog.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, models.ContentTypeMovie, item.Type)
	require.NotNil(t, item.Movie)
	assert.Equal(t, "Heat", item.Movie.Name)
}
