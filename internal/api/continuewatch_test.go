package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyview-tv/skyview/internal/catalog"
	"github.com/skyview-tv/skyview/internal/continuewatch"
	"github.com/skyview-tv/skyview/internal/db"
	"github.com/skyview-tv/skyview/internal/models"
)

func setupContinueTestRouter(t *testing.T) (*gin.Engine, *db.Repositories, func()) {
	_, repos, cleanup := setupTestDB(t)
	service := continuewatch.NewService(repos, catalog.NewResolver(repos))

	router, apiGroup := newTestRouter()
	SetupContinueWatchingRoutes(apiGroup, service)
	return router, repos, cleanup
}

func saveProgress(t *testing.T, router *gin.Engine, userID, contentID uuid.UUID, contentType string, progress, duration float64) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(SaveProgressRequest{
		UserID:      userID.String(),
		ContentID:   contentID.String(),
		ContentType: contentType,
		Progress:    &progress,
		Duration:    &duration,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/continue/save", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSaveProgress_SavedThenListed(t *testing.T) {
	router, repos, cleanup := setupContinueTestRouter(t)
	defer cleanup()

	movie := models.NewMovie(1, "Blade Runner")
	movie.StreamIcon = strPtr("http://img/br.png")
	require.NoError(t, repos.Movies.Create(context.Background(), movie))

	userID := uuid.New()

	w := saveProgress(t, router, userID, movie.ID, "movie", 1200, 6000)
	require.Equal(t, http.StatusOK, w.Code)
	var resp SaveProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "saved", resp.Status)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/continue/%s", userID), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var listed ContinueWatchingListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Equal(t, 1, listed.Total)
	assert.Equal(t, "Blade Runner", listed.Items[0].Name)
	assert.Equal(t, float64(1200), listed.Items[0].Progress)
	assert.Equal(t, float64(6000), listed.Items[0].Duration)
}

func TestSaveProgress_CompletionRemoves(t *testing.T) {
	router, repos, cleanup := setupContinueTestRouter(t)
	defer cleanup()

	movie := models.NewMovie(2, "Finished Film")
	require.NoError(t, repos.Movies.Create(context.Background(), movie))

	userID := uuid.New()

	w := saveProgress(t, router, userID, movie.ID, "movie", 1000, 6000)
	require.Equal(t, http.StatusOK, w.Code)

	w = saveProgress(t, router, userID, movie.ID, "movie", 5900, 6000)
	require.Equal(t, http.StatusOK, w.Code)
	var resp SaveProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "removed_from_continue", resp.Status)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/continue/%s", userID), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var listed ContinueWatchingListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Zero(t, listed.Total)
}

func TestSaveProgress_UnknownContent(t *testing.T) {
	router, _, cleanup := setupContinueTestRouter(t)
	defer cleanup()

	// Nothing seeded, so the content ID cannot resolve
	w := saveProgress(t, router, uuid.New(), uuid.New(), "movie", 1200, 6000)

	require.Equal(t, http.StatusNotFound, w.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "not_found", errResp.Error)
}

func TestSaveProgress_MissingDuration(t *testing.T) {
	router, _, cleanup := setupContinueTestRouter(t)
	defer cleanup()

	body := []byte(fmt.Sprintf(`{"user_id":%q,"content_id":%q,"content_type":"movie","progress":10}`,
		uuid.NewString(), uuid.NewString()))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/continue/save", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveContinueWatching_Unknown(t *testing.T) {
	router, _, cleanup := setupContinueTestRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/continue/%s/%s", uuid.New(), uuid.New()), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "not_found", errResp.Error)
}
