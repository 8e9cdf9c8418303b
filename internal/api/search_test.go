package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyview-tv/skyview/internal/db"
	"github.com/skyview-tv/skyview/internal/models"
	"github.com/skyview-tv/skyview/internal/search"
)

func setupSearchTestRouter(t *testing.T) (*gin.Engine, *db.Repositories, func()) {
	_, repos, cleanup := setupTestDB(t)
	service := search.NewService(repos)

	router, apiGroup := newTestRouter()
	SetupSearchRoutes(apiGroup, service)
	return router, repos, cleanup
}

func TestSearch_AcrossCollections(t *testing.T) {
	router, repos, cleanup := setupSearchTestRouter(t)
	defer cleanup()

	ctx := context.Background()
	movie := models.NewMovie(1, "Catfish")
	require.NoError(t, repos.Movies.Create(ctx, movie))
	series := models.NewSeries(2, "Concatenate")
	require.NoError(t, repos.Series.Create(ctx, series))
	channel := models.NewLiveChannel(3, "News 24")
	require.NoError(t, repos.Channels.Create(ctx, channel))

	userID := uuid.New()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/search?user_id=%s&q=cat", userID), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "Catfish", resp.Items[0].Name)
	assert.Equal(t, models.ContentTypeMovie, resp.Items[0].Type)
	assert.Equal(t, "Concatenate", resp.Items[1].Name)
	assert.Equal(t, models.ContentTypeSeries, resp.Items[1].Type)
}

func TestSearch_BlankQuery(t *testing.T) {
	router, _, cleanup := setupSearchTestRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/search?user_id=%s&q=%s", uuid.New(), url.QueryEscape("   ")), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "blank_query", errResp.Error)
}

func TestSearch_LogsQueryToHistory(t *testing.T) {
	router, _, cleanup := setupSearchTestRouter(t)
	defer cleanup()

	userID := uuid.New()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/search?user_id=%s&q=nothing-matches-this", userID), nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/search/history/%s", userID), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var listed SearchHistoryListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Equal(t, 1, listed.Total)
	assert.Equal(t, "nothing-matches-this", listed.History[0].Query)
}

func TestClearSearchHistory(t *testing.T) {
	router, _, cleanup := setupSearchTestRouter(t)
	defer cleanup()

	userID := uuid.New()
	for _, q := range []string{"one", "two"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			fmt.Sprintf("/api/search?user_id=%s&q=%s", userID, q), nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/search/history/%s", userID), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Status  string `json:"status"`
		Deleted int64  `json:"deleted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cleared", resp.Status)
	assert.Equal(t, int64(2), resp.Deleted)
}
