package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyview-tv/skyview/internal/catalog"
	"github.com/skyview-tv/skyview/internal/models"
	"github.com/skyview-tv/skyview/internal/recommend"
)

func TestRecommendations_ForContent(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()

	service := recommend.NewService(repos, catalog.NewResolver(repos))
	router, apiGroup := newTestRouter()
	SetupRecommendRoutes(apiGroup, service)

	ctx := context.Background()
	seed := models.NewMovie(1, "Alien")
	require.NoError(t, repos.Movies.Create(ctx, seed))
	similar := models.NewMovie(2, "Aliens")
	require.NoError(t, repos.Movies.Create(ctx, similar))

	require.NoError(t, repos.Similarities.Create(ctx, &models.ContentSimilarity{
		ID:                 uuid.New(),
		ContentID:          seed.ID,
		SimilarContentID:   similar.ID,
		SimilarContentType: models.ContentTypeMovie,
		SimilarityScore:    0.92,
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/recommendations/"+seed.ID.String(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp RecommendationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Aliens", resp.Items[0].Name)
	assert.InDelta(t, 0.92, resp.Items[0].Score, 1e-9)
}

func TestRecommendations_UnknownSeedIsEmpty(t *testing.T) {
	_, repos, cleanup := setupTestDB(t)
	defer cleanup()

	service := recommend.NewService(repos, catalog.NewResolver(repos))
	router, apiGroup := newTestRouter()
	SetupRecommendRoutes(apiGroup, service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/recommendations/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp RecommendationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Total)
}
