package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/recommend"
)

// RecommendationsResponse represents a page of similar-content suggestions
type RecommendationsResponse struct {
	Total int                        `json:"total"`
	Page  int                        `json:"page"`
	Items []recommend.Recommendation `json:"items"`
}

// RecommendHandler handles recommendation API requests
type RecommendHandler struct {
	service *recommend.Service
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(service *recommend.Service) *RecommendHandler {
	return &RecommendHandler{service: service}
}

// ForContent handles GET /recommendations/:content_id
func (h *RecommendHandler) ForContent(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("content_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid content ID format"})
		return
	}

	page, pageSize := pagination(c, recommend.DefaultPageSize)

	total, items, err := h.service.ForContent(c.Request.Context(), contentID, page, pageSize)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("content_id", contentID.String()).
			Msg("Failed to load recommendations")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to load recommendations"})
		return
	}

	c.JSON(http.StatusOK, RecommendationsResponse{Total: total, Page: page, Items: items})
}

// SetupRecommendRoutes registers recommendation routes
func SetupRecommendRoutes(apiGroup *gin.RouterGroup, service *recommend.Service) {
	handler := NewRecommendHandler(service)

	apiGroup.GET("/recommendations/:content_id", handler.ForContent)
}
