package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skyview-tv/skyview/internal/favorites"
	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/models"
)

// ToggleFavoriteRequest represents a request to toggle a favorite
type ToggleFavoriteRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	ContentID   string `json:"content_id" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// ToggleFavoriteResponse reports which way the toggle went
type ToggleFavoriteResponse struct {
	Status     string `json:"status"`
	IsFavorite bool   `json:"is_favorite"`
}

// FavoriteListResponse represents a user's favorites
type FavoriteListResponse struct {
	Total     int               `json:"total"`
	Favorites []favorites.Entry `json:"favorites"`
}

// FavoritesHandler handles favorite-related API requests
type FavoritesHandler struct {
	service *favorites.Service
}

// NewFavoritesHandler creates a new favorites handler
func NewFavoritesHandler(service *favorites.Service) *FavoritesHandler {
	return &FavoritesHandler{service: service}
}

// Toggle handles PUT /favorites/toggle
func (h *FavoritesHandler) Toggle(c *gin.Context) {
	var req ToggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid user ID format"})
		return
	}
	contentID, err := uuid.Parse(req.ContentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid content ID format"})
		return
	}

	action, err := h.service.Toggle(c.Request.Context(), userID, contentID, models.ContentType(req.ContentType))
	if err != nil {
		if favorites.IsInvalidContentType(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_type",
				Message: "content_type must be movie, series, or live_channel",
			})
			return
		}
		if favorites.IsContentNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Content not found"})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("user_id", req.UserID).
			Str("content_id", req.ContentID).
			Msg("Failed to toggle favorite")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "toggle_failed", Message: "Failed to toggle favorite"})
		return
	}

	c.JSON(http.StatusOK, ToggleFavoriteResponse{
		Status:     string(action),
		IsFavorite: action == favorites.ActionAdded,
	})
}

// List handles GET /favorites/:user_id/content
func (h *FavoritesHandler) List(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid user ID format"})
		return
	}

	contentType := models.ContentType(c.Query("content_type"))

	entries, err := h.service.List(c.Request.Context(), userID, contentType)
	if err != nil {
		if favorites.IsInvalidContentType(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_type",
				Message: "content_type must be movie, series, or live_channel",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to list favorites")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to list favorites"})
		return
	}

	c.JSON(http.StatusOK, FavoriteListResponse{Total: len(entries), Favorites: entries})
}

// SetupFavoritesRoutes registers favorite-related routes
func SetupFavoritesRoutes(apiGroup *gin.RouterGroup, service *favorites.Service) {
	handler := NewFavoritesHandler(service)

	apiGroup.PUT("/favorites/toggle", handler.Toggle)
	apiGroup.GET("/favorites/:user_id/content", handler.List)
}
