package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skyview-tv/skyview/internal/continuewatch"
	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/models"
)

// SaveProgressRequest represents a request to save playback position
type SaveProgressRequest struct {
	UserID      string   `json:"user_id" binding:"required"`
	ContentID   string   `json:"content_id" binding:"required"`
	ContentType string   `json:"content_type" binding:"required"`
	Progress    *float64 `json:"progress" binding:"required"`
	Duration    *float64 `json:"duration" binding:"required"`
}

// SaveProgressResponse reports whether the entry was saved or removed
type SaveProgressResponse struct {
	Status string `json:"status"`
}

// ContinueWatchingListResponse represents a user's continue-watching rail
type ContinueWatchingListResponse struct {
	Total int                   `json:"total"`
	Items []continuewatch.Entry `json:"items"`
}

// ContinueWatchingHandler handles continue-watching API requests
type ContinueWatchingHandler struct {
	service *continuewatch.Service
}

// NewContinueWatchingHandler creates a new continue-watching handler
func NewContinueWatchingHandler(service *continuewatch.Service) *ContinueWatchingHandler {
	return &ContinueWatchingHandler{service: service}
}

// Save handles POST /continue/save
func (h *ContinueWatchingHandler) Save(c *gin.Context) {
	var req SaveProgressRequest
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

	outcome, err := h.service.SaveProgress(c.Request.Context(), userID, contentID,
		models.ContentType(req.ContentType), *req.Progress, *req.Duration)
	if err != nil {
		if continuewatch.IsInvalidContentType(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_type",
				Message: "content_type must be movie, series, or live_channel",
			})
			return
		}
		if continuewatch.IsInvalidProgress(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_progress",
				Message: "progress and duration must not be negative",
			})
			return
		}
		if continuewatch.IsContentNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Content not found"})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("user_id", req.UserID).
			Str("content_id", req.ContentID).
			Msg("Failed to save progress")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "save_failed", Message: "Failed to save progress"})
		return
	}

	c.JSON(http.StatusOK, SaveProgressResponse{Status: string(outcome)})
}

// List handles GET /continue/:user_id
func (h *ContinueWatchingHandler) List(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid user ID format"})
		return
	}

	entries, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to list continue watching")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to list continue watching"})
		return
	}

	c.JSON(http.StatusOK, ContinueWatchingListResponse{Total: len(entries), Items: entries})
}

// Remove handles DELETE /continue/:user_id/:content_id
func (h *ContinueWatchingHandler) Remove(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid user ID format"})
		return
	}
	contentID, err := uuid.Parse(c.Param("content_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid content ID format"})
		return
	}

	if err := h.service.Remove(c.Request.Context(), userID, contentID); err != nil {
		if continuewatch.IsEntryNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Continue watching entry not found"})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("content_id", contentID.String()).
			Msg("Failed to remove continue watching entry")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "delete_failed", Message: "Failed to remove entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// SetupContinueWatchingRoutes registers continue-watching routes
func SetupContinueWatchingRoutes(apiGroup *gin.RouterGroup, service *continuewatch.Service) {
	handler := NewContinueWatchingHandler(service)

	apiGroup.POST("/continue/save", handler.Save)
	apiGroup.GET("/continue/:user_id", handler.List)
	apiGroup.DELETE("/continue/:user_id/:content_id", handler.Remove)
}
