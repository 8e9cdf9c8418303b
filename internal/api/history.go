package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skyview-tv/skyview/internal/history"
	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/models"
)

// RecordWatchRequest represents a request to record a watch. Duration is
// optional; live channels have none.
type RecordWatchRequest struct {
	UserID      string   `json:"user_id" binding:"required"`
	ContentID   string   `json:"content_id" binding:"required"`
	ContentType string   `json:"content_type" binding:"required"`
	Progress    *float64 `json:"progress" binding:"required"`
	Duration    float64  `json:"duration,omitempty"`
}

// RecordWatchResponse reports whether the watch entered history
type RecordWatchResponse struct {
	Status string `json:"status"`
}

// WatchHistoryListResponse represents a user's watch history
type WatchHistoryListResponse struct {
	Total   int             `json:"total"`
	History []history.Entry `json:"history"`
}

// HistoryHandler handles watch history API requests
type HistoryHandler struct {
	service *history.Service
}

// NewHistoryHandler creates a new watch history handler
func NewHistoryHandler(service *history.Service) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// Record handles POST /watch-history
func (h *HistoryHandler) Record(c *gin.Context) {
	var req RecordWatchRequest
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

	status, err := h.service.Record(c.Request.Context(), userID, contentID,
		models.ContentType(req.ContentType), *req.Progress, req.Duration)
	if err != nil {
		if history.IsInvalidContentType(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_type",
				Message: "content_type must be movie, series, or live_channel",
			})
			return
		}
		if history.IsInvalidProgress(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_progress",
				Message: "progress and duration must not be negative",
			})
			return
		}
		if history.IsContentNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Content not found"})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("user_id", req.UserID).
			Str("content_id", req.ContentID).
			Msg("Failed to record watch")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "record_failed", Message: "Failed to record watch"})
		return
	}

	c.JSON(http.StatusOK, RecordWatchResponse{Status: string(status)})
}

// List handles GET /watch-history/:user_id
func (h *HistoryHandler) List(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid user ID format"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	records, err := h.service.List(c.Request.Context(), userID, limit)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to list watch history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to list watch history"})
		return
	}

	c.JSON(http.StatusOK, WatchHistoryListResponse{Total: len(records), History: records})
}

// Delete handles DELETE /watch-history/:user_id/:id
func (h *HistoryHandler) Delete(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid user ID format"})
		return
	}
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid entry ID format"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, entryID); err != nil {
		if history.IsEntryNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "History entry not found"})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("entry_id", entryID.String()).
			Msg("Failed to delete watch history entry")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "delete_failed", Message: "Failed to delete history entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Clear handles DELETE /watch-history/:user_id
func (h *HistoryHandler) Clear(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid user ID format"})
		return
	}

	count, err := h.service.Clear(c.Request.Context(), userID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to clear watch history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "delete_failed", Message: "Failed to clear watch history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared", "deleted": count})
}

// SetupHistoryRoutes registers watch history routes
func SetupHistoryRoutes(apiGroup *gin.RouterGroup, service *history.Service) {
	handler := NewHistoryHandler(service)

	apiGroup.POST("/watch-history", handler.Record)
	apiGroup.GET("/watch-history/:user_id", handler.List)
	apiGroup.DELETE("/watch-history/:user_id/:id", handler.Delete)
	apiGroup.DELETE("/watch-history/:user_id", handler.Clear)
}
