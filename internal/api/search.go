package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/models"
	"github.com/skyview-tv/skyview/internal/search"
)

// SearchResponse represents a search result set
type SearchResponse struct {
	Total int             `json:"total"`
	Items []search.Result `json:"items"`
}

// SearchHistoryListResponse represents a user's search log
type SearchHistoryListResponse struct {
	Total   int                     `json:"total"`
	History []*models.SearchHistory `json:"history"`
}

// SearchHandler handles search API requests
type SearchHandler struct {
	service *search.Service
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service *search.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search handles GET /search
func (h *SearchHandler) Search(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid user ID format"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	results, err := h.service.Search(c.Request.Context(), userID, c.Query("q"), limit)
	if err != nil {
		if search.IsBlankQuery(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "blank_query", Message: "Search query must not be blank"})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Search failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "search_failed", Message: "Search failed"})
		return
	}

	c.JSON(http.StatusOK, SearchResponse{Total: len(results), Items: results})
}

// History handles GET /search/history/:user_id
func (h *SearchHandler) History(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid user ID format"})
		return
	}

	entries, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to list search history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to list search history"})
		return
	}

	c.JSON(http.StatusOK, SearchHistoryListResponse{Total: len(entries), History: entries})
}

// DeleteHistoryEntry handles DELETE /search/history/:user_id/:id
func (h *SearchHandler) DeleteHistoryEntry(c *gin.Context) {
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

	if err := h.service.DeleteHistoryEntry(c.Request.Context(), userID, entryID); err != nil {
		if search.IsEntryNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Search history entry not found"})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("entry_id", entryID.String()).
			Msg("Failed to delete search history entry")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "delete_failed", Message: "Failed to delete search history entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ClearHistory handles DELETE /search/history/:user_id
func (h *SearchHandler) ClearHistory(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Invalid user ID format"})
		return
	}

	count, err := h.service.ClearHistory(c.Request.Context(), userID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Msg("Failed to clear search history")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "delete_failed", Message: "Failed to clear search history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared", "deleted": count})
}

// SetupSearchRoutes registers search routes
func SetupSearchRoutes(apiGroup *gin.RouterGroup, service *search.Service) {
	handler := NewSearchHandler(service)

	apiGroup.GET("/search", handler.Search)
	apiGroup.GET("/search/history/:user_id", handler.History)
	apiGroup.DELETE("/search/history/:user_id/:id", handler.DeleteHistoryEntry)
	apiGroup.DELETE("/search/history/:user_id", handler.ClearHistory)
}
