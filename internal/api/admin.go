package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyview-tv/skyview/internal/auth"
	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/middleware"
	"github.com/skyview-tv/skyview/internal/xtream"
)

// AdminHandler handles administrative API requests
type AdminHandler struct {
	sync *xtream.SyncService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(sync *xtream.SyncService) *AdminHandler {
	return &AdminHandler{sync: sync}
}

// SyncCatalog handles POST /admin/sync. The sync runs inline and can take a
// while on a large upstream; callers should use a generous client timeout.
func (h *AdminHandler) SyncCatalog(c *gin.Context) {
	report, err := h.sync.SyncAll(c.Request.Context())
	if err != nil {
		logger.Log.Error().Err(err).Msg("Catalog sync failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "sync_failed", Message: "Catalog sync failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// SetupAdminRoutes registers administrative routes
func SetupAdminRoutes(apiGroup *gin.RouterGroup, sync *xtream.SyncService, authService *auth.Service) {
	handler := NewAdminHandler(sync)

	authed := apiGroup.Group("")
	authed.Use(middleware.RequireAuth(authService))
	authed.POST("/admin/sync", handler.SyncCatalog)
}
