package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skyview-tv/skyview/internal/catalog"
	"github.com/skyview-tv/skyview/internal/logger"
	"github.com/skyview-tv/skyview/internal/models"
)

// MovieListResponse represents a list of movies
type MovieListResponse struct {
	Total  int             `json:"total"`
	Movies []*models.Movie `json:"movies"`
}

// SeriesListResponse represents a list of series
type SeriesListResponse struct {
	Total  int              `json:"total"`
	Series []*models.Series `json:"series"`
}

// ChannelListResponse represents a list of live channels
type ChannelListResponse struct {
	Total    int                   `json:"total"`
	Channels []*models.LiveChannel `json:"channels"`
}

// BrowseResponse represents a paginated browse result
type BrowseResponse struct {
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Items    []catalog.Item `json:"items"`
}

// CatalogHandler handles catalog browsing and fetch requests
type CatalogHandler struct {
	service *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *catalog.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// parseID validates the :id path parameter, writing a 400 on failure
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid content ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads page/page_size query params with sane bounds
func pagination(c *gin.Context, defaultSize int) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultSize)))
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultSize
	}
	return page, pageSize
}

// FetchMovies handles GET /movies/fetch
func (h *CatalogHandler) FetchMovies(c *gin.Context) {
	movies, err := h.service.FetchMovies(c.Request.Context())
	if err != nil {
		if catalog.IsNoContent(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "no_content", Message: "No movies found"})
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to fetch movies")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to fetch movies"})
		return
	}
	c.JSON(http.StatusOK, MovieListResponse{Total: len(movies), Movies: movies})
}

// FetchMovieByID handles GET /movies/fetch/:id
func (h *CatalogHandler) FetchMovieByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	movie, err := h.service.FetchMovieByID(c.Request.Context(), id)
	if err != nil {
		if catalog.IsContentNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Movie not found"})
			return
		}
		logger.Log.Error().Err(err).Str("movie_id", id.String()).Msg("Failed to fetch movie")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to fetch movie"})
		return
	}
	c.JSON(http.StatusOK, movie)
}

// FeaturedBanner handles GET /movies/featured-banner
func (h *CatalogHandler) FeaturedBanner(c *gin.Context) {
	movies, err := h.service.FeaturedMovieBanner(c.Request.Context())
	if err != nil {
		if catalog.IsNoContent(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "no_content", Message: "No movies found"})
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to fetch banner")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to fetch banner"})
		return
	}
	c.JSON(http.StatusOK, MovieListResponse{Total: len(movies), Movies: movies})
}

// FetchSeries handles GET /series/fetch
func (h *CatalogHandler) FetchSeries(c *gin.Context) {
	series, err := h.service.FetchSeries(c.Request.Context())
	if err != nil {
		if catalog.IsNoContent(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "no_content", Message: "No series found"})
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to fetch series")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to fetch series"})
		return
	}
	c.JSON(http.StatusOK, SeriesListResponse{Total: len(series), Series: series})
}

// FetchSeriesByID handles GET /series/fetch/:id
func (h *CatalogHandler) FetchSeriesByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	series, err := h.service.FetchSeriesByID(c.Request.Context(), id)
	if err != nil {
		if catalog.IsContentNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Series not found"})
			return
		}
		logger.Log.Error().Err(err).Str("series_id", id.String()).Msg("Failed to fetch series")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to fetch series"})
		return
	}
	c.JSON(http.StatusOK, series)
}

// FetchChannels handles GET /channels/fetch
func (h *CatalogHandler) FetchChannels(c *gin.Context) {
	channels, err := h.service.FetchChannels(c.Request.Context())
	if err != nil {
		if catalog.IsNoContent(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "no_content", Message: "No channels found"})
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to fetch channels")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to fetch channels"})
		return
	}
	c.JSON(http.StatusOK, ChannelListResponse{Total: len(channels), Channels: channels})
}

// FetchChannelByID handles GET /channels/fetch/:id
func (h *CatalogHandler) FetchChannelByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	channel, err := h.service.FetchChannelByID(c.Request.Context(), id)
	if err != nil {
		if catalog.IsContentNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Channel not found"})
			return
		}
		logger.Log.Error().Err(err).Str("channel_id", id.String()).Msg("Failed to fetch channel")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to fetch channel"})
		return
	}
	c.JSON(http.StatusOK, channel)
}

// Browse handles GET /catalog/browse
func (h *CatalogHandler) Browse(c *gin.Context) {
	contentType := models.ContentType(c.Query("type"))
	page, pageSize := pagination(c, 24)

	total, items, err := h.service.Browse(c.Request.Context(), contentType, c.Query("genre"), c.Query("q"), page, pageSize)
	if err != nil {
		if catalog.IsInvalidContentType(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_type", Message: "type must be movie, series, or live_channel"})
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to browse catalog")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to browse catalog"})
		return
	}
	c.JSON(http.StatusOK, BrowseResponse{Total: total, Page: page, PageSize: pageSize, Items: items})
}

// Featured handles GET /catalog/featured
func (h *CatalogHandler) Featured(c *gin.Context) {
	items, err := h.service.Featured(c.Request.Context())
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to load featured content")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to load featured content"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Trending handles GET /catalog/trending
func (h *CatalogHandler) Trending(c *gin.Context) {
	page, pageSize := pagination(c, 24)

	total, items, err := h.service.Trending(c.Request.Context(), page, pageSize)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to load trending content")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to load trending content"})
		return
	}
	c.JSON(http.StatusOK, BrowseResponse{Total: total, Page: page, PageSize: pageSize, Items: items})
}

// Details handles GET /catalog/details/:id
func (h *CatalogHandler) Details(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.service.Details(c.Request.Context(), id)
	if err != nil {
		if catalog.IsContentNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Content not found"})
			return
		}
		logger.Log.Error().Err(err).Str("content_id", id.String()).Msg("Failed to load details")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to load details"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// Categories handles GET /catalog/categories
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list categories")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "query_failed", Message: "Failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// SetupCatalogRoutes registers catalog browsing and fetch routes
func SetupCatalogRoutes(apiGroup *gin.RouterGroup, service *catalog.Service) {
	handler := NewCatalogHandler(service)

	apiGroup.GET("/movies/fetch", handler.FetchMovies)
	apiGroup.GET("/movies/fetch/:id", handler.FetchMovieByID)
	apiGroup.GET("/movies/featured-banner", handler.FeaturedBanner)
	apiGroup.GET("/series/fetch", handler.FetchSeries)
	apiGroup.GET("/series/fetch/:id", handler.FetchSeriesByID)
	apiGroup.GET("/channels/fetch", handler.FetchChannels)
	apiGroup.GET("/channels/fetch/:id", handler.FetchChannelByID)

	apiGroup.GET("/catalog/browse", handler.Browse)
	apiGroup.GET("/catalog/featured", handler.Featured)
	apiGroup.GET("/catalog/trending", handler.Trending)
	apiGroup.GET("/catalog/details/:id", handler.Details)
	apiGroup.GET("/catalog/categories", handler.Categories)
}
