package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/seele/swipefeed/internal/domain"
	"github.com/seele/swipefeed/internal/service"
)

// ImageHandler handles the live feed, cached feed, and toggle endpoints.
type ImageHandler struct {
	feed   *service.FeedService
	toggle *service.ToggleService
}

// NewImageHandler creates a new image handler.
// Parameters:
//   - feed: feed service instance.
//   - toggle: toggle service instance.
// Returns:
//   - *ImageHandler: initialized handler.
func NewImageHandler(feed *service.FeedService, toggle *service.ToggleService) *ImageHandler {
	return &ImageHandler{
		feed:   feed,
		toggle: toggle,
	}
}

// List handles GET /api/images.
func (h *ImageHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	sourceName := c.Query("source")

	result, err := h.feed.Live(c.Request.Context(), sourceName, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list images: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/images/:id for single-fetch sources.
func (h *ImageHandler) Get(c *gin.Context) {
	id := c.Param("id")
	sourceName := c.Query("source")

	img, err := h.feed.Single(c.Request.Context(), sourceName, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch image",
		})
		return
	}

	c.JSON(http.StatusOK, img)
}

// toggleRequest is the optional body of a toggle request. A missing or
// malformed body is treated as no payload, not as a client error.
type toggleRequest struct {
	ImageData *domain.ImageData `json:"imageData"`
}

// Toggle handles POST /api/images/:id/cache.
func (h *ImageHandler) Toggle(c *gin.Context) {
	id := c.Param("id")

	var req toggleRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.toggle.Toggle(c.Request.Context(), id, req.ImageData)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to toggle cache: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Cached handles GET /api/cached.
func (h *ImageHandler) Cached(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.feed.Cached(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list cached images: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Trending handles GET /api/trending.
func (h *ImageHandler) Trending(c *gin.Context) {
	images, err := h.feed.Trending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch trending images: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": images})
}
