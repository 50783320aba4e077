package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seele/swipefeed/internal/source"
)

// feedTags is the static tag list the client renders as filter chips.
var feedTags = []string{"原创", "AI", "pixiv", "蔚蓝档案", "百合"}

// MetaHandler handles the tag and source discovery endpoints.
type MetaHandler struct {
	registry *source.Registry
}

// NewMetaHandler creates a new meta handler.
// Parameters:
//   - registry: source adapter registry.
// Returns:
//   - *MetaHandler: initialized handler.
func NewMetaHandler(registry *source.Registry) *MetaHandler {
	return &MetaHandler{registry: registry}
}

// Tags handles GET /api/tags.
func (h *MetaHandler) Tags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tags": feedTags})
}

// Sources handles GET /api/sources.
func (h *MetaHandler) Sources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sources": h.registry.Names(),
		"default": h.registry.DefaultName(),
	})
}
