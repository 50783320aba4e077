package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seele/swipefeed/internal/service"
)

// CommentHandler handles the ephemeral comment endpoints.
type CommentHandler struct {
	comments *service.CommentService
}

// NewCommentHandler creates a new comment handler.
// Parameters:
//   - comments: comment service instance.
// Returns:
//   - *CommentHandler: initialized handler.
func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// List handles GET /api/images/:id/comments.
func (h *CommentHandler) List(c *gin.Context) {
	id := c.Param("id")
	c.JSON(http.StatusOK, gin.H{"comments": h.comments.List(id)})
}

type addCommentRequest struct {
	Content string `json:"content"`
}

// Add handles POST /api/images/:id/comments.
func (h *CommentHandler) Add(c *gin.Context) {
	id := c.Param("id")

	var req addCommentRequest
	_ = c.ShouldBindJSON(&req)

	comment, err := h.comments.Add(id, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrEmptyComment) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Comment content must not be empty",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add comment",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// Like handles POST /api/comments/:id/like. Comment likes are not stored;
// the endpoint exists for the client's optimistic UI.
func (h *CommentHandler) Like(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}
