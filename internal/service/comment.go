package service

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/seele/swipefeed/internal/domain"
)

// ErrEmptyComment is returned when a comment has no content.
var ErrEmptyComment = errors.New("comment content must not be empty")

// CommentService holds ephemeral per-image comments. State is process-wide
// and in-memory only; comments are gone after a restart, which is an
// accepted product decision.
type CommentService struct {
	mu       sync.RWMutex
	comments map[string][]domain.Comment
}

// NewCommentService creates an empty comment service.
func NewCommentService() *CommentService {
	return &CommentService{
		comments: make(map[string][]domain.Comment),
	}
}

// List returns the comments for an image, newest first.
// Parameters:
//   - imageID: image id.
// Returns:
//   - []domain.Comment: comments; empty slice when none exist.
func (s *CommentService) List(imageID string) []domain.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.comments[imageID]
	out := make([]domain.Comment, len(list))
	copy(out, list)
	return out
}

// Add prepends a new comment to an image.
// Parameters:
//   - imageID: image id.
//   - content: comment text; must be non-blank.
// Returns:
//   - *domain.Comment: the stored comment.
//   - error: ErrEmptyComment when content is empty or whitespace.
func (s *CommentService) Add(imageID, content string) (*domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyComment
	}

	comment := domain.Comment{
		ID: uuid.New().String(),
		User: domain.Author{
			ID:        "999",
			Name:      "我",
			Avatar:    "https://api.dicebear.com/7.x/avataaars/svg?seed=me",
			Followers: 0,
		},
		Content:   content,
		Likes:     0,
		CreatedAt: time.Now().Format("2006-01-02 15:04:05"),
	}

	s.mu.Lock()
	s.comments[imageID] = append([]domain.Comment{comment}, s.comments[imageID]...)
	s.mu.Unlock()

	return &comment, nil
}
