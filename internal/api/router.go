package api

import (
	"github.com/gin-gonic/gin"
	"github.com/seele/swipefeed/internal/api/handler"
	"github.com/seele/swipefeed/internal/api/middleware"
	"github.com/seele/swipefeed/internal/service"
	"github.com/seele/swipefeed/internal/source"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	feedService *service.FeedService,
	toggleService *service.ToggleService,
	commentService *service.CommentService,
	registry *source.Registry,
	cors middleware.CORSConfig,
	mode string,
) *gin.Engine {
	// Set Gin mode
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cors))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	imageHandler := handler.NewImageHandler(feedService, toggleService)
	commentHandler := handler.NewCommentHandler(commentService)
	metaHandler := handler.NewMetaHandler(registry)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API routes
	api := r.Group("/api")
	{
		// Feed
		api.GET("/images", imageHandler.List)
		api.GET("/images/:id", imageHandler.Get)
		api.POST("/images/:id/cache", imageHandler.Toggle)
		api.GET("/cached", imageHandler.Cached)
		api.GET("/trending", imageHandler.Trending)

		// Comments
		api.GET("/images/:id/comments", commentHandler.List)
		api.POST("/images/:id/comments", commentHandler.Add)
		api.POST("/comments/:id/like", commentHandler.Like)

		// Discovery
		api.GET("/tags", metaHandler.Tags)
		api.GET("/sources", metaHandler.Sources)
	}

	return r
}
