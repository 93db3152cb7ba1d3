package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkstream/inkstream/internal/auth"
	"github.com/inkstream/inkstream/internal/cache"
	"github.com/inkstream/inkstream/internal/db"
	"github.com/inkstream/inkstream/internal/events"
	"github.com/inkstream/inkstream/internal/social"
	"github.com/inkstream/inkstream/internal/summary"
	"github.com/inkstream/inkstream/pkg/logging"
)

// Router sets up API routes
type Router struct {
	authHandler    *AuthHandler
	userHandler    *UserHandler
	followHandler  *FollowHandler
	postHandler    *PostHandler
	notifyHandler  *NotifyHandler
	summaryHandler *SummaryHandler
	tokens         *auth.TokenManager
	database       *db.DB
	cache          *cache.Cache
	logger         *zap.Logger
}

// Deps bundles the services the router exposes over HTTP
type Deps struct {
	Database      *db.DB
	Cache         *cache.Cache
	Bus           *events.Bus
	Tokens        *auth.TokenManager
	AuthService   *auth.Service
	SocialService *social.Service
	Posts         *db.PostRepository
	Notifications *db.NotificationRepository
	Summarizer    *summary.Client
}

// NewRouter creates a new API router
func NewRouter(deps Deps) *Router {
	return &Router{
		authHandler:    NewAuthHandler(deps.AuthService),
		userHandler:    NewUserHandler(deps.SocialService),
		followHandler:  NewFollowHandler(deps.SocialService),
		postHandler:    NewPostHandler(deps.Posts, deps.SocialService),
		notifyHandler:  NewNotifyHandler(deps.Notifications, deps.Bus),
		summaryHandler: NewSummaryHandler(deps.Posts, deps.Summarizer),
		tokens:         deps.Tokens,
		database:       deps.Database,
		cache:          deps.Cache,
		logger:         logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	api := engine.Group("/api")

	// Anonymous requests still pass through so handlers can degrade
	// instead of rejecting.
	optional := auth.Middleware(r.tokens, false)
	required := auth.Middleware(r.tokens, true)

	api.POST("/auth/register", r.authHandler.Register)
	api.POST("/auth/login", r.authHandler.Login)

	api.GET("/users/:id/profile", r.userHandler.Profile)
	api.GET("/users/:id/follow_count", r.followHandler.FollowCount)
	api.GET("/users/:id/following", r.followHandler.FollowingList)
	api.GET("/users/:id/followers", r.followHandler.FollowersList)

	api.POST("/follows/:id", required, r.followHandler.Follow)
	api.DELETE("/follows/:id", required, r.followHandler.Unfollow)
	api.GET("/follows/:id", optional, r.followHandler.IsFollowing)

	api.GET("/posts", r.postHandler.List)
	api.POST("/posts", required, r.postHandler.Create)
	api.GET("/posts/:id", r.postHandler.Get)
	api.POST("/posts/:id/summary", r.summaryHandler.Summarize)

	notifs := api.Group("/notifications", required)
	notifs.GET("", r.notifyHandler.List)
	notifs.GET("/unread_count", r.notifyHandler.UnreadCount)
	notifs.POST("/read", r.notifyHandler.MarkRead)
	notifs.GET("/stream", r.notifyHandler.Stream)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	status := "OK"
	if err := r.database.Health(c.Request.Context()); err != nil {
		status = "DEGRADED"
		r.logger.Warn("Database health check failed", zap.Error(err))
	}
	if err := r.cache.Health(c.Request.Context()); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		status = "DEGRADED"
		r.logger.Warn("Cache health check failed", zap.Error(err))
	}
	c.JSON(200, gin.H{
		"status":  status,
		"service": "inkstream-api",
	})
}
