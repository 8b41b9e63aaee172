package api

import (
	"context"
	"net/http"
	"time"

	"skimr/auth"
	"skimr/config"
	"skimr/extractor"
	"skimr/gateway"
	"skimr/ratelimit"
	"skimr/types"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Store is the persistence the API reads and writes.
type Store interface {
	CreateUser(ctx context.Context, u *types.User) error
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserByID(ctx context.Context, id string) (*types.User, error)
	ListItemsByUser(ctx context.Context, userID string) ([]types.Item, error)
	ListFeed(ctx context.Context, followerID string) ([]types.FeedItem, error)
	CreateFollow(ctx context.Context, followerID, followingID string) (*types.Follow, error)
	GetFollow(ctx context.Context, followerID, followingID string) (*types.Follow, error)
	DeleteFollow(ctx context.Context, followerID, followingID string) (int64, error)
	ListFollowers(ctx context.Context, userID string) ([]types.FollowEdge, error)
	ListFollowing(ctx context.Context, userID string) ([]types.FollowEdge, error)
}

// Config wires the router's dependencies. Limiter and NewSource are optional.
type Config struct {
	Store       Store
	Verifier    *auth.Verifier
	Issuer      *auth.Issuer
	Gateway     *gateway.Gateway
	Extractor   *extractor.Extractor
	Limiter     ratelimit.Limiter
	RateWindow  time.Duration
	FrontendURL string
	// NewSource builds the page source for /api/capture. Defaults to an HTTP fetch.
	NewSource func(url string) extractor.Source
}

type Server struct {
	store     Store
	issuer    *auth.Issuer
	gateway   *gateway.Gateway
	extractor *extractor.Extractor
	newSource func(url string) extractor.Source
}

// NewRouter constructs a Gin engine with middleware and all routes registered.
func NewRouter(cfg Config) *gin.Engine {
	s := &Server{
		store:     cfg.Store,
		issuer:    cfg.Issuer,
		gateway:   cfg.Gateway,
		extractor: cfg.Extractor,
		newSource: cfg.NewSource,
	}
	if s.newSource == nil {
		s.newSource = func(url string) extractor.Source { return extractor.NewHTTPSource(url, nil) }
	}

	origin := cfg.FrontendURL
	if origin == "" {
		origin = config.DefaultFrontendURL
	}

	r := gin.New()
	r.Use(recovery())
	r.Use(requestLogger())
	r.Use(securityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.Limiter != nil {
		r.Use(ratelimit.Middleware(cfg.Limiter, cfg.RateWindow))
	}
	r.Use(bodyLimit())

	RegisterHealthRoutes(r)

	requireAuth := auth.RequireAuth(cfg.Verifier)
	apiGroup := r.Group("/api")
	s.RegisterAuthRoutes(apiGroup, requireAuth)
	s.RegisterSummarizeRoutes(apiGroup, requireAuth)
	s.RegisterContentRoutes(apiGroup, requireAuth)
	s.RegisterFollowRoutes(apiGroup, requireAuth)
	s.RegisterItemRoutes(apiGroup, requireAuth)

	r.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "Not found", "not_found")
	})
	return r
}

// RegisterHealthRoutes registers the liveness endpoint.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}

// abortWithError writes the standard error body.
func abortWithError(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message, "code": code})
}
