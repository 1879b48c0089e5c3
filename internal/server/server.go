package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tunsmm/diary-network/internal/auth"
	"github.com/tunsmm/diary-network/internal/config"
	"github.com/tunsmm/diary-network/internal/database"
	"github.com/tunsmm/diary-network/internal/handlers"
	"github.com/tunsmm/diary-network/internal/media"
	"github.com/tunsmm/diary-network/internal/middleware"
	"github.com/tunsmm/diary-network/internal/store"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	store   store.Store
	storage media.Storage
	tokens  *auth.TokenIssuer
	limiter *middleware.RateLimiter
	handler *handlers.Handler
}

// New wires the handlers over st. db may be nil, in which case /health
// reports only that the process is up.
func New(cfg *config.Config, db database.Service, st store.Store, storage media.Storage) *Server {
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	s := &Server{
		cfg:     cfg,
		db:      db,
		store:   st,
		storage: storage,
		tokens:  tokens,
		handler: handlers.NewHandler(handlers.Deps{
			Store:    st,
			Tokens:   tokens,
			Uploader: media.NewUploader(storage, cfg.Media.MaxUploadBytes),
			Policy:   cfg.OwnershipPolicy,
			PageSize: cfg.PageSize,
		}),
	}
	if cfg.RateLimit.RPS > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	return s
}

// NewServer creates and configures the HTTP server over an open database
func NewServer(ctx context.Context, cfg *config.Config, db database.Service) (*http.Server, error) {
	storage, err := media.NewStorage(ctx, cfg.Media)
	if err != nil {
		return nil, fmt.Errorf("init media storage: %w", err)
	}

	newServer := New(cfg, db, store.NewGormStore(db.GetDB()), storage)

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      newServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s (ownership policy: %s)\n", cfg.Port, cfg.OwnershipPolicy)
	return server, nil
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.CustomRecovery(internalError))
	r.NoRoute(notFound)

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: !allowsAnyOrigin(s.cfg.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	if s.limiter != nil {
		r.Use(s.limiter.Middleware())
	}

	r.GET("/health", s.health)

	if local, ok := s.storage.(*media.LocalStorage); ok && local.BaseURL != "" {
		r.Static(local.BaseURL, local.Dir)
	}

	h := s.handler
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", h.Auth.Register)
		api.POST("/login", h.Auth.Login)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(s.tokens, s.store))
		{
			protected.GET("/me", h.Auth.GetMe)

			// Feeds
			protected.GET("/posts", h.Post.Index)
			protected.POST("/posts", h.Post.CreatePost)
			protected.GET("/follow", h.Post.FollowIndex)
			protected.GET("/groups", h.Group.ListGroups)
			protected.GET("/groups/:slug", h.Group.GroupPosts)

			// Profiles and follows
			protected.GET("/users/:username", h.User.GetUserProfile)
			protected.PUT("/users/:username", h.User.UpdateUserProfile)
			protected.GET("/users/:username/followers", h.User.GetFollowers)
			protected.GET("/users/:username/following", h.User.GetFollowing)
			protected.POST("/users/:username/follow", h.User.FollowUser)
			protected.DELETE("/users/:username/follow", h.User.UnfollowUser)

			// Posts and comments
			protected.GET("/users/:username/posts/:id", h.Post.GetPost)
			protected.PUT("/users/:username/posts/:id", h.Post.UpdatePost)
			protected.DELETE("/users/:username/posts/:id", h.Post.DeletePost)
			protected.POST("/users/:username/posts/:id/comments", h.Comment.CreateComment)
			protected.DELETE("/users/:username/posts/:id/comments/:commentId", h.Comment.DeleteComment)
		}
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	stats := s.db.Health()
	if stats["status"] != "up" {
		c.JSON(http.StatusServiceUnavailable, stats)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "path": c.Request.URL.Path})
}

// internalError answers a recovered panic. gin.Logger still records it.
func internalError(c *gin.Context, recovered any) {
	log.Printf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
