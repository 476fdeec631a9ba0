package devapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter wires middleware and routes onto a new gin engine
func SetupRouter(svc *Service, allowedOrigins []string, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(logger))
	r.Use(MetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", headerRequestID},
		ExposeHeaders:    []string{headerRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler := NewHandler(svc)

	r.GET("/health", handler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/register", handler.Register)
	}

	user := r.Group("/user")
	user.Use(AuthMiddleware(svc))
	{
		user.GET("/profile", handler.GetProfile)
		user.PUT("/profile", handler.UpdateProfile)
	}

	// reads are public; a valid token personalizes isLikedByMe
	public := r.Group("/posts")
	public.Use(OptionalAuthMiddleware(svc))
	{
		public.GET("", handler.ListPosts)
		public.GET("/:id", handler.GetPost)
		public.GET("/:id/comments", handler.ListComments)
	}

	posts := r.Group("/posts")
	posts.Use(AuthMiddleware(svc))
	{
		posts.POST("/createPost", handler.CreatePost)
		posts.PATCH("/:id", handler.UpdatePost)
		posts.DELETE("/:id", handler.DeletePost)
		posts.POST("/:id/comments", handler.AddComment)
		posts.POST("/:id/likes", handler.ToggleLike)
		posts.GET("/:id/likes/check", handler.CheckLike)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Not found"})
	})

	return r
}
