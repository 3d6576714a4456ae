package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/notSunsin/math-hero/internal/config"
	"github.com/notSunsin/math-hero/internal/handler"
	"github.com/notSunsin/math-hero/internal/middleware"
	"github.com/notSunsin/math-hero/internal/response"
	"github.com/notSunsin/math-hero/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Student *handler.StudentHandler
	Game    *handler.GameHandler
	Parent  *handler.ParentHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve the game client statically with long-lived caching; assets
	// are content-hashed by the frontend build.
	appGroup := router.Group("/app")
	appGroup.Use(middleware.CacheControl(31536000))
	{
		appGroup.Static("/", cfg.StaticDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/student/login", handlers.Auth.StudentLogin)
		auth.POST("/parent/login", handlers.Auth.ParentLogin)

		// Authenticated profile route
		auth.GET("/student/me", middleware.RequireStudentJWT(authService), handlers.Auth.GetStudentProfile)
	}

	// ─── 2. Student Group (JWT) ────────────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(middleware.RequireStudentJWT(authService))
	{
		studentAPI.GET("/badges", handlers.Student.GetBadges)

		studentAPI.POST("/games", handlers.Game.Start)
		studentAPI.GET("/games/:session_id", handlers.Game.Get)
		studentAPI.POST("/games/:session_id/answer", handlers.Game.SubmitAnswer)
		studentAPI.POST("/games/:session_id/timeout", handlers.Game.Timeout)
		studentAPI.POST("/games/:session_id/complete", handlers.Game.Complete)
		studentAPI.DELETE("/games/:session_id", handlers.Game.Quit)
	}

	// ─── 3. WebSocket Group (Student WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStudentWSAuth(authService))
	{
		ws.GET("/games/:session_id/stream", handlers.WS.CountdownStream)
	}

	// ─── 4. Parent Group (Parent JWT, read only) ───────────────────────
	parentAPI := router.Group("/api/v1/parent")
	parentAPI.Use(middleware.RequireParentJWT(authService))
	{
		parentAPI.GET("/statistics", handlers.Parent.GetStatistics)
		parentAPI.GET("/overview", handlers.Parent.GetOverview)
	}

	return router
}
