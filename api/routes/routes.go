package routes

import (
	"github.com/ArowuTest/bridgetunes-raffle/internal/config"
	"github.com/ArowuTest/bridgetunes-raffle/internal/handlers"
	"github.com/ArowuTest/bridgetunes-raffle/internal/middleware"
	"github.com/ArowuTest/bridgetunes-raffle/internal/services"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies groups what the router needs to serve requests
type HandlerDependencies struct {
	AuthService   services.AuthService
	AuthHandler   *handlers.AuthHandler
	DrawHandler   *handlers.DrawHandler
	RosterHandler *handlers.RosterHandler
	LoginLimiter  *middleware.LimiterStore
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	if cfg.Upload.MaxBytes > 0 {
		router.MaxMultipartMemory = cfg.Upload.MaxBytes
	}

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(cfg))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", handlers.Health)

		auth := public.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimitMiddleware(deps.LoginLimiter), deps.AuthHandler.Login)
			auth.POST("/logout", deps.AuthHandler.Logout)
		}
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.AccessGateMiddleware(deps.AuthService))
	{
		protected.POST("/roster", deps.RosterHandler.UploadRoster)

		protected.POST("/draws", deps.DrawHandler.Draw)
		protected.GET("/state", deps.DrawHandler.GetState)
		protected.GET("/limits", deps.DrawHandler.GetGiftLimits)
		protected.POST("/reset", deps.DrawHandler.Reset)

		winners := protected.Group("/winners")
		{
			winners.POST("/delete", deps.DrawHandler.DeleteWinner)
			winners.POST("/redraw", deps.DrawHandler.Redraw)
			winners.POST("/clear", deps.DrawHandler.ClearWinners)
		}
	}

	return router
}
