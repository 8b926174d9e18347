package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Wandor/journaling-node/internal/config"
	"github.com/Wandor/journaling-node/internal/handler/http/middleware"
	"github.com/Wandor/journaling-node/internal/infrastructure/security"
	"github.com/Wandor/journaling-node/internal/service"
)

// SetupRouter wires the HTTP surface: public auth endpoints, the
// protected journal ingress, and the operational endpoints.
func SetupRouter(
	authService *service.AuthService,
	journalService *service.JournalService,
	tokens *security.JWTService,
	health *HealthHandler,
	cfg *config.Config,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Logging.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))

	authHandler := NewAuthHandler(authService, logger)
	journalHandler := NewJournalHandler(journalService, logger)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", health.Check)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/verify-otp", authHandler.VerifyOTP)
			auth.POST("/resend-otp", authHandler.ResendOTP)
			auth.POST("/refresh-token", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.POST("/reset-password", authHandler.ResetPassword)
		}

		protected := api.Group("/")
		protected.Use(middleware.Auth(tokens, logger))
		{
			journal := protected.Group("/journal")
			{
				journal.POST("/entries", journalHandler.CreateEntry)
			}
		}
	}

	return router
}
