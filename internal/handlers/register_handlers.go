package handlers

import (
	portssvc "github.com/mobilebank/ledger_backend/internal/core/ports/services"
	"github.com/mobilebank/ledger_backend/internal/middleware"
	"github.com/mobilebank/ledger_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Register public authentication routes
	registerAuthRoutes(r, cfg, services.Account)

	// Setup API v1 routes with Auth Middleware
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerAccountRoutes(v1, services.Account, services.History)
	registerLedgerRoutes(v1, services.Ledger)
	registerAdminRoutes(v1, services.Account, services.History)
}
