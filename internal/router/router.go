package router

import (
	"github.com/gin-gonic/gin"

	"edifika/internal/domain"
	"edifika/internal/handler"
	"edifika/internal/middleware"
	"edifika/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	allowedOrigins []string,
	authH *handler.AuthHandler,
	importH *handler.ImportHandler,
	proposalH *handler.ProposalHandler,
	clientH *handler.ClientHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Import pipeline routes
	imports := protected.Group("/imports")
	imports.POST("", importH.Upload)
	imports.GET("", importH.List)
	imports.GET("/:id", importH.GetByID)
	imports.POST("/:id/process", importH.Process)
	imports.GET("/:id/preview", importH.Preview)
	imports.POST("/:id/apply", importH.Apply)

	// Proposal routes
	proposals := protected.Group("/proposals")
	proposals.POST("", proposalH.Create)
	proposals.GET("", proposalH.List)
	proposals.GET("/:id", proposalH.GetByID)
	proposals.PUT("/:id", proposalH.Update)
	proposals.PATCH("/:id/status", proposalH.UpdateStatus)
	proposals.GET("/:id/export.csv", proposalH.ExportCSV)
	proposals.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), proposalH.Delete)

	// Client routes
	clients := protected.Group("/clients")
	clients.POST("", clientH.Create)
	clients.GET("", clientH.List)
	clients.GET("/:id", clientH.GetByID)
	clients.PUT("/:id", clientH.Update)
	clients.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), clientH.Delete)

	return r
}
