package routes

import (
	"codeme-client/internal/api/handlers"
	"codeme-client/internal/api/middleware"
	"codeme-client/internal/apiclient"
	"codeme-client/internal/auth"
	"codeme-client/internal/config"
	"codeme-client/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// SetupRoutes configures all the routes for the companion server. The
// callback handler and the backend client share state.
func SetupRoutes(cfg *config.Config, state *auth.State) *gin.Engine {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	// Initialize services
	client := apiclient.New(cfg, state)
	linkService := service.NewLinkService(client, cfg.LinkIdempotencyKeys)
	documentService := service.NewDocumentService(client, cfg.MaxUploadBytes(), validator.New())

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(state, Version)
	callbackHandler := auth.NewCallbackHandler(state)
	logoutHandler := auth.NewLogoutHandler(state)
	linkHandler := handlers.NewLinkHandler(linkService)
	documentHandler := handlers.NewDocumentHandler(documentService)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/live", healthHandler.Live)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Login flow; the callback redirects to the landing page
	router.GET(auth.RootPath, auth.Landing(state))
	authGroup := router.Group("/auth")
	{
		authGroup.GET("/callback", callbackHandler.HandleCallback)
		authGroup.GET("/login", auth.LoginRedirect(cfg.AuthLoginURL))
		authGroup.POST("/logout", logoutHandler.Logout)
	}

	// Routes calling the backend need a token
	protected := router.Group("")
	protected.Use(auth.RequireToken(state))
	{
		protected.POST("/links", linkHandler.CreateLink)

		documents := protected.Group("/documents")
		{
			documents.GET("", documentHandler.ListDocuments)
			documents.POST("", documentHandler.UploadDocument)
			documents.GET("/:id/download", documentHandler.DownloadDocument)
			documents.DELETE("/:id", documentHandler.DeleteDocument)
		}
	}

	return router
}
