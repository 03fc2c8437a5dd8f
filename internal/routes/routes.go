// Package routes defines HTTP routes for the ajenda service.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/zohair-aabidi/ajenda/docs"
	"github.com/zohair-aabidi/ajenda/internal/auth"
	"github.com/zohair-aabidi/ajenda/internal/config"
	"github.com/zohair-aabidi/ajenda/internal/handlers"
	"github.com/zohair-aabidi/ajenda/internal/metrics"
	"github.com/zohair-aabidi/ajenda/internal/middleware"
	"github.com/zohair-aabidi/ajenda/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Events  *handlers.EventHandler
	Content *handlers.ContentHandler
	Health  *handlers.HealthHandler
}

// Setup configures all HTTP routes for the application.
func Setup(
	router *gin.Engine,
	h Handlers,
	cfg *config.Config,
	authenticator service.RequestAuthenticator,
	metricsCollector *metrics.Metrics,
	log logrus.FieldLogger,
) {
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.CORS(middleware.DefaultCORSConfig(cfg.AllowedOrigins)),
		metricsCollector.Middleware(),
		middleware.Authenticate(authenticator),
	)

	// Health check
	router.GET("/health", h.Health.Check)
	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation (only if SWAGGER_HOST is configured)
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authenticated := middleware.Require(auth.Authenticated(), metricsCollector)
	admin := middleware.Require(auth.HasRole(auth.RoleAdmin), metricsCollector)

	api := router.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signin", h.Auth.Signin)
		authGroup.POST("/signup", h.Auth.Signup)
	}

	// Access-level content
	test := api.Group("/test")
	{
		test.GET("/all", middleware.Require(auth.Public(), metricsCollector), h.Content.Public)
		test.GET("/user", middleware.Require(auth.HasAnyRole(auth.RoleUser, auth.RoleAdmin), metricsCollector), h.Content.User)
		test.GET("/admin", admin, h.Content.Admin)
	}

	// Event routes
	events := api.Group("/evenements", authenticated)
	{
		events.POST("", h.Events.Create)
		events.GET("/:id", h.Events.Get)
		events.PUT("/:id", h.Events.Update)
		events.DELETE("/:id", h.Events.Delete)

		events.GET("/mes-evenements", h.Events.ListOwn)
		events.GET("/mes-evenements/plage", h.Events.ListOwnInRange)
		events.GET("/mes-evenements/recherche", h.Events.SearchOwn)
	}

	// Admin listings: one gate per request
	adminEvents := api.Group("/evenements", admin)
	{
		adminEvents.GET("", h.Events.ListAll)
		adminEvents.GET("/plage", h.Events.ListInRange)
		adminEvents.GET("/recherche", h.Events.Search)
	}
}
