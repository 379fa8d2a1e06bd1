package controller

import (
	"snapship-service/conf"
	"snapship-service/controller/handler"
	"snapship-service/controller/respond"
	"snapship-service/docs"
	"snapship-service/service/deploy_service"
	"snapship-service/service/history_service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Services everything the router needs to serve requests
type Services struct {
	Deploy    *deploy_service.DeployService
	History   *history_service.HistoryService
	Submitter *deploy_service.VercelSubmitter
}

// SetupRouter setup snapship service router
func SetupRouter(cfg *conf.Config, services Services, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	// Set Swagger host from config
	if cfg.Server.SwaggerBaseUrl != "" {
		docs.SwaggerInfo.Host = cfg.Server.SwaggerBaseUrl
	}

	// Create Gin engine
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(Recovery(log), RequestLogger(log))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Allow all origins, can be configured to specific domains
		AllowMethods:     []string{"GET", "POST", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "Accept", "Cache-Control", "X-Requested-With", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * 3600, // 12 hours
	}))

	// Add timing middleware
	r.Use(respond.TimingMiddleware())

	// Create handlers
	deployHandler := handler.NewDeployHandler(services.Deploy, services.History, cfg.Upload, log)
	historyHandler := handler.NewHistoryHandler(services.History)
	configHandler := handler.NewConfigHandler(cfg.Upload,
		func() bool { return services.Submitter != nil && services.Submitter.CredentialConfigured() },
		services.History.Enabled,
	)

	// Original dashboard endpoint; every method reaches the handler so it answers 405 itself
	r.Any("/api/deploy", deployHandler.Deploy)

	// API v1 route group
	v1 := r.Group("/api/v1")
	{
		deployments := v1.Group("/deployments")
		{
			// Upload and deploy
			deployments.POST("", deployHandler.Deploy)

			// Deployment history
			deployments.GET("", historyHandler.ListDeployments)
			deployments.GET("/:id", historyHandler.GetDeployment)
		}

		// Config route
		v1.GET("/config", configHandler.GetConfig)
	}

	// Health check
	r.GET("/health", configHandler.Health)

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName("swagger")))

	r.NoMethod(func(c *gin.Context) {
		respond.Error(c, respond.CodeNoMethod, deploy_service.ErrMethodNotAllowed.Error())
	})
	r.NoRoute(func(c *gin.Context) {
		respond.NotFound(c, "not found")
	})

	return r
}
