package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/docfill-backend/internal/handlers"
)

type RouterConfig struct {
	ServiceName     string
	SessionHandler  *handlers.SessionHandler
	ChatHandler     *handlers.ChatHandler
	InsightHandler  *handlers.InsightHandler
	DocumentHandler *handlers.DocumentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = 16 << 20

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))
	router.Use(otelgin.Middleware(cfg.ServiceName))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Sessions
		api.POST("/sessions", cfg.SessionHandler.Create)
		api.GET("/sessions/:id", cfg.SessionHandler.Get)
		// Chat
		api.GET("/sessions/:id/messages", cfg.ChatHandler.ListMessages)
		api.POST("/sessions/:id/messages", cfg.ChatHandler.SendMessage)
		// Insights
		api.POST("/sessions/:id/insights", cfg.InsightHandler.Generate)
		api.GET("/sessions/:id/insights", cfg.InsightHandler.Get)
		// Document
		api.POST("/sessions/:id/generate", cfg.DocumentHandler.Generate)
	}

	return router
}
