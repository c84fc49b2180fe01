package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/docfill-backend/internal/clients/groq"
	"github.com/yungbote/docfill-backend/internal/db"
	"github.com/yungbote/docfill-backend/internal/handlers"
	"github.com/yungbote/docfill-backend/internal/logger"
	"github.com/yungbote/docfill-backend/internal/observability"
	"github.com/yungbote/docfill-backend/internal/repos"
	"github.com/yungbote/docfill-backend/internal/server"
	"github.com/yungbote/docfill-backend/internal/services"
	"github.com/yungbote/docfill-backend/internal/utils"
)

const serviceName = "docfill-backend"

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: logMode,
	})
	if shutdownOtel != nil {
		defer func() { _ = shutdownOtel(context.Background()) }()
	}

	// Groq client (required before any document handling)
	groqClient, err := groq.NewClient(log)
	if err != nil {
		log.Error("Could not init GroqClient", "error", err)
		os.Exit(1)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	sessionRepo := repos.NewSessionRepo(thePG, log)
	messageRepo := repos.NewChatMessageRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	contextRadius := utils.GetEnvAsInt("CONTEXT_RADIUS", 1, log)
	sessionService := services.NewSessionService(thePG, log, sessionRepo, contextRadius)
	chatService, err := services.NewChatService(thePG, log, sessionRepo, messageRepo, groqClient)
	if err != nil {
		log.Error("Could not init ChatService", "error", err)
		os.Exit(1)
	}
	insightService, err := services.NewInsightService(thePG, log, sessionRepo, groqClient)
	if err != nil {
		log.Error("Could not init InsightService", "error", err)
		os.Exit(1)
	}
	documentService := services.NewDocumentService(thePG, log, sessionRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	sessionHandler := handlers.NewSessionHandler(log, sessionService)
	chatHandler := handlers.NewChatHandler(log, chatService)
	insightHandler := handlers.NewInsightHandler(log, insightService)
	documentHandler := handlers.NewDocumentHandler(log, documentService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ServiceName:     serviceName,
		SessionHandler:  sessionHandler,
		ChatHandler:     chatHandler,
		InsightHandler:  insightHandler,
		DocumentHandler: documentHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
