// File: voicedesk/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voicedesk/config"
	"voicedesk/cron"
	"voicedesk/database"
	appointmentRepo "voicedesk/database/repository/appointment"
	"voicedesk/handlers"
	"voicedesk/middleware"
	"voicedesk/routes"
	"voicedesk/services/avatar"
	"voicedesk/services/conversation"
	"voicedesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitRedis()

	// Appointment store backend is chosen at construction time.
	var apptRepo appointmentRepo.Repository
	var mongoClient *mongo.Client
	switch config.AppConfig.StoreBackend {
	case "memory":
		apptRepo = appointmentRepo.NewMemoryAppointmentRepo()
		logger.Sugar().Info("main: using in-memory appointment store")
	default:
		database.InitDB()
		mongoClient = database.MongoClient
		apptRepo = appointmentRepo.NewMongoAppointmentRepo()
	}

	// Reminder scheduling and delivery.
	reminderQueue := cron.NewReminderQueue()
	cron.InitReminderWorker(utils.GetCacheClient())

	// Conversation core.
	tools := conversation.NewTools(apptRepo, reminderQueue)

	var classifier conversation.Classifier
	switch config.AppConfig.Classifier {
	case "gemini":
		classifier = conversation.NewGeminiClassifier(config.AppConfig.GeminiAPIKey)
		logger.Sugar().Info("main: using Gemini intent classifier")
	default:
		classifier = conversation.NewKeywordClassifier()
	}

	dispatcher := conversation.NewDispatcher(tools, classifier)
	registry := conversation.NewRegistry()
	archive := conversation.NewSummaryArchive(utils.GetSessionCacheClient(), 7*24*time.Hour)

	// Avatar vendors.
	tavusSvc := avatar.NewTavusService(config.AppConfig.TavusAPIKey, config.AppConfig.TavusReplicaID)
	beyondSvc := avatar.NewBeyondPresenceService(config.AppConfig.BeyondPresenceAPIKey, config.AppConfig.BeyondPresenceAvatar)

	// Handlers.
	sessionHandler := handlers.NewSessionHandler(registry, dispatcher, archive)
	avatarHandler := handlers.NewAvatarHandler(tavusSvc, beyondSvc)

	handlerBundle := &handlers.HandlerBundle{
		GenerateTokenHandler: handlers.GenerateTokenHandler,

		CreateSessionHandler:     sessionHandler.CreateSessionHandler,
		PostMessageHandler:       sessionHandler.PostMessageHandler,
		GetSessionHandler:        sessionHandler.GetSessionHandler,
		EndSessionHandler:        sessionHandler.EndSessionHandler,
		GetSessionSummaryHandler: sessionHandler.GetSessionSummaryHandler,

		SpeechToTextHandler: handlers.SpeechToTextHandler,

		CreateAvatarSessionHandler:     avatarHandler.CreateAvatarSessionHandler,
		EndAvatarSessionHandler:        avatarHandler.EndAvatarSessionHandler,
		ListAvatarsHandler:             avatarHandler.ListAvatarsHandler,
		CreateTavusConversationHandler: avatarHandler.CreateTavusConversationHandler,
		GetTavusConversationHandler:    avatarHandler.GetTavusConversationHandler,
		EndTavusConversationHandler:    avatarHandler.EndTavusConversationHandler,

		ListRemindersHandler: handlers.ListRemindersHandler,
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor([]*redis.Client{
		utils.GetCacheClient(),
		utils.GetSessionCacheClient(),
	}, mongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
