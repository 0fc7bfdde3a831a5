package routes

import (
	"net/http"
	"time"

	"voicedesk/handlers"
	"voicedesk/middleware"
	"voicedesk/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterTokenRoutes registers the public token endpoint the frontend
// calls before joining a room.
func RegisterTokenRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/token", hb.GenerateTokenHandler)
}

// RegisterSessionRoutes registers the conversation lifecycle endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sessions")
	{
		api.Use(middleware.RoomTokenMiddleware())
		api.POST("", hb.CreateSessionHandler)
		api.GET("/:sessionID", hb.GetSessionHandler)
		api.POST("/:sessionID/messages", hb.PostMessageHandler)
		api.DELETE("/:sessionID", hb.EndSessionHandler)
		api.GET("/:sessionID/summary", hb.GetSessionSummaryHandler)
	}
}

// RegisterSpeechRoutes registers the STT endpoint.
func RegisterSpeechRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/speech")
	{
		api.Use(middleware.RoomTokenMiddleware())
		api.POST("/transcribe", hb.SpeechToTextHandler)
	}
}

// RegisterAvatarRoutes registers the avatar vendor endpoints.
func RegisterAvatarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/avatar")
	{
		api.POST("/create", hb.CreateAvatarSessionHandler)
		api.DELETE("/sessions/:sessionID", hb.EndAvatarSessionHandler)
		api.GET("/list", hb.ListAvatarsHandler)
		api.POST("/tavus", hb.CreateTavusConversationHandler)
		api.GET("/tavus/:conversationID", hb.GetTavusConversationHandler)
		api.DELETE("/tavus/:conversationID", hb.EndTavusConversationHandler)
	}
}

// RegisterReminderRoutes registers the reminder notice endpoint.
func RegisterReminderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reminders")
	{
		api.Use(middleware.RoomTokenMiddleware())
		api.GET("/:phone", hb.ListRemindersHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterTokenRoutes(r, hb)
	RegisterSessionRoutes(r, hb)
	RegisterSpeechRoutes(r, hb)
	RegisterAvatarRoutes(r, hb)
	RegisterReminderRoutes(r, hb)
	RegisterHealthRoute(r)
}
