package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates the endpoint handlers for route registration.
type HandlerBundle struct {
	// Token endpoints.
	GenerateTokenHandler gin.HandlerFunc

	// Session endpoints.
	CreateSessionHandler     gin.HandlerFunc
	PostMessageHandler       gin.HandlerFunc
	GetSessionHandler        gin.HandlerFunc
	EndSessionHandler        gin.HandlerFunc
	GetSessionSummaryHandler gin.HandlerFunc

	// Speech endpoints.
	SpeechToTextHandler gin.HandlerFunc

	// Avatar endpoints.
	CreateAvatarSessionHandler      gin.HandlerFunc
	EndAvatarSessionHandler         gin.HandlerFunc
	ListAvatarsHandler              gin.HandlerFunc
	CreateTavusConversationHandler  gin.HandlerFunc
	GetTavusConversationHandler     gin.HandlerFunc
	EndTavusConversationHandler     gin.HandlerFunc

	// Reminder endpoints.
	ListRemindersHandler gin.HandlerFunc
}
