package handlers

import (
	"net/http"
	"time"

	"voicedesk/models"
	"voicedesk/services/conversation"
	"voicedesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler exposes the conversation lifecycle over HTTP: create a
// session, post utterances (or pre-classified intents), inspect state,
// and end the session.
type SessionHandler struct {
	Registry   *conversation.Registry
	Dispatcher *conversation.Dispatcher
	Archive    *conversation.SummaryArchive
}

// NewSessionHandler returns a SessionHandler.
func NewSessionHandler(registry *conversation.Registry, dispatcher *conversation.Dispatcher, archive *conversation.SummaryArchive) *SessionHandler {
	return &SessionHandler{Registry: registry, Dispatcher: dispatcher, Archive: archive}
}

type createSessionRequest struct {
	RoomName string `json:"roomName"`
}

// CreateSessionHandler allocates a fresh conversation context. The room
// name doubles as the session id so the voice layer and the REST layer
// agree on the key.
func (h *SessionHandler) CreateSessionHandler(c *gin.Context) {
	var req createSessionRequest
	// Body is optional; an empty room name gets a generated id.
	_ = c.ShouldBindJSON(&req)

	session := h.Registry.Create(req.RoomName)

	var sessionID string
	var state conversation.State
	session.WithLock(func(ctx *conversation.Context) {
		sessionID = ctx.SessionID
		state = ctx.State
	})

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sessionID,
		"state":      state,
		"message":    "Hello! Please provide your phone number so I can help you.",
	})
}

type postMessageRequest struct {
	Text     string         `json:"text"`
	Intent   string         `json:"intent"`
	Entities map[string]any `json:"entities"`
}

// PostMessageHandler runs one conversation turn. Either free-form text
// (classified server-side) or an already-classified intent+entities
// pair is accepted; both flow through the same dispatcher.
func (h *SessionHandler) PostMessageHandler(c *gin.Context) {
	sessionID := c.Param("sessionID")
	session, err := h.Registry.Get(sessionID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "Session not found", sessionID)
		return
	}

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Text == "" && req.Intent == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", "either text or intent is required")
		return
	}

	var result *models.DispatchResult
	session.WithLock(func(ctx *conversation.Context) {
		if req.Text != "" {
			ctx.AddToHistory("user", req.Text, nil)
			result = h.Dispatcher.DispatchText(c.Request.Context(), req.Text, ctx)
		} else {
			result = h.Dispatcher.Dispatch(c.Request.Context(), req.Intent, req.Entities, ctx)
		}

		reply := result.Message
		if !result.Success {
			reply = result.Error
		}
		ctx.AddToHistory("assistant", reply, map[string]any{"intent": result.Intent})
		result.CurrentState = string(ctx.State)
	})

	c.JSON(http.StatusOK, result)
}

// GetSessionHandler returns a snapshot of the conversation context.
func (h *SessionHandler) GetSessionHandler(c *gin.Context) {
	sessionID := c.Param("sessionID")
	session, err := h.Registry.Get(sessionID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "Session not found", sessionID)
		return
	}

	var snapshot gin.H
	session.WithLock(func(ctx *conversation.Context) {
		snapshot = gin.H{
			"session_id":              ctx.SessionID,
			"state":                   ctx.State,
			"user_phone":              ctx.UserPhone,
			"user_name":               ctx.UserName,
			"has_pending_appointment": ctx.PendingAppointment != nil,
			"conversation_turns":      len(ctx.History),
			"session_duration":        int(time.Since(ctx.StartedAt).Seconds()),
		}
	})

	c.JSON(http.StatusOK, snapshot)
}

// EndSessionHandler ends the conversation, archives its summary, and
// removes the context from the registry.
func (h *SessionHandler) EndSessionHandler(c *gin.Context) {
	sessionID := c.Param("sessionID")
	session, err := h.Registry.Get(sessionID)
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "Session not found", sessionID)
		return
	}

	var result *models.DispatchResult
	session.WithLock(func(ctx *conversation.Context) {
		result = h.Dispatcher.Dispatch(c.Request.Context(), conversation.IntentEndConversation, nil, ctx)
	})

	ctx, err := h.Registry.Destroy(sessionID)
	if err == nil && result.Summary != nil {
		if aerr := h.Archive.Save(c.Request.Context(), result.Summary); aerr != nil {
			utils.GetLogger().Warn("failed to archive session summary",
				zap.String("sessionId", ctx.SessionID), zap.Error(aerr))
		}
	}

	c.JSON(http.StatusOK, result)
}

// GetSessionSummaryHandler returns the archived summary of an ended
// session, if still retained.
func (h *SessionHandler) GetSessionSummaryHandler(c *gin.Context) {
	sessionID := c.Param("sessionID")
	summary, err := h.Archive.Get(c.Request.Context(), sessionID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load session summary", err.Error())
		return
	}
	if summary == nil {
		utils.JSONError(c, http.StatusNotFound, "Session summary not found", sessionID)
		return
	}
	c.JSON(http.StatusOK, summary)
}
