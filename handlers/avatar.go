package handlers

import (
	"net/http"

	"voicedesk/config"
	"voicedesk/services/avatar"
	"voicedesk/utils"

	"github.com/gin-gonic/gin"
)

// AvatarHandler exposes the avatar vendor wrappers. Vendor failures are
// reported with fallback=true so the frontend can continue audio-only.
type AvatarHandler struct {
	Tavus  *avatar.TavusService
	Beyond *avatar.BeyondPresenceService
}

// NewAvatarHandler returns an AvatarHandler over both vendors.
func NewAvatarHandler(tavus *avatar.TavusService, beyond *avatar.BeyondPresenceService) *AvatarHandler {
	return &AvatarHandler{Tavus: tavus, Beyond: beyond}
}

type createAvatarRequest struct {
	RoomName string `json:"roomName"`
	Token    string `json:"token"`
}

// CreateAvatarSessionHandler starts a Beyond Presence avatar session
// bound to an existing realtime room.
func (h *AvatarHandler) CreateAvatarSessionHandler(c *gin.Context) {
	var req createAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RoomName == "" || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":  false,
			"error":    "Missing roomName or token",
			"fallback": true,
		})
		return
	}

	result := h.Beyond.CreateSession(config.AppConfig.RealtimeURL, req.Token)
	if !result.Success {
		c.JSON(http.StatusOK, result) // fallback mode, not an HTTP failure
		return
	}
	c.JSON(http.StatusOK, result)
}

// EndAvatarSessionHandler tears down a Beyond Presence session.
func (h *AvatarHandler) EndAvatarSessionHandler(c *gin.Context) {
	result := h.Beyond.EndSession(c.Param("sessionID"))
	c.JSON(http.StatusOK, result)
}

// ListAvatarsHandler lists the Beyond Presence avatars on the account.
func (h *AvatarHandler) ListAvatarsHandler(c *gin.Context) {
	avatars, err := h.Beyond.ListAvatars()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list avatars", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "avatars": avatars})
}

// CreateTavusConversationHandler creates a Tavus-hosted conversation.
func (h *AvatarHandler) CreateTavusConversationHandler(c *gin.Context) {
	result := h.Tavus.CreateSession("", "")
	c.JSON(http.StatusOK, result)
}

// GetTavusConversationHandler fetches a Tavus conversation's status.
func (h *AvatarHandler) GetTavusConversationHandler(c *gin.Context) {
	result := h.Tavus.GetSessionStatus(c.Param("conversationID"))
	c.JSON(http.StatusOK, result)
}

// EndTavusConversationHandler ends a Tavus conversation.
func (h *AvatarHandler) EndTavusConversationHandler(c *gin.Context) {
	result := h.Tavus.EndSession(c.Param("conversationID"))
	c.JSON(http.StatusOK, result)
}
