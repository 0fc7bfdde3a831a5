package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"voicedesk/config"
	"voicedesk/utils"

	"github.com/gin-gonic/gin"
)

const roomTokenTTL = 2 * time.Hour

type tokenRequest struct {
	RoomName        string `json:"roomName"`
	ParticipantName string `json:"participantName"`
}

// GenerateTokenHandler issues a realtime room access token for the
// frontend. A missing room name gets a random appointment room.
func GenerateTokenHandler(c *gin.Context) {
	var req tokenRequest
	_ = c.ShouldBindJSON(&req)

	if req.RoomName == "" {
		suffix := make([]byte, 4)
		if _, err := rand.Read(suffix); err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "Failed to generate room name", err.Error())
			return
		}
		req.RoomName = fmt.Sprintf("appointment-room-%s", hex.EncodeToString(suffix))
	}
	if req.ParticipantName == "" {
		req.ParticipantName = "User"
	}

	token, err := utils.GenerateRoomToken(req.ParticipantName, req.RoomName, roomTokenTTL)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to generate token", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"url":      config.AppConfig.RealtimeURL,
		"roomName": req.RoomName,
	})
}
