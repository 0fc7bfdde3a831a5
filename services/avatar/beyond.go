package avatar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"voicedesk/utils"

	"go.uber.org/zap"
)

const beyondPresenceAPIBase = "https://api.bey.dev/v1"

// BeyondPresenceService wraps the Beyond Presence lip-synced avatar
// API. Its sessions attach to an existing realtime room for audio.
type BeyondPresenceService struct {
	APIKey   string
	AvatarID string
}

// NewBeyondPresenceService returns a Beyond Presence wrapper.
func NewBeyondPresenceService(apiKey, avatarID string) *BeyondPresenceService {
	return &BeyondPresenceService{APIKey: apiKey, AvatarID: avatarID}
}

type beyondSessionRequest struct {
	AvatarID string `json:"avatar_id"`
	URL      string `json:"url"`
	Token    string `json:"token"`
}

type beyondSessionResponse struct {
	SessionID string `json:"session_id"`
	StreamURL string `json:"stream_url"`
	Status    string `json:"status"`
}

// ListAvatars returns the avatars available to this account.
func (s *BeyondPresenceService) ListAvatars() ([]Avatar, error) {
	req, err := http.NewRequest(http.MethodGet, beyondPresenceAPIBase+"/avatars", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := avatarHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("beyond presence avatars call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("beyond presence returned status %d", resp.StatusCode)
	}

	var body struct {
		Data []Avatar `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode avatars response: %w", err)
	}
	return body.Data, nil
}

// CreateSession starts a Beyond Presence session bound to the given
// realtime room so the avatar lip-syncs to the room's audio.
func (s *BeyondPresenceService) CreateSession(roomURL, roomToken string) SessionResult {
	logger := utils.GetLogger()

	payload, err := json.Marshal(beyondSessionRequest{
		AvatarID: s.AvatarID,
		URL:      roomURL,
		Token:    roomToken,
	})
	if err != nil {
		return SessionResult{Success: false, Error: err.Error(), Fallback: true}
	}

	req, err := http.NewRequest(http.MethodPost, beyondPresenceAPIBase+"/sessions", bytes.NewBuffer(payload))
	if err != nil {
		return SessionResult{Success: false, Error: err.Error(), Fallback: true}
	}
	req.Header.Set("x-api-key", s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := avatarHTTPClient.Do(req)
	if err != nil {
		logger.Error("Beyond Presence API call failed", zap.Error(err))
		return SessionResult{Success: false, Error: err.Error(), Fallback: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		logger.Error("Beyond Presence returned non-OK status", zap.Int("status", resp.StatusCode))
		return SessionResult{
			Success:  false,
			Error:    fmt.Sprintf("beyond presence returned status %d", resp.StatusCode),
			Fallback: true,
		}
	}

	var data beyondSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		logger.Error("Failed to decode Beyond Presence response", zap.Error(err))
		return SessionResult{Success: false, Error: err.Error(), Fallback: true}
	}

	return SessionResult{
		Success:   true,
		SessionID: data.SessionID,
		StreamURL: data.StreamURL,
		Status:    data.Status,
	}
}

// EndSession tears down a Beyond Presence session.
func (s *BeyondPresenceService) EndSession(sessionID string) SessionResult {
	req, err := http.NewRequest(http.MethodDelete, beyondPresenceAPIBase+"/sessions/"+sessionID, nil)
	if err != nil {
		return SessionResult{Success: false, Error: err.Error()}
	}
	req.Header.Set("x-api-key", s.APIKey)

	resp, err := avatarHTTPClient.Do(req)
	if err != nil {
		utils.GetLogger().Error("Beyond Presence end call failed", zap.Error(err))
		return SessionResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return SessionResult{Success: false, Error: fmt.Sprintf("beyond presence returned status %d", resp.StatusCode)}
	}
	return SessionResult{Success: true, Status: "ended"}
}
