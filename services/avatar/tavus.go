package avatar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"voicedesk/utils"

	"go.uber.org/zap"
)

const tavusAPIBase = "https://tavusapi.com/v2"

// Package-level HTTP client for avatar vendor calls.
var avatarHTTPClient = &http.Client{Timeout: 10 * time.Second}

// TavusService wraps the Tavus conversational-avatar API.
type TavusService struct {
	APIKey    string
	ReplicaID string
}

// NewTavusService returns a Tavus wrapper for the given credentials.
func NewTavusService(apiKey, replicaID string) *TavusService {
	return &TavusService{APIKey: apiKey, ReplicaID: replicaID}
}

type tavusConversationRequest struct {
	ReplicaID        string `json:"replica_id"`
	ConversationName string `json:"conversation_name"`
}

type tavusConversationResponse struct {
	ConversationID  string `json:"conversation_id"`
	ConversationURL string `json:"conversation_url"`
	Status          string `json:"status"`
}

// CreateSession creates a new Tavus conversation. Tavus hosts its own
// realtime transport, so the room URL and token are not used.
func (s *TavusService) CreateSession(roomURL, roomToken string) SessionResult {
	logger := utils.GetLogger()

	payload, err := json.Marshal(tavusConversationRequest{
		ReplicaID:        s.ReplicaID,
		ConversationName: "AI Appointment Assistant",
	})
	if err != nil {
		return SessionResult{Success: false, Error: err.Error(), Fallback: true}
	}

	req, err := http.NewRequest(http.MethodPost, tavusAPIBase+"/conversations", bytes.NewBuffer(payload))
	if err != nil {
		return SessionResult{Success: false, Error: err.Error(), Fallback: true}
	}
	req.Header.Set("x-api-key", s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := avatarHTTPClient.Do(req)
	if err != nil {
		logger.Error("Tavus API call failed", zap.Error(err))
		return SessionResult{Success: false, Error: err.Error(), Fallback: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("Tavus API returned non-OK status", zap.Int("status", resp.StatusCode))
		return SessionResult{
			Success:  false,
			Error:    fmt.Sprintf("tavus returned status %d", resp.StatusCode),
			Fallback: true,
		}
	}

	var data tavusConversationResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		logger.Error("Failed to decode Tavus response", zap.Error(err))
		return SessionResult{Success: false, Error: err.Error(), Fallback: true}
	}

	return SessionResult{
		Success:        true,
		ConversationID: data.ConversationID,
		URL:            data.ConversationURL,
		Status:         data.Status,
	}
}

// GetSessionStatus fetches the status of a Tavus conversation.
func (s *TavusService) GetSessionStatus(conversationID string) SessionResult {
	req, err := http.NewRequest(http.MethodGet, tavusAPIBase+"/conversations/"+conversationID, nil)
	if err != nil {
		return SessionResult{Success: false, Error: err.Error()}
	}
	req.Header.Set("x-api-key", s.APIKey)

	resp, err := avatarHTTPClient.Do(req)
	if err != nil {
		utils.GetLogger().Error("Tavus status call failed", zap.Error(err))
		return SessionResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SessionResult{Success: false, Error: fmt.Sprintf("tavus returned status %d", resp.StatusCode)}
	}

	var data tavusConversationResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return SessionResult{Success: false, Error: err.Error()}
	}
	return SessionResult{
		Success:        true,
		ConversationID: data.ConversationID,
		Status:         data.Status,
	}
}

// EndSession deletes a Tavus conversation.
func (s *TavusService) EndSession(conversationID string) SessionResult {
	req, err := http.NewRequest(http.MethodDelete, tavusAPIBase+"/conversations/"+conversationID, nil)
	if err != nil {
		return SessionResult{Success: false, Error: err.Error()}
	}
	req.Header.Set("x-api-key", s.APIKey)

	resp, err := avatarHTTPClient.Do(req)
	if err != nil {
		utils.GetLogger().Error("Tavus end call failed", zap.Error(err))
		return SessionResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return SessionResult{Success: false, Error: fmt.Sprintf("tavus returned status %d", resp.StatusCode)}
	}
	return SessionResult{Success: true, Status: "ended"}
}
