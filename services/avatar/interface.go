package avatar

// SessionResult is the common response shape for avatar vendor calls.
// Fallback is set when the vendor is unreachable so the frontend can
// degrade to audio-only mode instead of failing the call.
type SessionResult struct {
	Success        bool   `json:"success"`
	ConversationID string `json:"conversation_id,omitempty"`
	SessionID      string `json:"session_id,omitempty"`
	URL            string `json:"url,omitempty"`
	StreamURL      string `json:"stream_url,omitempty"`
	Status         string `json:"status,omitempty"`
	Error          string `json:"error,omitempty"`
	Fallback       bool   `json:"fallback,omitempty"`
}

// Avatar describes one avatar offered by a vendor.
type Avatar struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Service is a pure request/response wrapper around an avatar vendor.
// No conversation state lives here.
type Service interface {
	// CreateSession starts a vendor avatar session bound to the given
	// realtime room URL and access token.
	CreateSession(roomURL, roomToken string) SessionResult
	// EndSession tears down a vendor session.
	EndSession(sessionID string) SessionResult
}
