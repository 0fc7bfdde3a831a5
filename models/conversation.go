package models

import "time"

// HistoryEntry is a single turn in the conversation transcript.
type HistoryEntry struct {
	Role      string         `json:"role"` // "user" or "assistant"
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// IntentClassification is the output of an intent classifier for one
// utterance: a known intent name (or IntentUnknown) plus the extracted
// entities matching that intent's argument names.
type IntentClassification struct {
	Intent   string         `json:"intent"`
	Entities map[string]any `json:"entities"`
}

// DispatchResult is the structured outcome of one dispatch call. It is
// returned in-band for every outcome; Success=false carries a
// user-facing Error rather than a raw fault.
type DispatchResult struct {
	Success        bool           `json:"success"`
	Message        string         `json:"message,omitempty"`
	Error          string         `json:"error,omitempty"`
	Intent         string         `json:"intent,omitempty"`
	Entities       map[string]any `json:"entities,omitempty"`
	CurrentState   string         `json:"current_state,omitempty"`
	Suggestions    []string       `json:"suggestions,omitempty"`
	RequiredParams []string       `json:"required_params,omitempty"`

	// Intent-specific payloads.
	Phone          string          `json:"phone,omitempty"`
	Name           string          `json:"name,omitempty"`
	Slots          []AvailableSlot `json:"slots,omitempty"`
	TotalAvailable int             `json:"total_available,omitempty"`
	Appointment    *Appointment    `json:"appointment,omitempty"`
	Appointments   []Appointment   `json:"appointments,omitempty"`
	ConfirmationID string          `json:"confirmation_id,omitempty"`
	Summary        *SessionSummary `json:"summary,omitempty"`
}

// SessionSummary is produced by end_conversation and archived when a
// session is torn down.
type SessionSummary struct {
	SessionID         string       `json:"session_id"`
	UserPhone         string       `json:"user_phone,omitempty"`
	UserName          string       `json:"user_name,omitempty"`
	ConversationTurns int          `json:"conversation_turns"`
	DurationSeconds   int          `json:"duration_seconds"`
	IntentsIdentified []string     `json:"intents_identified"`
	FinalState        string       `json:"final_state"`
	PendingAppointment *Appointment `json:"pending_appointment,omitempty"`
	Timestamp         time.Time    `json:"timestamp"`
}
