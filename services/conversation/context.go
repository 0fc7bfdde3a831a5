package conversation

import (
	"time"

	"voicedesk/models"
)

// Context is the mutable per-session conversation record. It is owned
// by exactly one session; all mutation must be serialized by the
// Registry's per-session lock.
type Context struct {
	State              State
	UserPhone          string
	UserName           string
	PendingAppointment *models.Appointment
	History            []models.HistoryEntry
	IdentifiedIntents  []string
	SessionID          string
	StartedAt          time.Time
}

// NewContext returns a fresh unidentified context for the given session.
func NewContext(sessionID string) *Context {
	return &Context{
		State:     StateUnidentified,
		SessionID: sessionID,
		StartedAt: time.Now(),
	}
}

// CanTransitionTo reports whether the context may move to target.
func (c *Context) CanTransitionTo(target State) bool {
	return CanTransition(c.State, target)
}

// TransitionTo moves the context to target if the transition is legal.
// On an illegal transition the state is left untouched and false is
// returned; it never panics.
func (c *Context) TransitionTo(target State) bool {
	if !c.CanTransitionTo(target) {
		return false
	}
	c.State = target
	return true
}

// IsIdentified reports whether the caller has been identified. The
// phone field and the state are kept in lock-step: identification sets
// both, and nothing else sets either.
func (c *Context) IsIdentified() bool {
	return c.UserPhone != "" && c.State != StateUnidentified
}

// AddToHistory appends one turn to the transcript.
func (c *Context) AddToHistory(role, content string, metadata map[string]any) {
	c.History = append(c.History, models.HistoryEntry{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Metadata:  metadata,
	})
}

// Summary builds the session summary returned by end_conversation and
// archived at teardown.
func (c *Context) Summary() *models.SessionSummary {
	return &models.SessionSummary{
		SessionID:          c.SessionID,
		UserPhone:          c.UserPhone,
		UserName:           c.UserName,
		ConversationTurns:  len(c.History),
		DurationSeconds:    int(time.Since(c.StartedAt).Seconds()),
		IntentsIdentified:  c.IdentifiedIntents,
		FinalState:         string(c.State),
		PendingAppointment: c.PendingAppointment,
		Timestamp:          time.Now(),
	}
}
