package conversation

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session id has no live context.
var ErrSessionNotFound = errors.New("session not found")

// Session pairs a conversation context with the lock that serializes
// access to it. One utterance must be fully classified, validated,
// executed, and recorded before the next is accepted.
type Session struct {
	mu  sync.Mutex
	Ctx *Context
}

// WithLock runs fn while holding the session's exclusive lock for the
// duration of a dispatch call.
func (s *Session) WithLock(fn func(c *Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.Ctx)
}

// Registry owns the live conversation contexts, keyed by session id,
// with an explicit create/destroy lifecycle. Contexts are independent;
// the registry lock only guards the map itself.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry returns an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create allocates a fresh unidentified context. An empty sessionID is
// replaced with a generated one.
func (r *Registry) Create(sessionID string) *Session {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	s := &Session{Ctx: NewContext(sessionID)}

	r.mu.Lock()
	r.sessions[sessionID] = s
	r.mu.Unlock()
	return s
}

// Get returns the live session for the given id.
func (r *Registry) Get(sessionID string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Destroy removes the session and returns its context for archiving.
func (r *Registry) Destroy(sessionID string) (*Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	return s.Ctx, nil
}

// Snapshot returns the ids of all live sessions.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}
