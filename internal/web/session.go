package web

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Speaker identifies who produced a transcript turn.
type Speaker string

const (
	// SpeakerUser marks a turn typed by the person at the browser.
	SpeakerUser Speaker = "User"
	// SpeakerAssistant marks a turn produced by the assistant.
	SpeakerAssistant Speaker = "Assistant"
)

// Turn is one line of a session transcript.
type Turn struct {
	Speaker Speaker
	Text    string
	At      time.Time
}

// Session holds the transcript for one browser session. Turns are append-only
// and live only as long as the session itself.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
	turns    []Turn
}

// Append adds turns to the transcript and refreshes the idle timer.
func (s *Session) Append(turns ...Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turns...)
	s.lastSeen = time.Now()
}

// Turns returns a copy of the transcript in insertion order.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionManager owns the in-memory session table. Sessions expire after an
// idle TTL; expiry is driven by the session_cleanup scheduled task.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates an empty session table.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Get returns the session with the given id, refreshing its idle timer.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		s.touch()
	}
	return s, ok
}

// Create registers and returns a new session with a random id.
func (m *SessionManager) Create() *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		lastSeen:  now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Len reports the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// PruneIdle removes sessions idle for longer than ttl and reports how many
// were removed.
func (m *SessionManager) PruneIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
