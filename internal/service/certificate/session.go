package certificate

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mamadbah2/matcert/internal/domain/models"
)

// Session couples a Store with the bookkeeping needed to expire it.
type Session struct {
	ID string

	mu       sync.Mutex
	store    *Store
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's store.
func (s *Session) Do(now time.Time, fn func(*Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
	return fn(s.store)
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SessionManager tracks one Store per client session.
type SessionManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	numbers  *NumberGenerator
	now      func() time.Time
}

// NewSessionManager creates an empty manager.
func NewSessionManager(numbers *NumberGenerator) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		numbers:  numbers,
		now:      time.Now,
	}
}

// CreateSession starts a session with a fresh record.
func (sm *SessionManager) CreateSession() *Session {
	now := sm.now()
	sess := &Session{
		ID:       uuid.NewString(),
		store:    NewStore(sm.numbers, sm.now),
		lastSeen: now,
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[sess.ID] = sess
	return sess
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sess, ok := sm.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown session %s", models.ErrLookup, id)
	}
	return sess, nil
}

// ClearSession removes a session, discarding its record.
func (sm *SessionManager) ClearSession(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.sessions[id]; !ok {
		return fmt.Errorf("%w: unknown session %s", models.ErrLookup, id)
	}
	delete(sm.sessions, id)
	return nil
}

// SweepIdle drops sessions untouched for longer than ttl and returns how many were removed.
func (sm *SessionManager) SweepIdle(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := sm.now().Add(-ttl)

	sm.mu.Lock()
	defer sm.mu.Unlock()
	removed := 0
	for id, sess := range sm.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(sm.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (sm *SessionManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Now returns the manager clock reading.
func (sm *SessionManager) Now() time.Time {
	return sm.now()
}
