package service

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ozcotech/denklem/backend/config"
	"github.com/ozcotech/denklem/backend/model"
)

// ErrSessionNotFound is returned for unknown or foreign session ids
var ErrSessionNotFound = errors.New("session not found")

// Session is a stateful deadline calculation owned by one office
type Session struct {
	ID         string
	Office     string
	Calculator *Calculator
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SessionStore keeps calculation sessions in memory for the process lifetime
type SessionStore struct {
	sessions    map[string]*Session
	mu          sync.RWMutex
	table       model.WeekOffsetTable
	maxSessions int // Maximum sessions to keep, 0 = unlimited
}

// NewSessionStore creates a store whose calculators read table
func NewSessionStore(cfg *config.StoreConfig, table model.WeekOffsetTable) *SessionStore {
	maxSessions := cfg.MaxSessions
	if maxSessions < 0 {
		maxSessions = 0
	}
	slog.Info("session store initialized", "max_sessions", maxSessions)
	return &SessionStore{
		sessions:    make(map[string]*Session),
		table:       table,
		maxSessions: maxSessions,
	}
}

// Create starts a new session for office
func (s *SessionStore) Create(office string) *Session {
	now := time.Now()
	session := &Session{
		ID:         uuid.New().String(),
		Office:     office,
		Calculator: NewCalculator(s.table),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	s.cleanupIfNeeded()
	return session
}

// Get returns the session if it exists and belongs to office
func (s *SessionStore) Get(office, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok || session.Office != office {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// UpdateCategory sets the category of a session's calculator
func (s *SessionStore) UpdateCategory(office, id string, category model.DisputeCategory) (*Session, error) {
	return s.update(office, id, func(c *Calculator) { c.UpdateCategory(category) })
}

// UpdateStartDate sets the start date of a session's calculator
func (s *SessionStore) UpdateStartDate(office, id string, start time.Time) (*Session, error) {
	return s.update(office, id, func(c *Calculator) { c.UpdateStartDate(start) })
}

func (s *SessionStore) update(office, id string, fn func(*Calculator)) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok || session.Office != office {
		return nil, ErrSessionNotFound
	}
	fn(session.Calculator)
	session.UpdatedAt = time.Now()
	return session, nil
}

// Delete removes a session owned by office
func (s *SessionStore) Delete(office, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok || session.Office != office {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Count returns the number of sessions in the store
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// cleanupIfNeeded removes the oldest sessions once the store exceeds maxSessions
// Must be called with lock held
func (s *SessionStore) cleanupIfNeeded() {
	if s.maxSessions <= 0 || len(s.sessions) <= s.maxSessions {
		return
	}

	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.Before(sessions[j].UpdatedAt)
	})

	removeCount := len(sessions) - s.maxSessions
	for i := 0; i < removeCount; i++ {
		slog.Info("evicting idle session",
			"session_id", sessions[i].ID,
			"updated_at", sessions[i].UpdatedAt,
		)
		delete(s.sessions, sessions[i].ID)
	}
}
