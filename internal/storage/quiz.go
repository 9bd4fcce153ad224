package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/aliskhannn/ap-prep/internal/domain/entities"
)

var ErrSessionNotFound = errors.New("quiz session not found")

type storedSession struct {
	mu      sync.Mutex
	owner   string
	session *entities.QuizSession
	touched time.Time
}

// QuizStorage provides in-memory storage for active quiz sessions by session ID.
// An owner has at most one session per bank slug.
type QuizStorage struct {
	mu       sync.RWMutex
	sessions map[string]*storedSession
	active   map[string]string // owner + slug -> session ID
	now      func() time.Time
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage() *QuizStorage {
	return &QuizStorage{
		sessions: make(map[string]*storedSession),
		active:   make(map[string]string),
		now:      time.Now,
	}
}

// Store saves a session for owner, replacing the owner's previous session for the same slug.
func (s *QuizStorage) Store(owner string, session *entities.QuizSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := activeKey(owner, session.Slug)
	if prev, ok := s.active[key]; ok {
		delete(s.sessions, prev)
	}

	s.sessions[session.ID] = &storedSession{
		owner:   owner,
		session: session,
		touched: s.now(),
	}
	s.active[key] = session.ID
}

// Update runs fn with exclusive access to the session. fn receives the session owner.
func (s *QuizStorage) Update(id string, fn func(owner string, session *entities.QuizSession) error) error {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.touched = s.now()
	return fn(entry.owner, entry.session)
}

// Delete removes a session.
func (s *QuizStorage) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(id)
}

// DeleteIdle removes sessions not touched within ttl and returns how many were removed.
func (s *QuizStorage) DeleteIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	removed := 0
	for id, entry := range s.sessions {
		entry.mu.Lock()
		idle := entry.touched.Before(cutoff)
		entry.mu.Unlock()

		if idle {
			s.deleteLocked(id)
			removed++
		}
	}

	return removed
}

// Len returns the number of stored sessions.
func (s *QuizStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *QuizStorage) deleteLocked(id string) {
	entry, ok := s.sessions[id]
	if !ok {
		return
	}
	delete(s.sessions, id)

	key := activeKey(entry.owner, entry.session.Slug)
	if s.active[key] == id {
		delete(s.active, key)
	}
}

func activeKey(owner, slug string) string {
	return owner + "\x00" + slug
}
