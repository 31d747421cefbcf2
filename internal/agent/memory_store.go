package agent

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryStore struct {
	mu    sync.RWMutex
	store map[string]map[string]Session // userID -> sessionID -> Session
}

// NewMemoryStore returns an in-process Store. Sessions are lost on restart.
func NewMemoryStore() Store {
	return &memoryStore{
		store: make(map[string]map[string]Session),
	}
}

func (s *memoryStore) Create(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userStore, ok := s.store[session.UserID]
	if !ok {
		userStore = make(map[string]Session)
		s.store[session.UserID] = userStore
	}

	if _, exists := userStore[session.ID]; exists {
		return ErrConflict
	}

	userStore[session.ID] = *session
	return nil
}

func (s *memoryStore) Get(_ context.Context, userID, sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.store[userID][sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (s *memoryStore) Delete(_ context.Context, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userStore, ok := s.store[userID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := userStore[sessionID]; !ok {
		return ErrNotFound
	}

	delete(userStore, sessionID)
	if len(userStore) == 0 {
		delete(s.store, userID)
	}
	return nil
}

func (s *memoryStore) ListByUser(_ context.Context, userID string) ([]*Session, error) {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.store[userID]))
	for _, session := range s.store[userID] {
		sessions = append(sessions, &session)
	}
	s.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].UpdatedAt.Equal(sessions[j].UpdatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

func (s *memoryStore) Touch(_ context.Context, userID, sessionID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.store[userID][sessionID]
	if !ok {
		return ErrNotFound
	}
	session.UpdatedAt = at
	s.store[userID][sessionID] = session
	return nil
}

func (s *memoryStore) Purge(_ context.Context, idleBefore time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for userID, userStore := range s.store {
		for id, session := range userStore {
			if session.UpdatedAt.Before(idleBefore) {
				delete(userStore, id)
				purged++
			}
		}
		if len(userStore) == 0 {
			delete(s.store, userID)
		}
	}
	return purged, nil
}
