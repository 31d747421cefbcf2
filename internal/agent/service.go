package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/sahayak/qa-service/internal/qa"
)

// Service manages agent sessions and runs QA tools against their state.
type Service struct {
	appName string
	store   Store
	tools   *Toolset
	clock   Clock
	ids     IDGenerator
	logger  *slog.Logger
}

// NewService constructs a Service instance with the provided collaborators.
func NewService(appName string, store Store, tools *Toolset, clock Clock, ids IDGenerator, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if tools == nil {
		return nil, errors.New("toolset is required")
	}
	if clock == nil {
		return nil, errors.New("clock is required")
	}
	if ids == nil {
		return nil, errors.New("id generator is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{appName: appName, store: store, tools: tools, clock: clock, ids: ids, logger: logger}, nil
}

// Tools exposes the registered toolset.
func (s *Service) Tools() *Toolset {
	return s.tools
}

// Create opens a session, optionally seeding the language preference.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Session, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	state := NewState(nil)
	if strings.TrimSpace(input.Language) != "" {
		lang, ok := qa.ParseLanguage(input.Language)
		if !ok {
			return nil, fmt.Errorf("%w: unsupported language %q", ErrInvalidInput, input.Language)
		}
		if err := qa.SetPreference(state, lang); err != nil {
			return nil, fmt.Errorf("seed preference: %w", err)
		}
	}

	now := s.clock.Now().UTC()
	session := &Session{
		ID:        s.ids.NewID(),
		AppName:   s.appName,
		UserID:    input.UserID,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Get returns one of the user's sessions.
func (s *Service) Get(ctx context.Context, userID, sessionID string) (*Session, error) {
	if userID == "" || sessionID == "" {
		return nil, ErrNotFound
	}
	return s.store.Get(ctx, userID, sessionID)
}

// List returns the user's sessions, most recently used first.
func (s *Service) List(ctx context.Context, userID string) ([]*Session, error) {
	if userID == "" {
		return nil, ErrNotFound
	}
	return s.store.ListByUser(ctx, userID)
}

// Delete removes one of the user's sessions.
func (s *Service) Delete(ctx context.Context, userID, sessionID string) error {
	if userID == "" || sessionID == "" {
		return ErrNotFound
	}
	return s.store.Delete(ctx, userID, sessionID)
}

// Invoke runs a tool call against the session's state.
func (s *Service) Invoke(ctx context.Context, userID, sessionID string, call *genai.FunctionCall) (*genai.FunctionResponse, error) {
	session, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.tools.Call(ctx, session.State, call)
	if err != nil {
		return nil, err
	}

	if err := s.store.Touch(ctx, userID, sessionID, s.clock.Now().UTC()); err != nil {
		// The session may have been purged mid-call; the result is still valid.
		s.logger.WarnContext(ctx, "touch session failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
	return result, nil
}

// PurgeIdle drops sessions untouched for longer than ttl.
func (s *Service) PurgeIdle(ctx context.Context, ttl time.Duration) (int, error) {
	return s.store.Purge(ctx, s.clock.Now().UTC().Add(-ttl))
}

// RunJanitor purges idle sessions every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := s.PurgeIdle(ctx, ttl)
			if err != nil {
				s.logger.WarnContext(ctx, "purge idle sessions failed", slog.String("error", err.Error()))
				continue
			}
			if purged > 0 {
				s.logger.InfoContext(ctx, "purged idle sessions", slog.Int("count", purged))
			}
		}
	}
}
