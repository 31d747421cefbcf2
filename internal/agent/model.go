package agent

import (
	"context"
	"errors"
	"time"

	"github.com/sahayak/qa-service/internal/qa"
)

// Session is a conversation owned by one user, carrying the state the QA tools read and write.
type Session struct {
	ID        string    `json:"id"`
	AppName   string    `json:"app_name"`
	UserID    string    `json:"user_id"`
	State     *State    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateInput captures the data required to open a session.
type CreateInput struct {
	UserID   string
	Language string
}

// Store encapsulates session persistence.
type Store interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, userID, sessionID string) (*Session, error)
	Delete(ctx context.Context, userID, sessionID string) error
	ListByUser(ctx context.Context, userID string) ([]*Session, error)
	Touch(ctx context.Context, userID, sessionID string, at time.Time) error
	Purge(ctx context.Context, idleBefore time.Time) (int, error)
}

var (
	// ErrNotFound indicates the session does not exist for the user.
	ErrNotFound = errors.New("session not found")
	// ErrConflict indicates a duplicate session identifier.
	ErrConflict = errors.New("session already exists")
	// ErrInvalidInput indicates the provided data failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownTool indicates a call to a tool that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidArguments indicates tool arguments are missing or mistyped.
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

// Clock delivers the current time; extracted for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator produces unique identifiers for new sessions.
type IDGenerator interface {
	NewID() string
}

var _ qa.SessionState = (*State)(nil)
