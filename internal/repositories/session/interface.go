package session

//go:generate mockgen -package=mocks -destination=mocks/mock_registry.go github.com/KirkDiggler/mindmeld/internal/repositories/session Registry

import (
	"context"

	"github.com/KirkDiggler/mindmeld/internal/models"
)

// Registry owns the lifetime of active sessions, keyed by join code. No two
// active sessions ever share a code, and two concurrent Create calls are
// never assigned the same one.
type Registry interface {
	// Create generates an unused code and registers a new session with
	// the owner as its sole member
	Create(ctx context.Context, input *CreateInput) (*models.Session, error)

	// Get retrieves an active session by code
	Get(ctx context.Context, input *GetInput) (*models.Session, error)

	// Remove deletes a session from the registry, freeing its code.
	// Called only when the session has no members left.
	Remove(ctx context.Context, input *RemoveInput) error

	// ListSessions returns every active session
	ListSessions(ctx context.Context) ([]*models.Session, error)
}
