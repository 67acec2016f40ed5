package session

import (
	"context"
	"errors"
	"sync"

	"github.com/KirkDiggler/mindmeld/internal/common/clock"
	"github.com/KirkDiggler/mindmeld/internal/common/code"
	"github.com/KirkDiggler/mindmeld/internal/common/uuid"
	"github.com/KirkDiggler/mindmeld/internal/models"
)

// ErrSessionNotFound is returned when no active session has the given code
var ErrSessionNotFound = errors.New("session not found")

// Config holds configuration for the in-memory session registry
type Config struct {
	// CodeGenerator produces candidate join codes
	CodeGenerator code.Generator

	// Clock provides session timestamps
	Clock clock.Clock

	// UUIDGenerator produces stable session IDs
	UUIDGenerator uuid.UUID
}

// memoryRegistry implements the Registry interface with a mutex-guarded map
type memoryRegistry struct {
	mu       sync.Mutex
	codeGen  code.Generator
	clock    clock.Clock
	uuidGen  uuid.UUID
	sessions map[string]*models.Session
}

// NewMemory creates a new in-memory session registry
func NewMemory(cfg *Config) (*memoryRegistry, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.CodeGenerator == nil {
		return nil, errors.New("code generator cannot be nil")
	}

	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	if cfg.UUIDGenerator == nil {
		return nil, errors.New("UUID generator cannot be nil")
	}

	return &memoryRegistry{
		codeGen:  cfg.CodeGenerator,
		clock:    cfg.Clock,
		uuidGen:  cfg.UUIDGenerator,
		sessions: make(map[string]*models.Session),
	}, nil
}

// Create generates an unused code and registers a new session with the
// owner as its sole member
func (r *memoryRegistry) Create(ctx context.Context, input *CreateInput) (*models.Session, error) {
	if input == nil || input.Owner == nil {
		return nil, errors.New("input and owner cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Sample until the code is not an active key. The code space is
	// 26^4, so the loop terminates quickly at any realistic session
	// count.
	var sessionCode string
	for {
		sessionCode = r.codeGen.Generate()
		if _, taken := r.sessions[sessionCode]; !taken {
			break
		}
	}

	now := r.clock.Now()
	sess := &models.Session{
		ID:           r.uuidGen.NewUUID(),
		Code:         sessionCode,
		OwnerID:      input.Owner.ID,
		Members:      []*models.Player{input.Owner},
		Round:        1,
		CreatedAt:    now,
		LastActivity: now,
	}

	// The owner's back-reference is set before the session becomes
	// visible to lookups
	input.Owner.Lock()
	input.Owner.SessionCode = sessionCode
	input.Owner.Answer = ""
	input.Owner.Unlock()

	r.sessions[sessionCode] = sess

	return sess, nil
}

// Get retrieves an active session by code
func (r *memoryRegistry) Get(ctx context.Context, input *GetInput) (*models.Session, error) {
	if input == nil || input.Code == "" {
		return nil, errors.New("input and code cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[input.Code]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return sess, nil
}

// Remove deletes a session from the registry, freeing its code
func (r *memoryRegistry) Remove(ctx context.Context, input *RemoveInput) error {
	if input == nil || input.Code == "" {
		return errors.New("input and code cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[input.Code]; !ok {
		return ErrSessionNotFound
	}

	delete(r.sessions, input.Code)

	return nil
}

// ListSessions returns every active session
func (r *memoryRegistry) ListSessions(ctx context.Context) ([]*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := make([]*models.Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		sessions = append(sessions, sess)
	}

	return sessions, nil
}
