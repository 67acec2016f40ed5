package game

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/mindmeld/internal/services/game Service

// Service defines the interface for session operations. Every operation
// resolves the acting player through the player directory, so an unknown
// player is registered on first contact.
type Service interface {
	// CreateSession opens a new session with the acting player as owner
	// and sole member
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)

	// JoinSession adds a player to a lobby session
	JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error)

	// StartSession begins round 1. Owner only, needs at least two
	// members.
	StartSession(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, error)

	// SubmitAnswer records a player's answer for the current round and
	// resolves the round once every member has answered
	SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error)

	// LeaveSession removes a player from a session, destroying the
	// session when the last member leaves
	LeaveSession(ctx context.Context, input *LeaveSessionInput) (*LeaveSessionOutput, error)

	// StatusRefresh re-renders the current view for a single player
	// without touching shared state
	StatusRefresh(ctx context.Context, input *StatusRefreshInput) (*StatusRefreshOutput, error)

	// AdminDump returns a read-only snapshot of all sessions and
	// players. Allow-listed requesters only.
	AdminDump(ctx context.Context, input *AdminDumpInput) (*AdminDumpOutput, error)
}
