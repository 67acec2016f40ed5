package game

import (
	"time"

	"github.com/KirkDiggler/mindmeld/internal/common/clock"
	playerRepo "github.com/KirkDiggler/mindmeld/internal/repositories/player"
	sessionRepo "github.com/KirkDiggler/mindmeld/internal/repositories/session"
)

// Config holds configuration for the game service
type Config struct {
	// Registry owns active sessions
	Registry sessionRepo.Registry

	// Directory resolves players by their stable chat IDs
	Directory playerRepo.Directory

	// Clock provides activity timestamps
	Clock clock.Clock

	// AdminIDs is the fixed allow-list of identities permitted to
	// request an AdminDump
	AdminIDs []string
}

// CreateSessionInput contains parameters for creating a new session
type CreateSessionInput struct {
	// PlayerID is the stable chat user ID of the creator
	PlayerID string

	// PlayerName is the display name of the creator, used if the player
	// is seen for the first time
	PlayerName string

	// RenderTarget, when non-empty, re-attaches the creator's rendering
	// target. Interactive actions carry one; direct commands do not.
	RenderTarget string
}

// CreateSessionOutput contains the result of creating a session
type CreateSessionOutput struct {
	// Code is the join code of the new session
	Code string

	// Updates are the views to render, one per member
	Updates []*ViewUpdate
}

// JoinSessionInput contains parameters for joining a session
type JoinSessionInput struct {
	// Code is the join code, case-insensitive
	Code string

	// PlayerID is the stable chat user ID of the joining player
	PlayerID string

	// PlayerName is the display name of the joining player
	PlayerName string

	// RenderTarget, when non-empty, re-attaches the player's rendering
	// target
	RenderTarget string
}

// JoinSessionOutput contains the result of joining a session
type JoinSessionOutput struct {
	// Updates are the views to render, one per member
	Updates []*ViewUpdate
}

// StartSessionInput contains parameters for starting a game
type StartSessionInput struct {
	// Code is the join code of the session
	Code string

	// PlayerID is the acting player, who must be the owner
	PlayerID string

	// RenderTarget, when non-empty, re-attaches the player's rendering
	// target
	RenderTarget string
}

// StartSessionOutput contains the result of starting a game
type StartSessionOutput struct {
	// Updates are the round-1 views, one per member
	Updates []*ViewUpdate
}

// SubmitAnswerInput contains parameters for submitting an answer
type SubmitAnswerInput struct {
	// Code is the join code of the session
	Code string

	// PlayerID is the answering player
	PlayerID string

	// Text is the free-text answer
	Text string
}

// SubmitAnswerOutput contains the result of submitting an answer
type SubmitAnswerOutput struct {
	// Finished indicates the round resolved unanimously and the game is
	// over
	Finished bool

	// Updates are the views to render, one per member
	Updates []*ViewUpdate
}

// LeaveSessionInput contains parameters for leaving a session
type LeaveSessionInput struct {
	// Code is the join code of the session
	Code string

	// PlayerID is the departing player
	PlayerID string

	// RenderTarget, when non-empty, re-attaches the player's rendering
	// target
	RenderTarget string
}

// LeaveSessionOutput contains the result of leaving a session
type LeaveSessionOutput struct {
	// Closed indicates the last member left and the session was
	// destroyed
	Closed bool

	// Finished indicates the departure completed the round unanimously
	// and the game ended for the remaining members
	Finished bool

	// Updates are the views to render: the departing player's menu plus
	// one view per remaining member
	Updates []*ViewUpdate
}

// StatusRefreshInput contains parameters for refreshing one player's view
type StatusRefreshInput struct {
	// Code is the join code of the session
	Code string

	// PlayerID is the player whose view is re-rendered
	PlayerID string

	// RenderTarget, when non-empty, re-attaches the player's rendering
	// target. Re-attaching a fresh target is the usual reason to call
	// this operation.
	RenderTarget string
}

// StatusRefreshOutput contains the result of a status refresh
type StatusRefreshOutput struct {
	// Updates holds exactly one view, addressed to the requesting player
	Updates []*ViewUpdate
}

// AdminDumpInput contains parameters for requesting a diagnostic snapshot
type AdminDumpInput struct {
	// RequesterID must be on the configured admin allow-list
	RequesterID string
}

// SessionSnapshot is a read-only summary of one active session
type SessionSnapshot struct {
	ID              string
	Code            string
	OwnerID         string
	MemberNames     []string
	Started         bool
	Round           int
	AnswersReceived int
	HistorySize     int
	CreatedAt       time.Time
	LastActivity    time.Time
}

// PlayerSnapshot is a read-only summary of one known player
type PlayerSnapshot struct {
	ID           string
	Name         string
	SessionCode  string
	AwaitingCode bool
}

// AdminDumpOutput contains the diagnostic snapshot
type AdminDumpOutput struct {
	Sessions []*SessionSnapshot
	Players  []*PlayerSnapshot
}
