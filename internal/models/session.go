package models

import (
	"sync"
	"time"
)

// PreviousAnswer is one player's answer from the last resolved round, kept
// in member display order for the hint view.
type PreviousAnswer struct {
	// PlayerName is the display name of the player who gave the answer
	PlayerName string

	// Answer is the normalized answer text
	Answer string
}

// Session represents one running game, identified by its join code.
type Session struct {
	mu sync.Mutex

	// ID is the unique identifier for this session. Codes can be reused
	// once a session is destroyed; the ID never is.
	ID string

	// Code is the 4-letter join code players share
	Code string

	// OwnerID is the player ID of the session owner. Only the owner may
	// start a game.
	OwnerID string

	// Members are the joined players in join order, which is also the
	// display order in every view
	Members []*Player

	// Started indicates a game is in progress and the session is
	// collecting answers
	Started bool

	// Round is the current round number, starting at 1
	Round int

	// AnswersReceived counts the members that have answered in the
	// current round. It never exceeds len(Members).
	AnswersReceived int

	// History holds every answer accepted in any resolved round of the
	// current game. New answers must not collide with it.
	History []string

	// PreviousAnswers holds the last resolved round's answers, shown as
	// hints at the top of the round view
	PreviousAnswers []PreviousAnswer

	// Closed is set once the session has been removed from the registry.
	// Operations that raced with the removal check it after locking.
	Closed bool

	// CreatedAt is when the session was created
	CreatedAt time.Time

	// LastActivity is when the session last processed a mutating
	// operation
	LastActivity time.Time
}

// Lock serializes mutating operations against this session. Operations on
// different sessions proceed independently.
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock releases the session's lock
func (s *Session) Unlock() {
	s.mu.Unlock()
}
