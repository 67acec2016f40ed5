package models

import "sync"

// Player represents a chat user known to the bot. Players are created on
// first contact and live for the lifetime of the process, possibly moving
// through many sessions.
type Player struct {
	mu sync.Mutex

	// ID is the stable chat user ID of the player
	ID string

	// Name is the display name of the player
	Name string

	// RenderTarget is an opaque reference to the message the transport
	// last rendered for this player. Only interactive actions carry one;
	// plain text input leaves the previous target in place.
	RenderTarget string

	// AwaitingCode is set while the player has been prompted for a
	// session code, so their next text input is treated as one
	AwaitingCode bool

	// SessionCode is the code of the session the player is currently in,
	// or "" when the player is not in a session
	SessionCode string

	// Answer is the player's normalized answer for the current round,
	// or "" while the round is still pending for them
	Answer string
}

// Lock guards the player's mutable fields. When a session lock is also
// needed it must be taken first.
func (p *Player) Lock() {
	p.mu.Lock()
}

// Unlock releases the player's lock
func (p *Player) Unlock() {
	p.mu.Unlock()
}
