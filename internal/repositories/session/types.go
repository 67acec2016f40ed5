package session

import "github.com/KirkDiggler/mindmeld/internal/models"

// CreateInput contains parameters for creating a session
type CreateInput struct {
	// Owner is the player creating the session. They become its sole
	// member immediately.
	Owner *models.Player
}

// GetInput contains parameters for retrieving a session
type GetInput struct {
	// Code is the session's join code
	Code string
}

// RemoveInput contains parameters for removing a session
type RemoveInput struct {
	// Code is the session's join code
	Code string
}
