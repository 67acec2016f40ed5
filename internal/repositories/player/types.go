package player

// GetOrCreateInput contains parameters for resolving a player on contact
type GetOrCreateInput struct {
	// PlayerID is the stable chat user ID
	PlayerID string

	// PlayerName is the display name, used only when the record is
	// created
	PlayerName string
}

// GetInput contains parameters for retrieving an existing player
type GetInput struct {
	// PlayerID is the stable chat user ID
	PlayerID string
}
