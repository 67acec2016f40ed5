package player

//go:generate mockgen -package=mocks -destination=mocks/mock_directory.go github.com/KirkDiggler/mindmeld/internal/repositories/player Directory

import (
	"context"

	"github.com/KirkDiggler/mindmeld/internal/models"
)

// Directory tracks every player that has ever contacted the bot. Records
// are created lazily on first contact and never destroyed.
type Directory interface {
	// GetOrCreate returns the player with the given ID, creating the
	// record on first contact
	GetOrCreate(ctx context.Context, input *GetOrCreateInput) (*models.Player, error)

	// Get retrieves an existing player
	Get(ctx context.Context, input *GetInput) (*models.Player, error)

	// ListPlayers returns every known player
	ListPlayers(ctx context.Context) ([]*models.Player, error)
}
