package player

import (
	"context"
	"errors"
	"sync"

	"github.com/KirkDiggler/mindmeld/internal/models"
)

// ErrPlayerNotFound is returned when a player is not found
var ErrPlayerNotFound = errors.New("player not found")

// memoryDirectory implements the Directory interface with a process-wide map
type memoryDirectory struct {
	mu      sync.RWMutex
	players map[string]*models.Player
}

// NewMemory creates a new in-memory player directory
func NewMemory() *memoryDirectory {
	return &memoryDirectory{
		players: make(map[string]*models.Player),
	}
}

// GetOrCreate returns the player with the given ID, creating the record on
// first contact
func (d *memoryDirectory) GetOrCreate(ctx context.Context, input *GetOrCreateInput) (*models.Player, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.players[input.PlayerID]; ok {
		return p, nil
	}

	p := &models.Player{
		ID:   input.PlayerID,
		Name: input.PlayerName,
	}
	d.players[input.PlayerID] = p

	return p, nil
}

// Get retrieves an existing player
func (d *memoryDirectory) Get(ctx context.Context, input *GetInput) (*models.Player, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.players[input.PlayerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	return p, nil
}

// ListPlayers returns every known player
func (d *memoryDirectory) ListPlayers(ctx context.Context) ([]*models.Player, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	players := make([]*models.Player, 0, len(d.players))
	for _, p := range d.players {
		players = append(players, p)
	}

	return players, nil
}
