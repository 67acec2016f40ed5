package game

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrSessionNotFound       GameError = "session not found"
	ErrSessionAlreadyStarted GameError = "session already started"
	ErrSessionNotStarted     GameError = "session not started"
	ErrInsufficientPlayers   GameError = "at least two players are required"
	ErrDuplicateAnswer       GameError = "answer already used in this session"
	ErrPlayerNotInSession    GameError = "player not in this session"
	ErrNotAuthorized         GameError = "not authorized"
	ErrNilConfig             GameError = "config cannot be nil"
	ErrNilRegistry           GameError = "session registry cannot be nil"
	ErrNilDirectory          GameError = "player directory cannot be nil"
	ErrNilClock              GameError = "clock cannot be nil"
)
