package model

import "errors"

// Common errors used across the application
var (
	// Validation errors
	ErrUnknownGameType = errors.New("unknown game type")
	ErrInvalidPosition = errors.New("invalid board position")
	ErrInvalidColumn   = errors.New("invalid column")
	ErrInvalidSettings = errors.New("invalid session settings")
	ErrInvalidGameID   = errors.New("invalid game id")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrTokenNotFound  = errors.New("auth token not found")

	// Session errors
	ErrLobbyNotFound       = errors.New("lobby not found")
	ErrLobbyFull           = errors.New("lobby is full")
	ErrAlreadyInLobby      = errors.New("player is already in lobby")
	ErrNotInLobby          = errors.New("player is not in lobby")
	ErrAlreadyStarted      = errors.New("lobby has already started")
	ErrInsufficientPlayers = errors.New("insufficient players to start round")
	ErrRoundInProgress     = errors.New("current round has games still in progress")
	ErrRoundsExhausted     = errors.New("all rounds have been played")
	ErrRoundStartFailed    = errors.New("failed to start round")

	// Game errors
	ErrGameNotFound = errors.New("game not found")
	ErrNotInGame    = errors.New("player is not in an active game")
)
