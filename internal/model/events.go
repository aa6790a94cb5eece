package model

import "time"

// LobbyGroup is the delivery group of every connection in a lobby
func LobbyGroup(code LobbyCode) string {
	return "lobby:" + string(code)
}

// PlayerGroup is the delivery group of every connection of one player
func PlayerGroup(id PlayerID) string {
	return "player:" + string(id)
}

// EventType identifies the type of event
type EventType string

const (
	// Session events
	EventPlayerJoined    EventType = "player_joined"
	EventPlayerLeft      EventType = "player_left"
	EventRoundStarted    EventType = "round_started"
	EventRoundEnded      EventType = "round_ended"
	EventSessionFinished EventType = "session_finished"

	// Game events
	EventGameStarted EventType = "game_started"
	EventGameState   EventType = "game_state"
	EventGameEnded   EventType = "game_ended"

	// Delivered only to the caller whose command failed
	EventError EventType = "error"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	LobbyCode LobbyCode
	GameID    string   // Empty for session-only events
	PlayerID  PlayerID // The player who triggered or is affected
	Payload   any      // Type-specific data
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	PlayerID    PlayerID
	DisplayName string
}

// PlayerLeftPayload contains data for player left events
type PlayerLeftPayload struct {
	PlayerID    PlayerID
	DisplayName string
}

// RoundStartedPayload contains data for round started events
type RoundStartedPayload struct {
	Round    RoundInfo
	GameType GameType
	GameIDs  []string
	Byes     []PlayerID // Players sitting this round out
}

// GameStatePayload carries a game projection
type GameStatePayload struct {
	State GameView
}

// GameEndedPayload carries the final projection of a game
type GameEndedPayload struct {
	State     GameView
	Abandoned bool // ended explicitly or by a leave, with no winner
}

// RoundEndedPayload contains data for round ended events
type RoundEndedPayload struct {
	Round     RoundInfo
	Standings []PlayerSummary
}

// SessionFinishedPayload contains the final standings
type SessionFinishedPayload struct {
	Standings []PlayerSummary
}

// ErrorPayload contains a human-readable error for a single caller
type ErrorPayload struct {
	Message string
}
