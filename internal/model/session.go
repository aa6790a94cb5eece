package model

import "time"

// LobbyCode is a human-readable identifier for joining sessions
type LobbyCode string

// SessionPhase represents where a session is in its round schedule
type SessionPhase string

const (
	PhaseWaiting  SessionPhase = "waiting"  // No round started yet, players may join
	PhasePlaying  SessionPhase = "playing"  // Rounds under way
	PhaseFinished SessionPhase = "finished" // Schedule exhausted
)

// SessionSettings describes how a session should be created
type SessionSettings struct {
	Capacity   int
	Rounds     int
	RandomGame bool
	Games      []GameType // Explicit schedule, one type per round
}

// RoundInfo reports round progress for display (1-based current round)
type RoundInfo struct {
	Current int
	Total   int
}

// PlayerSummary is the public view of a session member
type PlayerSummary struct {
	ID          PlayerID
	DisplayName string
	Wins        int
}

// SessionSummary is a read-only snapshot of a session
type SessionSummary struct {
	Code       LobbyCode
	Phase      SessionPhase
	Capacity   int
	Schedule   []GameType
	RoundIndex int
	Players    []PlayerSummary
	CreatedAt  time.Time
}
