package response

import (
	"time"

	"github.com/mcoot/partyarcade/internal/model"
)

// Event is the wire form of a realtime event
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	LobbyCode string    `json:"lobby_code,omitempty"`
	GameID    string    `json:"game_id,omitempty"`
	PlayerID  string    `json:"player_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}

// PlayerEvent is the payload of player_joined and player_left
type PlayerEvent struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
}

// RoundStartedEvent is the payload of round_started
type RoundStartedEvent struct {
	Round    RoundInfo `json:"round"`
	GameType string    `json:"game_type"`
	GameIDs  []string  `json:"game_ids"`
	Byes     []string  `json:"byes,omitempty"`
}

// GameEndedEvent is the payload of game_ended
type GameEndedEvent struct {
	State     GameState `json:"state"`
	Abandoned bool      `json:"abandoned"`
}

// StandingsEvent is the payload of round_ended and session_finished
type StandingsEvent struct {
	Round     *RoundInfo      `json:"round,omitempty"`
	Standings []SessionPlayer `json:"standings"`
}

// ErrorEvent is the payload of error
type ErrorEvent struct {
	Message string `json:"message"`
}

// EventFromModel converts an event and its payload to the wire form
func EventFromModel(e model.Event) Event {
	return Event{
		Type:      string(e.Type),
		Timestamp: e.Timestamp,
		LobbyCode: string(e.LobbyCode),
		GameID:    e.GameID,
		PlayerID:  string(e.PlayerID),
		Payload:   eventPayload(e),
	}
}

func eventPayload(e model.Event) any {
	switch p := e.Payload.(type) {
	case model.PlayerJoinedPayload:
		return PlayerEvent{PlayerID: string(p.PlayerID), DisplayName: p.DisplayName}
	case model.PlayerLeftPayload:
		return PlayerEvent{PlayerID: string(p.PlayerID), DisplayName: p.DisplayName}
	case model.RoundStartedPayload:
		return RoundStartedEvent{
			Round:    RoundInfoFromModel(p.Round),
			GameType: string(p.GameType),
			GameIDs:  p.GameIDs,
			Byes:     playerIDs(p.Byes),
		}
	case model.GameStatePayload:
		return GameStateFromModel(e.GameID, &p.State)
	case model.GameEndedPayload:
		return GameEndedEvent{State: GameStateFromModel(e.GameID, &p.State), Abandoned: p.Abandoned}
	case model.RoundEndedPayload:
		round := RoundInfoFromModel(p.Round)
		return StandingsEvent{Round: &round, Standings: SessionPlayersFromModel(p.Standings)}
	case model.SessionFinishedPayload:
		return StandingsEvent{Standings: SessionPlayersFromModel(p.Standings)}
	case model.ErrorPayload:
		return ErrorEvent{Message: p.Message}
	default:
		return p
	}
}
