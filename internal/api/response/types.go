package response

import (
	"time"

	"github.com/mcoot/partyarcade/internal/model"
	"github.com/mcoot/partyarcade/internal/services/auth"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// PlayerStats represents persisted results
type PlayerStats struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Wins        int    `json:"wins"`
	GamesPlayed int    `json:"games_played"`
}

// PlayerStatsFromModel converts model.PlayerStats
func PlayerStatsFromModel(s model.PlayerStats) PlayerStats {
	return PlayerStats{
		PlayerID:    string(s.PlayerID),
		DisplayName: s.DisplayName,
		Wins:        s.Wins,
		GamesPlayed: s.GamesPlayed,
	}
}

// MeResponse is the response for the current player
type MeResponse struct {
	Player Player       `json:"player"`
	Stats  *PlayerStats `json:"stats,omitempty"`
}

// LeaderboardResponse lists the top registered players
type LeaderboardResponse struct {
	Players []PlayerStats `json:"players"`
}

// LeaderboardFromModel converts a leaderboard
func LeaderboardFromModel(stats []model.PlayerStats) LeaderboardResponse {
	out := make([]PlayerStats, len(stats))
	for i, s := range stats {
		out[i] = PlayerStatsFromModel(s)
	}
	return LeaderboardResponse{Players: out}
}

// SessionPlayer represents a session member and their wins in this session
type SessionPlayer struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Wins        int    `json:"wins"`
}

// SessionPlayersFromModel converts member summaries
func SessionPlayersFromModel(players []model.PlayerSummary) []SessionPlayer {
	out := make([]SessionPlayer, len(players))
	for i, p := range players {
		out[i] = SessionPlayer{ID: string(p.ID), DisplayName: p.DisplayName, Wins: p.Wins}
	}
	return out
}

// PlayersResponse wraps a member list
type PlayersResponse struct {
	Players []SessionPlayer `json:"players"`
}

// RoundInfo represents round progress
type RoundInfo struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// RoundInfoFromModel converts model.RoundInfo
func RoundInfoFromModel(r model.RoundInfo) RoundInfo {
	return RoundInfo{Current: r.Current, Total: r.Total}
}

// Session represents a session in API responses
type Session struct {
	Code      string          `json:"code"`
	Phase     string          `json:"phase"`
	Capacity  int             `json:"capacity"`
	Schedule  []string        `json:"schedule"`
	Round     RoundInfo       `json:"round"`
	Players   []SessionPlayer `json:"players"`
	CreatedAt time.Time       `json:"created_at"`
}

// SessionFromModel converts a session summary
func SessionFromModel(s *model.SessionSummary, round model.RoundInfo) Session {
	schedule := make([]string, len(s.Schedule))
	for i, t := range s.Schedule {
		schedule[i] = string(t)
	}
	return Session{
		Code:      string(s.Code),
		Phase:     string(s.Phase),
		Capacity:  s.Capacity,
		Schedule:  schedule,
		Round:     RoundInfoFromModel(round),
		Players:   SessionPlayersFromModel(s.Players),
		CreatedAt: s.CreatedAt,
	}
}

// CanJoinResponse is the result of a join pre-check
type CanJoinResponse struct {
	CanJoin bool   `json:"can_join"`
	Reason  string `json:"reason,omitempty"`
}

// GameState represents a game projection
type GameState struct {
	ID        string            `json:"id,omitempty"`
	Type      string            `json:"type"`
	Players   []string          `json:"players"`
	Turn      string            `json:"turn,omitempty"`
	Result    string            `json:"result,omitempty"`
	Winner    string            `json:"winner,omitempty"`
	Wins      map[string]int    `json:"wins"`
	Cells     [][]string        `json:"cells,omitempty"`
	Submitted []string          `json:"submitted,omitempty"`
	Choices   map[string]string `json:"choices,omitempty"`
}

// GameStateFromModel converts a game view. id may be empty.
func GameStateFromModel(id string, v *model.GameView) GameState {
	wins := make(map[string]int, len(v.Wins))
	for p, n := range v.Wins {
		wins[string(p)] = n
	}
	var choices map[string]string
	if len(v.Choices) > 0 {
		choices = make(map[string]string, len(v.Choices))
		for p, c := range v.Choices {
			choices[string(p)] = c
		}
	}
	return GameState{
		ID:        id,
		Type:      string(v.Type),
		Players:   playerIDs(v.Players),
		Turn:      string(v.Turn),
		Result:    string(v.Result),
		Winner:    string(v.Winner),
		Wins:      wins,
		Cells:     v.Cells,
		Submitted: playerIDs(v.Submitted),
		Choices:   choices,
	}
}

// MoveResponse reports whether a move was applied
type MoveResponse struct {
	Applied bool       `json:"applied"`
	State   *GameState `json:"state,omitempty"`
}

// GameTypesResponse lists the schedulable game types
type GameTypesResponse struct {
	GameTypes []string `json:"game_types"`
}

// GameTypesFromModel converts game types
func GameTypesFromModel(types []model.GameType) GameTypesResponse {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return GameTypesResponse{GameTypes: out}
}

func playerIDs(ids []model.PlayerID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
