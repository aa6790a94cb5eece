package model

import (
	"sort"
	"time"
)

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents an arcade participant
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool // true for unregistered players, whose stats are never persisted
	Wins        int  // Cumulative win counter
	CreatedAt   time.Time
}

// RegisteredPlayer holds credentials for a durable player
// Stored separately so the password hash never travels with the player record
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PlayerStats is the persisted result history for a registered player
type PlayerStats struct {
	PlayerID    PlayerID
	DisplayName string
	Wins        int
	GamesPlayed int
}

// SortByWins orders players by wins descending, then by display name
func SortByWins(players []Player) {
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Wins != players[j].Wins {
			return players[i].Wins > players[j].Wins
		}
		return players[i].DisplayName < players[j].DisplayName
	})
}

// SortStats orders stats by wins descending, then by display name
func SortStats(stats []PlayerStats) {
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Wins != stats[j].Wins {
			return stats[i].Wins > stats[j].Wins
		}
		if stats[i].DisplayName != stats[j].DisplayName {
			return stats[i].DisplayName < stats[j].DisplayName
		}
		return stats[i].PlayerID < stats[j].PlayerID
	})
}
