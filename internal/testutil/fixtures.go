package testutil

import (
	"fmt"
	"time"

	"github.com/mcoot/partyarcade/internal/model"
)

// FixedTime is a stable timestamp for tests that need a clock
var FixedTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// Guest builds a guest player with the given id and display name
func Guest(id, name string) model.Player {
	return model.Player{
		ID:          model.PlayerID(id),
		DisplayName: name,
		IsGuest:     true,
		CreatedAt:   FixedTime,
	}
}

// Guests builds n guest players with ids p1..pn
func Guests(n int) []model.Player {
	players := make([]model.Player, n)
	for i := range players {
		players[i] = Guest(fmt.Sprintf("p%d", i+1), fmt.Sprintf("Player %d", i+1))
	}
	return players
}
