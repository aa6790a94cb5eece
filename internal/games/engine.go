// Package games implements the turn-based game engines played in arcade
// rounds, and the factory that maps a game type to an engine.
package games

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"

	"github.com/mcoot/partyarcade/internal/model"
)

// ErrPlayerCount is returned when an engine is created with the wrong number of participants
var ErrPlayerCount = errors.New("game requires exactly two players")

// Engine is the contract shared by every game variant.
//
// ApplyMove returns (false, nil) for a soft rejection: malformed payload,
// wrong turn, occupied target or a finished game. Such a move leaves the
// state untouched and may be retried. Input outside the legal domain of the
// variant (an out-of-range coordinate) is a hard error.
type Engine interface {
	Type() model.GameType
	Players() []model.PlayerID
	ApplyMove(move model.Move, caller model.PlayerID) (bool, error)
	State() model.GameView
}

// duel holds the bookkeeping common to all two-player variants
type duel struct {
	players [2]model.PlayerID
	wins    map[model.PlayerID]int
	result  model.GameResult
	winner  model.PlayerID
}

func newDuel(players []model.PlayerID) (duel, error) {
	if len(players) != 2 || players[0] == "" || players[1] == "" || players[0] == players[1] {
		return duel{}, ErrPlayerCount
	}
	return duel{
		players: [2]model.PlayerID{players[0], players[1]},
		wins:    map[model.PlayerID]int{players[0]: 0, players[1]: 0},
	}, nil
}

func (d *duel) Players() []model.PlayerID {
	return []model.PlayerID{d.players[0], d.players[1]}
}

func (d *duel) finished() bool {
	return d.result != model.ResultNone
}

// index returns the participant slot for a player, or -1
func (d *duel) index(id model.PlayerID) int {
	for i, p := range d.players {
		if p == id {
			return i
		}
	}
	return -1
}

func (d *duel) declareWinner(slot int) {
	d.result = model.ResultWin
	d.winner = d.players[slot]
	d.wins[d.winner]++
}

func (d *duel) declareDraw() {
	d.result = model.ResultDraw
	d.winner = ""
}

// view fills the fields every variant reports
func (d *duel) view(t model.GameType) model.GameView {
	return model.GameView{
		Type:    t,
		Players: d.Players(),
		Result:  d.result,
		Winner:  d.winner,
		Wins:    maps.Clone(d.wins),
	}
}

// decodeMove unmarshals a move payload, reporting false for anything malformed
func decodeMove(move model.Move, into any) bool {
	if len(move) == 0 {
		return false
	}
	return json.Unmarshal(move, into) == nil
}

func copyGrid(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = slices.Clone(row)
	}
	return out
}
