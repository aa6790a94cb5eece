package games

import (
	"strings"

	"github.com/mcoot/partyarcade/internal/model"
)

// Sign is a hand sign in the simultaneous-choice game
type Sign string

const (
	Rock     Sign = "rock"
	Paper    Sign = "paper"
	Scissors Sign = "scissors"
)

// beats maps each sign to the sign it defeats
var beats = map[Sign]Sign{
	Rock:     Scissors,
	Paper:    Rock,
	Scissors: Paper,
}

type rpsMove struct {
	Choice string `json:"choice"`
}

// RockPaperScissors is the simultaneous-choice game. Both participants
// submit independently; the result is computed once both have chosen.
type RockPaperScissors struct {
	duel
	choices [2]Sign
}

// NewRockPaperScissors creates a game for exactly two players
func NewRockPaperScissors(players []model.PlayerID) (*RockPaperScissors, error) {
	d, err := newDuel(players)
	if err != nil {
		return nil, err
	}
	return &RockPaperScissors{duel: d}, nil
}

func (g *RockPaperScissors) Type() model.GameType {
	return model.GameRPS
}

func (g *RockPaperScissors) ApplyMove(move model.Move, caller model.PlayerID) (bool, error) {
	if g.finished() {
		return false, nil
	}

	var m rpsMove
	if !decodeMove(move, &m) {
		return false, nil
	}
	sign := Sign(strings.ToLower(strings.TrimSpace(m.Choice)))
	if _, ok := beats[sign]; !ok {
		return false, nil
	}

	slot := g.index(caller)
	if slot < 0 || g.choices[slot] != "" {
		return false, nil
	}
	g.choices[slot] = sign

	if g.choices[0] != "" && g.choices[1] != "" {
		g.resolve()
	}
	return true, nil
}

func (g *RockPaperScissors) resolve() {
	a, b := g.choices[0], g.choices[1]
	switch {
	case a == b:
		g.declareDraw()
	case beats[a] == b:
		g.declareWinner(0)
	default:
		g.declareWinner(1)
	}
}

func (g *RockPaperScissors) State() model.GameView {
	v := g.view(model.GameRPS)
	v.Submitted = []model.PlayerID{}
	for i, c := range g.choices {
		if c != "" {
			v.Submitted = append(v.Submitted, g.players[i])
		}
	}
	if g.finished() {
		v.Choices = map[model.PlayerID]string{
			g.players[0]: string(g.choices[0]),
			g.players[1]: string(g.choices[1]),
		}
	}
	return v
}
