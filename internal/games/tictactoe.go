package games

import (
	"fmt"

	"github.com/mcoot/partyarcade/internal/model"
)

const ticTacToeSize = 3

var ticTacToeSymbols = [2]string{"X", "O"}

// ticTacToeLines lists every winning line as (row, col) triples
var ticTacToeLines = [][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}}, // top row
	{{1, 0}, {1, 1}, {1, 2}}, // middle row
	{{2, 0}, {2, 1}, {2, 2}}, // bottom row
	{{0, 0}, {1, 0}, {2, 0}}, // left column
	{{0, 1}, {1, 1}, {2, 1}}, // middle column
	{{0, 2}, {1, 2}, {2, 2}}, // right column
	{{0, 0}, {1, 1}, {2, 2}}, // diagonal
	{{0, 2}, {1, 1}, {2, 0}}, // anti-diagonal
}

type ticTacToeMove struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// TicTacToe is the 3x3 grid game. Participant 0 plays X and moves first.
type TicTacToe struct {
	duel
	board [ticTacToeSize][ticTacToeSize]string
	turn  int
}

// NewTicTacToe creates a game for exactly two players
func NewTicTacToe(players []model.PlayerID) (*TicTacToe, error) {
	d, err := newDuel(players)
	if err != nil {
		return nil, err
	}
	return &TicTacToe{duel: d}, nil
}

func (g *TicTacToe) Type() model.GameType {
	return model.GameTicTacToe
}

func (g *TicTacToe) ApplyMove(move model.Move, caller model.PlayerID) (bool, error) {
	if g.finished() {
		return false, nil
	}

	var m ticTacToeMove
	if !decodeMove(move, &m) || m.Row == nil || m.Col == nil {
		return false, nil
	}
	if caller != g.players[g.turn] {
		return false, nil
	}

	row, col := *m.Row, *m.Col
	if row < 0 || row >= ticTacToeSize || col < 0 || col >= ticTacToeSize {
		return false, fmt.Errorf("%w: (%d, %d)", model.ErrInvalidPosition, row, col)
	}
	if g.board[row][col] != "" {
		return false, nil
	}

	g.board[row][col] = ticTacToeSymbols[g.turn]

	switch {
	case g.hasLine(ticTacToeSymbols[g.turn]):
		g.declareWinner(g.turn)
	case g.isFull():
		g.declareDraw()
	default:
		g.turn = 1 - g.turn
	}
	return true, nil
}

func (g *TicTacToe) State() model.GameView {
	v := g.view(model.GameTicTacToe)
	if !g.finished() {
		v.Turn = g.players[g.turn]
	}
	rows := make([][]string, ticTacToeSize)
	for i := range g.board {
		rows[i] = g.board[i][:]
	}
	v.Cells = copyGrid(rows)
	return v
}

func (g *TicTacToe) hasLine(symbol string) bool {
	for _, line := range ticTacToeLines {
		if g.board[line[0][0]][line[0][1]] == symbol &&
			g.board[line[1][0]][line[1][1]] == symbol &&
			g.board[line[2][0]][line[2][1]] == symbol {
			return true
		}
	}
	return false
}

func (g *TicTacToe) isFull() bool {
	for _, row := range g.board {
		for _, cell := range row {
			if cell == "" {
				return false
			}
		}
	}
	return true
}
