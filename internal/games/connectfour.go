package games

import (
	"fmt"

	"github.com/mcoot/partyarcade/internal/model"
)

const (
	connectFourRows = 6
	connectFourCols = 7
	connectFourRun  = 4
)

var connectFourColors = [2]string{"R", "Y"}

// axes are scanned in both directions from the last placed disc
var connectFourAxes = [][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal
	{1, -1}, // anti-diagonal
}

type connectFourMove struct {
	Column *int `json:"column"`
}

// ConnectFour is the gravity-drop game on a 6x7 board. Row 0 is the top.
type ConnectFour struct {
	duel
	board [connectFourRows][connectFourCols]string
	turn  int
}

// NewConnectFour creates a game for exactly two players
func NewConnectFour(players []model.PlayerID) (*ConnectFour, error) {
	d, err := newDuel(players)
	if err != nil {
		return nil, err
	}
	return &ConnectFour{duel: d}, nil
}

func (g *ConnectFour) Type() model.GameType {
	return model.GameConnectFour
}

func (g *ConnectFour) ApplyMove(move model.Move, caller model.PlayerID) (bool, error) {
	if g.finished() {
		return false, nil
	}

	var m connectFourMove
	if !decodeMove(move, &m) || m.Column == nil {
		return false, nil
	}
	if caller != g.players[g.turn] {
		return false, nil
	}

	col := *m.Column
	if col < 0 || col >= connectFourCols {
		return false, fmt.Errorf("%w: %d", model.ErrInvalidColumn, col)
	}

	row := g.lowestEmpty(col)
	if row < 0 {
		return false, nil
	}

	color := connectFourColors[g.turn]
	g.board[row][col] = color

	switch {
	case g.connects(row, col, color):
		g.declareWinner(g.turn)
	case g.isFull():
		g.declareDraw()
	}
	g.turn = 1 - g.turn
	return true, nil
}

// lowestEmpty returns the row a disc dropped into col lands on, or -1 if the column is full
func (g *ConnectFour) lowestEmpty(col int) int {
	for row := connectFourRows - 1; row >= 0; row-- {
		if g.board[row][col] == "" {
			return row
		}
	}
	return -1
}

func (g *ConnectFour) connects(row, col int, color string) bool {
	for _, axis := range connectFourAxes {
		count := 1 + g.run(row, col, axis[0], axis[1], color) + g.run(row, col, -axis[0], -axis[1], color)
		if count >= connectFourRun {
			return true
		}
	}
	return false
}

// run counts contiguous discs of color starting next to (row, col) in direction (dr, dc)
func (g *ConnectFour) run(row, col, dr, dc int, color string) int {
	n := 0
	for r, c := row+dr, col+dc; r >= 0 && r < connectFourRows && c >= 0 && c < connectFourCols; r, c = r+dr, c+dc {
		if g.board[r][c] != color {
			break
		}
		n++
	}
	return n
}

func (g *ConnectFour) isFull() bool {
	for col := 0; col < connectFourCols; col++ {
		if g.board[0][col] == "" {
			return false
		}
	}
	return true
}

func (g *ConnectFour) State() model.GameView {
	v := g.view(model.GameConnectFour)
	if !g.finished() {
		v.Turn = g.players[g.turn]
	}
	rows := make([][]string, connectFourRows)
	for i := range g.board {
		rows[i] = g.board[i][:]
	}
	v.Cells = copyGrid(rows)
	return v
}
