package games

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/partyarcade/internal/model"
)

type ConnectFourSuite struct {
	suite.Suite
	game *ConnectFour
}

func TestConnectFourSuite(t *testing.T) {
	suite.Run(t, new(ConnectFourSuite))
}

func (s *ConnectFourSuite) SetupTest() {
	g, err := NewConnectFour([]model.PlayerID{"p1", "p2"})
	s.Require().NoError(err)
	s.game = g
}

func (s *ConnectFourSuite) drop(player model.PlayerID, col int) bool {
	applied, err := s.game.ApplyMove(column(col), player)
	s.Require().NoError(err)
	return applied
}

func (s *ConnectFourSuite) play(cols ...int) {
	players := []model.PlayerID{"p1", "p2"}
	for i, c := range cols {
		s.Require().True(s.drop(players[i%2], c), "move %d", i)
	}
}

func (s *ConnectFourSuite) TestDiscFallsToBottom() {
	s.True(s.drop("p1", 3))
	cells := s.game.State().Cells
	s.Len(cells, 6)
	s.Len(cells[0], 7)
	s.Equal("R", cells[5][3])
	s.Equal("", cells[4][3])

	s.True(s.drop("p2", 3))
	s.Equal("Y", s.game.State().Cells[4][3])
}

func (s *ConnectFourSuite) TestVerticalWin() {
	s.play(0, 1, 0, 1, 0, 1, 0)

	state := s.game.State()
	s.Equal(model.ResultWin, state.Result)
	s.Equal(model.PlayerID("p1"), state.Winner)
	s.Equal(1, state.Wins["p1"])
	s.False(s.drop("p2", 1))
}

func (s *ConnectFourSuite) TestHorizontalWin() {
	s.play(0, 0, 1, 1, 2, 2, 3)
	s.Equal(model.PlayerID("p1"), s.game.State().Winner)
}

func (s *ConnectFourSuite) TestHorizontalWinFilledFromBothEnds() {
	// p1 fills 0,1 then 3, closing the gap at 2 last
	s.play(0, 0, 1, 1, 3, 3, 2)
	s.Equal(model.PlayerID("p1"), s.game.State().Winner)
}

func (s *ConnectFourSuite) TestDiagonalWin() {
	// p1 builds the rising diagonal (5,0) (4,1) (3,2) (2,3)
	s.play(0, 1, 1, 2, 2, 3, 2, 3, 3, 6, 3)
	s.Equal(model.PlayerID("p1"), s.game.State().Winner)
}

func (s *ConnectFourSuite) TestAntiDiagonalWin() {
	// p1 builds the falling diagonal (2,0) (3,1) (4,2) (5,3)
	s.play(3, 2, 2, 1, 1, 0, 1, 0, 0, 6, 0)
	s.Equal(model.PlayerID("p1"), s.game.State().Winner)
}

func (s *ConnectFourSuite) TestFullColumnIsSoftRejected() {
	s.play(0, 0, 0, 0, 0, 0)
	s.False(s.drop("p1", 0))
	s.Equal(model.PlayerID("p1"), s.game.State().Turn)
	state := s.game.State()
	s.False(state.Finished())
}

func (s *ConnectFourSuite) TestOutOfRangeColumnIsHardError() {
	applied, err := s.game.ApplyMove(column(7), "p1")
	s.False(applied)
	s.ErrorIs(err, model.ErrInvalidColumn)

	applied, err = s.game.ApplyMove(column(-1), "p1")
	s.False(applied)
	s.ErrorIs(err, model.ErrInvalidColumn)
}

func (s *ConnectFourSuite) TestWrongTurnIsSoftRejected() {
	s.False(s.drop("p2", 0))
	s.Equal("", s.game.State().Cells[5][0])
}

func (s *ConnectFourSuite) TestMissingColumnIsSoftRejected() {
	applied, err := s.game.ApplyMove(model.Move(`{"row":1}`), "p1")
	s.NoError(err)
	s.False(applied)
}

func (s *ConnectFourSuite) TestFullBoardWithoutLineIsDraw() {
	// Columns are filled in pairs with the colour pattern shifted every
	// third row so no four line up in any direction.
	moves := []int{}
	for _, pair := range [][2]int{{0, 1}, {2, 3}, {4, 5}} {
		a, b := pair[0], pair[1]
		moves = append(moves, a, b, a, b, a, b, b, a, b, a, b, a)
	}
	moves = append(moves, 6, 6, 6, 6, 6, 6)
	s.play(moves...)

	state := s.game.State()
	s.Equal(model.ResultDraw, state.Result)
	s.Empty(state.Winner)
}
