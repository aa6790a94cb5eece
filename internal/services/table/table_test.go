package table

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/partyarcade/internal/games"
	"github.com/mcoot/partyarcade/internal/model"
	"github.com/mcoot/partyarcade/internal/testutil"
)

type TableSuite struct {
	suite.Suite
	factory *games.Factory
	table   *Table
	key     model.GameKey
	players []model.PlayerID
}

func TestTableSuite(t *testing.T) {
	suite.Run(t, new(TableSuite))
}

func (s *TableSuite) SetupTest() {
	s.factory = games.NewFactory()
	s.table = New(s.factory, testutil.NopLogger())
	s.key = model.GameKey{Session: "ABC234", Round: 0, Group: 0}
	s.players = []model.PlayerID{"p1", "p2"}
}

// Start tests

func (s *TableSuite) TestStartSucceeds() {
	s.True(s.table.Start(s.key, model.GameTicTacToe, s.players))
	s.True(s.table.Has(s.key))
	s.Equal(1, s.table.Count())

	state, ok := s.table.StateOf(s.key)
	s.Require().True(ok)
	s.Equal(model.GameTicTacToe, state.Type)
	s.Equal(s.players, state.Players)
}

func (s *TableSuite) TestStartFailsForDuplicateKey() {
	s.True(s.table.Start(s.key, model.GameTicTacToe, s.players))
	s.False(s.table.Start(s.key, model.GameRPS, s.players))

	state, _ := s.table.StateOf(s.key)
	s.Equal(model.GameTicTacToe, state.Type)
}

func (s *TableSuite) TestStartFailsWithFewerThanTwoPlayers() {
	s.False(s.table.Start(s.key, model.GameTicTacToe, []model.PlayerID{"p1"}))
	s.False(s.table.Start(s.key, model.GameTicTacToe, nil))
	s.False(s.table.Has(s.key))
}

func (s *TableSuite) TestStartFailsForUnknownType() {
	s.False(s.table.Start(s.key, "chess", s.players))
	s.False(s.table.Has(s.key))
}

func (s *TableSuite) TestStartRecoversFromPanickingConstructor() {
	s.factory.Register("broken", func([]model.PlayerID) (games.Engine, error) {
		panic("boom")
	})

	s.NotPanics(func() {
		s.False(s.table.Start(s.key, "broken", s.players))
	})
	s.False(s.table.Has(s.key))
}

func (s *TableSuite) TestStartFailureIsLogged() {
	logger, logs := testutil.CaptureLogger()
	s.table = New(s.factory, logger)

	s.False(s.table.Start(s.key, "chess", s.players))

	record, ok := logs.Find(slog.LevelError, "failed to start game")
	s.Require().True(ok)
	s.Equal("game-table", record["component"])
	s.Equal(s.key.String(), record["game_id"])
	s.Equal("chess", record["game_type"])
	s.Contains(record["error"], "unknown game type")
}

func (s *TableSuite) TestKeysFromDifferentSessionsDoNotCollide() {
	other := model.GameKey{Session: "XYZ789", Round: 0, Group: 0}
	s.True(s.table.Start(s.key, model.GameTicTacToe, s.players))
	s.True(s.table.Start(other, model.GameTicTacToe, s.players))
	s.Equal(2, s.table.Count())
}

// ApplyMove tests

func (s *TableSuite) TestApplyMoveReturnsSnapshot() {
	s.Require().True(s.table.Start(s.key, model.GameTicTacToe, s.players))

	applied, state, err := s.table.ApplyMove(s.key, model.Move(`{"row":1,"col":1}`), "p1")
	s.Require().NoError(err)
	s.True(applied)
	s.Require().NotNil(state)
	s.Equal("X", state.Cells[1][1])
	s.Equal(model.PlayerID("p2"), state.Turn)
}

func (s *TableSuite) TestApplyMoveOnAbsentGame() {
	applied, state, err := s.table.ApplyMove(s.key, model.Move(`{"row":1,"col":1}`), "p1")
	s.NoError(err)
	s.False(applied)
	s.Nil(state)
}

func (s *TableSuite) TestApplyMoveSoftRejection() {
	s.Require().True(s.table.Start(s.key, model.GameTicTacToe, s.players))

	applied, state, err := s.table.ApplyMove(s.key, model.Move(`{"row":1,"col":1}`), "p2")
	s.NoError(err)
	s.False(applied)
	s.Nil(state)
}

func (s *TableSuite) TestApplyMovePropagatesHardErrors() {
	s.Require().True(s.table.Start(s.key, model.GameConnectFour, s.players))

	applied, state, err := s.table.ApplyMove(s.key, model.Move(`{"column":9}`), "p1")
	s.ErrorIs(err, model.ErrInvalidColumn)
	s.False(applied)
	s.Nil(state)
}

func (s *TableSuite) TestConcurrentMovesAreSerialized() {
	s.Require().True(s.table.Start(s.key, model.GameTicTacToe, s.players))

	// Every goroutine tries to move for p1 on a different cell; only the
	// first can succeed because the turn then passes to p2.
	var applied atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 9; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			move := model.Move(fmt.Sprintf(`{"row":%d,"col":%d}`, i/3, i%3))
			ok, _, err := s.table.ApplyMove(s.key, move, "p1")
			if err == nil && ok {
				applied.Add(1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), applied.Load())
	state, _ := s.table.StateOf(s.key)
	s.Equal(model.PlayerID("p2"), state.Turn)
}

// Remove and Take tests

func (s *TableSuite) TestRemove() {
	s.Require().True(s.table.Start(s.key, model.GameRPS, s.players))

	s.True(s.table.Remove(s.key))
	s.False(s.table.Remove(s.key))

	_, ok := s.table.StateOf(s.key)
	s.False(ok)
}

func (s *TableSuite) TestTakeReturnsFinalState() {
	s.Require().True(s.table.Start(s.key, model.GameRPS, s.players))
	_, _, err := s.table.ApplyMove(s.key, model.Move(`{"choice":"rock"}`), "p1")
	s.Require().NoError(err)
	_, _, err = s.table.ApplyMove(s.key, model.Move(`{"choice":"scissors"}`), "p2")
	s.Require().NoError(err)

	view, ok := s.table.Take(s.key)
	s.Require().True(ok)
	s.True(view.Finished())
	s.Equal(model.PlayerID("p1"), view.Winner)
	s.False(s.table.Has(s.key))

	_, ok = s.table.Take(s.key)
	s.False(ok)
}

func (s *TableSuite) TestConcurrentTakeHasOneWinner() {
	s.Require().True(s.table.Start(s.key, model.GameRPS, s.players))

	var taken atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := s.table.Take(s.key); ok {
				taken.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), taken.Load())
	s.Equal(0, s.table.Count())
}

func (s *TableSuite) TestTakenViewIncludesEveryAppliedMove() {
	for range 50 {
		s.Require().True(s.table.Start(s.key, model.GameRPS, s.players))
		_, _, err := s.table.ApplyMove(s.key, model.Move(`{"choice":"rock"}`), "p1")
		s.Require().NoError(err)

		var applied bool
		var view *model.GameView
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			applied, _, _ = s.table.ApplyMove(s.key, model.Move(`{"choice":"paper"}`), "p2")
		}()
		go func() {
			defer wg.Done()
			view, _ = s.table.Take(s.key)
		}()
		wg.Wait()

		s.Require().NotNil(view)
		s.Equal(applied, view.Finished())
	}
}

func (s *TableSuite) TestRemoveSession() {
	s.Require().True(s.table.Start(s.key, model.GameRPS, s.players))
	s.Require().True(s.table.Start(model.GameKey{Session: "ABC234", Round: 0, Group: 1}, model.GameRPS, []model.PlayerID{"p3", "p4"}))
	s.Require().True(s.table.Start(model.GameKey{Session: "XYZ789"}, model.GameRPS, s.players))

	s.Equal(2, s.table.RemoveSession("ABC234"))
	s.Equal(1, s.table.Count())
}
