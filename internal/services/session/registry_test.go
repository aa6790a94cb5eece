package session

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/partyarcade/internal/dependencies/mocks"
	"github.com/mcoot/partyarcade/internal/games"
	"github.com/mcoot/partyarcade/internal/model"
	"github.com/mcoot/partyarcade/internal/services/table"
	"github.com/mcoot/partyarcade/internal/testutil"
)

type RegistrySuite struct {
	suite.Suite
	random   *mocks.MockRandom
	clock    *mocks.MockClock
	table    *table.Table
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	factory := games.NewFactory()
	s.random = mocks.NewMockRandom()
	s.clock = mocks.NewMockClock(testutil.FixedTime)
	s.table = table.New(factory, testutil.NopLogger())
	s.registry = New(s.table, factory, s.clock, s.random, testutil.NopLogger())
}

func (s *RegistrySuite) create(capacity int, schedule ...model.GameType) model.LobbyCode {
	return s.registry.CreateSession(model.SessionSettings{
		Capacity: capacity,
		Rounds:   len(schedule),
		Games:    schedule,
	})
}

func (s *RegistrySuite) createWithPlayers(n int, schedule ...model.GameType) (model.LobbyCode, []model.Player) {
	code := s.create(max(n, 2), schedule...)
	players := testutil.Guests(n)
	for _, p := range players {
		s.Require().NoError(s.registry.Join(code, p))
	}
	return code, players
}

// CreateSession tests

func (s *RegistrySuite) TestCreateSessionUsesExplicitSchedule() {
	s.random.QueueString("ABC234")

	code := s.create(4, model.GameRPS, model.GameTicTacToe)

	s.Equal(model.LobbyCode("ABC234"), code)
	summary, err := s.registry.Summary(code)
	s.Require().NoError(err)
	s.Equal([]model.GameType{model.GameRPS, model.GameTicTacToe}, summary.Schedule)
	s.Equal(4, summary.Capacity)
	s.Equal(model.PhaseWaiting, summary.Phase)
	s.Equal(testutil.FixedTime, summary.CreatedAt)
	s.Empty(summary.Players)
}

func (s *RegistrySuite) TestCreateSessionDrawsRandomSchedule() {
	// valid types sort as connectfour, rps, tictactoe
	s.random.QueueIntn(2, 0, 1)

	code := s.registry.CreateSession(model.SessionSettings{Capacity: 2, Rounds: 3, RandomGame: true})

	summary, err := s.registry.Summary(code)
	s.Require().NoError(err)
	s.Equal([]model.GameType{model.GameTicTacToe, model.GameConnectFour, model.GameRPS}, summary.Schedule)
}

func (s *RegistrySuite) TestCreateSessionWithoutExplicitListIsRandom() {
	code := s.registry.CreateSession(model.SessionSettings{Capacity: 2, Rounds: 2})

	summary, err := s.registry.Summary(code)
	s.Require().NoError(err)
	s.Len(summary.Schedule, 2)
}

func (s *RegistrySuite) TestCreateSessionRegeneratesTakenCode() {
	s.random.QueueString("AAAAAA", "AAAAAA", "BBBBBB")

	first := s.create(2, model.GameRPS)
	second := s.create(2, model.GameRPS)

	s.Equal(model.LobbyCode("AAAAAA"), first)
	s.Equal(model.LobbyCode("BBBBBB"), second)
	s.Equal(2, s.registry.Count())
}

// Join tests

func (s *RegistrySuite) TestJoinAppendsInOrder() {
	code, players := s.createWithPlayers(3, model.GameRPS)

	got, err := s.registry.Players(code)
	s.Require().NoError(err)
	s.Equal(players, got)
}

func (s *RegistrySuite) TestJoinUnknownLobby() {
	s.ErrorIs(s.registry.Join("NOPE22", testutil.Guest("p1", "One")), model.ErrLobbyNotFound)
}

func (s *RegistrySuite) TestJoinFullLobby() {
	code := s.create(2, model.GameRPS)
	players := testutil.Guests(3)
	s.NoError(s.registry.Join(code, players[0]))
	s.NoError(s.registry.Join(code, players[1]))

	s.ErrorIs(s.registry.Join(code, players[2]), model.ErrLobbyFull)
	s.ErrorIs(s.registry.CanJoin(code, players[2].ID), model.ErrLobbyFull)
}

func (s *RegistrySuite) TestJoinTwiceFails() {
	code := s.create(4, model.GameRPS)
	p := testutil.Guest("p1", "One")
	s.NoError(s.registry.Join(code, p))
	s.ErrorIs(s.registry.Join(code, p), model.ErrAlreadyInLobby)
}

func (s *RegistrySuite) TestJoinAfterStartFails() {
	code, _ := s.createWithPlayers(2, model.GameRPS)
	_, err := s.registry.StartNextRound(code)
	s.Require().NoError(err)

	s.ErrorIs(s.registry.Join(code, testutil.Guest("late", "Late")), model.ErrAlreadyStarted)
}

func (s *RegistrySuite) TestJoinResetsSessionWins() {
	code := s.create(2, model.GameRPS)
	p := testutil.Guest("p1", "One")
	p.Wins = 9
	s.Require().NoError(s.registry.Join(code, p))

	players, _ := s.registry.Players(code)
	s.Equal(0, players[0].Wins)
}

func (s *RegistrySuite) TestCanJoinDoesNotMutate() {
	code := s.create(2, model.GameRPS)
	s.NoError(s.registry.CanJoin(code, "p1"))

	players, err := s.registry.Players(code)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *RegistrySuite) TestConcurrentJoinsRespectCapacity() {
	code := s.create(4, model.GameRPS)

	var joined atomic.Int32
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := testutil.Guest(fmt.Sprintf("p%d", i), "P")
			if s.registry.Join(code, p) == nil {
				joined.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(4), joined.Load())
	players, _ := s.registry.Players(code)
	s.Len(players, 4)
}

// Leave tests

func (s *RegistrySuite) TestLeaveRemovesPlayer() {
	code, players := s.createWithPlayers(3, model.GameRPS)

	s.True(s.registry.Leave(code, players[1].ID))

	got, _ := s.registry.Players(code)
	s.Equal([]model.Player{players[0], players[2]}, got)
}

func (s *RegistrySuite) TestLeaveTwiceIsNoOp() {
	code, players := s.createWithPlayers(2, model.GameRPS)

	s.True(s.registry.Leave(code, players[0].ID))
	s.False(s.registry.Leave(code, players[0].ID))
}

func (s *RegistrySuite) TestLeaveUnknownLobby() {
	s.False(s.registry.Leave("NOPE22", "p1"))
}

func (s *RegistrySuite) TestLastLeaveDeletesSession() {
	s.random.QueueString("AAAAAA", "AAAAAA")
	code, players := s.createWithPlayers(2, model.GameRPS)

	s.True(s.registry.Leave(code, players[0].ID))
	s.True(s.registry.Exists(code))
	s.True(s.registry.Leave(code, players[1].ID))
	s.False(s.registry.Exists(code))
	s.ErrorIs(s.registry.Join(code, players[0]), model.ErrLobbyNotFound)

	// the code is free for reuse
	s.Equal(code, s.create(2, model.GameRPS))
}

func (s *RegistrySuite) TestLeaveClearsGameMapping() {
	code, players := s.createWithPlayers(3, model.GameRPS)
	_, err := s.registry.StartNextRound(code)
	s.Require().NoError(err)

	s.True(s.registry.Leave(code, players[0].ID))

	_, err = s.registry.GetGameID(code, players[0].ID)
	s.ErrorIs(err, model.ErrNotInGame)
}

// RoundInfo tests

func (s *RegistrySuite) TestRoundInfoBeforeStart() {
	code := s.create(2, model.GameRPS, model.GameRPS)

	info, err := s.registry.RoundInfo(code)
	s.Require().NoError(err)
	s.Equal(model.RoundInfo{Current: 1, Total: 2}, info)
}

func (s *RegistrySuite) TestRoundInfoNeverExceedsTotal() {
	code, players := s.createWithPlayers(2, model.GameRPS)
	start, err := s.registry.StartNextRound(code)
	s.Require().NoError(err)
	for key := range start.Games {
		_, err := s.registry.MarkEnded(code, key)
		s.Require().NoError(err)
	}
	_, err = s.registry.StartNextRound(code)
	s.ErrorIs(err, model.ErrRoundsExhausted)

	info, err := s.registry.RoundInfo(code)
	s.Require().NoError(err)
	s.Equal(model.RoundInfo{Current: 1, Total: 1}, info)
	s.Len(players, 2)
}

func (s *RegistrySuite) TestRoundInfoUnknownLobby() {
	_, err := s.registry.RoundInfo("NOPE22")
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

// StartNextRound tests

func (s *RegistrySuite) TestStartNextRoundPairsInJoinOrder() {
	code, players := s.createWithPlayers(4, model.GameTicTacToe)

	start, err := s.registry.StartNextRound(code)
	s.Require().NoError(err)

	first := model.GameKey{Session: code, Round: 0, Group: 0}
	second := model.GameKey{Session: code, Round: 0, Group: 1}
	s.Equal(map[model.GameKey][]model.PlayerID{
		first:  {players[0].ID, players[1].ID},
		second: {players[2].ID, players[3].ID},
	}, start.Games)
	s.Empty(start.Byes)
	s.Equal(model.GameTicTacToe, start.GameType)
	s.Equal(model.RoundInfo{Current: 1, Total: 1}, start.Round)

	s.True(s.table.Has(first))
	s.True(s.table.Has(second))

	key, err := s.registry.GetGameID(code, players[3].ID)
	s.Require().NoError(err)
	s.Equal(second, key)

	summary, _ := s.registry.Summary(code)
	s.Equal(model.PhasePlaying, summary.Phase)
	s.Equal(1, summary.RoundIndex)
}

func (s *RegistrySuite) TestStartNextRoundGivesOddPlayerABye() {
	code, players := s.createWithPlayers(3, model.GameRPS)

	start, err := s.registry.StartNextRound(code)
	s.Require().NoError(err)

	s.Len(start.Games, 1)
	s.Equal([]model.PlayerID{players[2].ID}, start.Byes)
	_, err = s.registry.GetGameID(code, players[2].ID)
	s.ErrorIs(err, model.ErrNotInGame)
}

func (s *RegistrySuite) TestStartNextRoundNeedsTwoPlayers() {
	code, _ := s.createWithPlayers(1, model.GameRPS)

	_, err := s.registry.StartNextRound(code)
	s.ErrorIs(err, model.ErrInsufficientPlayers)
	s.Equal(0, s.table.Count())
}

func (s *RegistrySuite) TestStartNextRoundWhileRoundInProgress() {
	code, _ := s.createWithPlayers(2, model.GameRPS, model.GameRPS)
	_, err := s.registry.StartNextRound(code)
	s.Require().NoError(err)

	_, err = s.registry.StartNextRound(code)
	s.ErrorIs(err, model.ErrRoundInProgress)
}

func (s *RegistrySuite) TestStartNextRoundAfterRoundEnds() {
	code, players := s.createWithPlayers(2, model.GameRPS, model.GameTicTacToe)
	first, err := s.registry.StartNextRound(code)
	s.Require().NoError(err)
	for key := range first.Games {
		s.table.Remove(key)
		_, err := s.registry.MarkEnded(code, key)
		s.Require().NoError(err)
	}

	second, err := s.registry.StartNextRound(code)
	s.Require().NoError(err)

	key := model.GameKey{Session: code, Round: 1, Group: 0}
	s.Equal(map[model.GameKey][]model.PlayerID{key: {players[0].ID, players[1].ID}}, second.Games)
	s.Equal(model.GameTicTacToe, second.GameType)
	s.Equal(model.RoundInfo{Current: 2, Total: 2}, second.Round)
	s.False(s.registry.AllEnded(code))
}

func (s *RegistrySuite) TestStartNextRoundExhaustedFinishesSession() {
	code, _ := s.createWithPlayers(2, model.GameRPS)
	start, err := s.registry.StartNextRound(code)
	s.Require().NoError(err)
	for key := range start.Games {
		_, err := s.registry.MarkEnded(code, key)
		s.Require().NoError(err)
	}

	_, err = s.registry.StartNextRound(code)
	s.ErrorIs(err, model.ErrRoundsExhausted)

	summary, _ := s.registry.Summary(code)
	s.Equal(model.PhaseFinished, summary.Phase)
}

func (s *RegistrySuite) TestStartNextRoundRollsBackOnFailure() {
	code, _ := s.createWithPlayers(4, model.GameType("chess"))

	_, err := s.registry.StartNextRound(code)
	s.ErrorIs(err, model.ErrRoundStartFailed)

	s.Equal(0, s.table.Count())
	summary, _ := s.registry.Summary(code)
	s.Equal(model.PhaseWaiting, summary.Phase)
	s.Equal(0, summary.RoundIndex)
}

func (s *RegistrySuite) TestStartNextRoundUnknownLobby() {
	_, err := s.registry.StartNextRound("NOPE22")
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

// game mapping tests

func (s *RegistrySuite) TestGameIDMapping() {
	code, players := s.createWithPlayers(2, model.GameRPS)
	key := model.GameKey{Session: code, Round: 0, Group: 5}

	s.NoError(s.registry.SetGameID(code, players[0].ID, key))
	got, err := s.registry.GetGameID(code, players[0].ID)
	s.Require().NoError(err)
	s.Equal(key, got)

	s.NoError(s.registry.ClearGameID(code, players[0].ID))
	_, err = s.registry.GetGameID(code, players[0].ID)
	s.ErrorIs(err, model.ErrNotInGame)
}

func (s *RegistrySuite) TestSetGameIDForNonMember() {
	code, _ := s.createWithPlayers(2, model.GameRPS)
	s.ErrorIs(s.registry.SetGameID(code, "stranger", model.GameKey{Session: code}), model.ErrNotInLobby)
}

// standings tests

func (s *RegistrySuite) TestStandingsOrderByWins() {
	code, players := s.createWithPlayers(3, model.GameRPS)
	s.NoError(s.registry.RecordWin(code, players[2].ID))
	s.NoError(s.registry.RecordWin(code, players[2].ID))
	s.NoError(s.registry.RecordWin(code, players[1].ID))
	s.ErrorIs(s.registry.RecordWin(code, "stranger"), model.ErrNotInLobby)

	standings, err := s.registry.Standings(code)
	s.Require().NoError(err)
	s.Equal(players[2].ID, standings[0].ID)
	s.Equal(2, standings[0].Wins)
	s.Equal(players[1].ID, standings[1].ID)
	s.Equal(players[0].ID, standings[2].ID)

	summary, _ := s.registry.Summary(code)
	s.Equal(0, summary.Players[0].Wins, "summary keeps join order")
	s.Equal(2, summary.Players[2].Wins)
}
