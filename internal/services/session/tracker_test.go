package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/partyarcade/internal/dependencies/mocks"
	"github.com/mcoot/partyarcade/internal/games"
	"github.com/mcoot/partyarcade/internal/model"
	"github.com/mcoot/partyarcade/internal/services/table"
	"github.com/mcoot/partyarcade/internal/testutil"
)

type TrackerSuite struct {
	suite.Suite
	registry *Registry
	code     model.LobbyCode
	keys     []model.GameKey
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

func (s *TrackerSuite) SetupTest() {
	factory := games.NewFactory()
	s.registry = New(
		table.New(factory, testutil.NopLogger()),
		factory,
		mocks.NewMockClock(testutil.FixedTime),
		mocks.NewMockRandom(),
		testutil.NopLogger(),
	)
	s.code = s.registry.CreateSession(model.SessionSettings{
		Capacity: 8,
		Rounds:   2,
		Games:    []model.GameType{model.GameRPS, model.GameRPS},
	})
	for _, p := range testutil.Guests(8) {
		s.Require().NoError(s.registry.Join(s.code, p))
	}
	start, err := s.registry.StartNextRound(s.code)
	s.Require().NoError(err)
	s.keys = nil
	for key := range start.Games {
		s.keys = append(s.keys, key)
	}
	s.Require().Len(s.keys, 4)
}

func (s *TrackerSuite) TestAllEndedFalseUntilEveryGameEnds() {
	for _, key := range s.keys[:3] {
		progress, err := s.registry.MarkEnded(s.code, key)
		s.Require().NoError(err)
		s.False(progress.RoundComplete)
		s.False(s.registry.AllEnded(s.code))
	}

	progress, err := s.registry.MarkEnded(s.code, s.keys[3])
	s.Require().NoError(err)
	s.True(progress.RoundComplete)
	s.False(progress.SessionFinished)
	s.True(s.registry.AllEnded(s.code))
}

func (s *TrackerSuite) TestMarkEndedTwiceReportsCompletionOnce() {
	for _, key := range s.keys {
		_, err := s.registry.MarkEnded(s.code, key)
		s.Require().NoError(err)
	}

	progress, err := s.registry.MarkEnded(s.code, s.keys[0])
	s.Require().NoError(err)
	s.False(progress.RoundComplete)
}

func (s *TrackerSuite) TestMarkEndedUnmapsPlayers() {
	players, _ := s.registry.Players(s.code)
	key, err := s.registry.GetGameID(s.code, players[0].ID)
	s.Require().NoError(err)

	_, err = s.registry.MarkEnded(s.code, key)
	s.Require().NoError(err)

	_, err = s.registry.GetGameID(s.code, players[0].ID)
	s.ErrorIs(err, model.ErrNotInGame)
	_, err = s.registry.GetGameID(s.code, players[1].ID)
	s.ErrorIs(err, model.ErrNotInGame)
}

func (s *TrackerSuite) TestResetTrackingClearsEndedSet() {
	for _, key := range s.keys {
		_, err := s.registry.MarkEnded(s.code, key)
		s.Require().NoError(err)
	}
	s.Require().True(s.registry.AllEnded(s.code))

	s.NoError(s.registry.ResetTracking(s.code))
	s.False(s.registry.AllEnded(s.code))
}

func (s *TrackerSuite) TestNextRoundIgnoresEarlyEndMarks() {
	for _, key := range s.keys {
		_, err := s.registry.MarkEnded(s.code, key)
		s.Require().NoError(err)
	}
	// an end mark for a game of the next round arriving before it starts
	_, err := s.registry.MarkEnded(s.code, model.GameKey{Session: s.code, Round: 1, Group: 0})
	s.Require().NoError(err)

	start, err := s.registry.StartNextRound(s.code)
	s.Require().NoError(err)
	s.False(s.registry.AllEnded(s.code))

	var ended int
	for key := range start.Games {
		progress, err := s.registry.MarkEnded(s.code, key)
		s.Require().NoError(err)
		ended++
		s.Equal(ended == len(start.Games), progress.RoundComplete)
	}
}

func (s *TrackerSuite) TestAllEndedFalseWithNoRoundStarted() {
	code := s.registry.CreateSession(model.SessionSettings{
		Capacity: 2,
		Rounds:   1,
		Games:    []model.GameType{model.GameRPS},
	})
	s.False(s.registry.AllEnded(code))
	s.False(s.registry.AllEnded("NOPE22"))
}

func (s *TrackerSuite) TestFinalRoundFinishesSession() {
	for _, key := range s.keys {
		_, err := s.registry.MarkEnded(s.code, key)
		s.Require().NoError(err)
	}
	start, err := s.registry.StartNextRound(s.code)
	s.Require().NoError(err)

	var last RoundProgress
	for key := range start.Games {
		last, err = s.registry.MarkEnded(s.code, key)
		s.Require().NoError(err)
	}

	s.True(last.RoundComplete)
	s.True(last.SessionFinished)
	s.Equal(model.RoundInfo{Current: 2, Total: 2}, last.Round)

	summary, _ := s.registry.Summary(s.code)
	s.Equal(model.PhaseFinished, summary.Phase)
}

func (s *TrackerSuite) TestConcurrentMarkEnded() {
	var completions sync.Map
	var wg sync.WaitGroup
	for _, key := range s.keys {
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				progress, err := s.registry.MarkEnded(s.code, key)
				if err == nil && progress.RoundComplete {
					completions.Store(key, true)
				}
			}()
		}
	}
	wg.Wait()

	count := 0
	completions.Range(func(_, _ any) bool {
		count++
		return true
	})
	s.Equal(1, count)
	s.True(s.registry.AllEnded(s.code))
}

func (s *TrackerSuite) TestMarkEndedUnknownLobby() {
	_, err := s.registry.MarkEnded("NOPE22", s.keys[0])
	s.ErrorIs(err, model.ErrLobbyNotFound)
}
