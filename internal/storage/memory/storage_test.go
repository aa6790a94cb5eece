package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/partyarcade/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) savePlayer(id, name string) {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID:          model.PlayerID(id),
		DisplayName: name,
	}))
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Alice",
		IsGuest:     true,
		CreatedAt:   time.Now(),
	}

	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.DisplayName, retrieved.DisplayName)
	s.True(retrieved.IsGuest)
}

func (s *StorageSuite) TestGetPlayerReturnsCopy() {
	s.savePlayer("player-1", "Alice")

	retrieved, _ := s.storage.GetPlayer(s.ctx, "player-1")
	retrieved.DisplayName = "Mallory"

	again, _ := s.storage.GetPlayer(s.ctx, "player-1")
	s.Equal("Alice", again.DisplayName)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	s.savePlayer("player-1", "Alice")

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "player-1"))

	_, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Registered player tests

func (s *StorageSuite) TestRegisteredPlayerByUsername() {
	rp := &model.RegisteredPlayer{PlayerID: "player-1", Username: "alice", PasswordHash: "hash"}
	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, rp))

	byID, err := s.storage.GetRegisteredPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("alice", byID.Username)

	byName, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), byName.PlayerID)

	_, err = s.storage.GetRegisteredPlayerByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Auth token tests

func (s *StorageSuite) TestAuthSessionRoundTrip() {
	session := &model.AuthSession{Token: "tok", PlayerID: "player-1"}
	s.Require().NoError(s.storage.SaveAuthSession(s.ctx, session))

	got, err := s.storage.GetAuthSession(s.ctx, "tok")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), got.PlayerID)

	s.Require().NoError(s.storage.DeleteAuthSession(s.ctx, "tok"))
	_, err = s.storage.GetAuthSession(s.ctx, "tok")
	s.ErrorIs(err, model.ErrTokenNotFound)
}

// Stats tests

func (s *StorageSuite) TestRecordGameResult() {
	s.savePlayer("player-1", "Alice")

	s.Require().NoError(s.storage.RecordGameResult(s.ctx, "player-1", true))
	s.Require().NoError(s.storage.RecordGameResult(s.ctx, "player-1", false))
	s.Require().NoError(s.storage.RecordGameResult(s.ctx, "player-1", true))

	stats, err := s.storage.GetPlayerStats(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(2, stats.Wins)
	s.Equal(3, stats.GamesPlayed)
	s.Equal("Alice", stats.DisplayName)
}

func (s *StorageSuite) TestGetPlayerStatsWithoutGames() {
	s.savePlayer("player-1", "Alice")

	stats, err := s.storage.GetPlayerStats(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(0, stats.Wins)
	s.Equal(0, stats.GamesPlayed)
}

func (s *StorageSuite) TestGetPlayerStatsUnknownPlayer() {
	_, err := s.storage.GetPlayerStats(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestTopPlayersByWins() {
	s.savePlayer("p1", "Carol")
	s.savePlayer("p2", "Alice")
	s.savePlayer("p3", "Bob")
	s.Require().NoError(s.storage.RecordGameResult(s.ctx, "p1", true))
	s.Require().NoError(s.storage.RecordGameResult(s.ctx, "p2", true))
	s.Require().NoError(s.storage.RecordGameResult(s.ctx, "p3", false))
	s.Require().NoError(s.storage.RecordGameResult(s.ctx, "p3", true))
	s.Require().NoError(s.storage.RecordGameResult(s.ctx, "p3", true))

	top, err := s.storage.TopPlayersByWins(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 3)
	s.Equal("Bob", top[0].DisplayName)
	s.Equal("Alice", top[1].DisplayName)
	s.Equal("Carol", top[2].DisplayName)

	limited, err := s.storage.TopPlayersByWins(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(limited, 1)
}
