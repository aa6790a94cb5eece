package stats

import (
	"context"
	"log/slog"

	"github.com/mcoot/partyarcade/internal/model"
	"github.com/mcoot/partyarcade/internal/storage"
)

const (
	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 100
)

// Service records completed-game results for registered players
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a stats service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "stats")),
	}
}

// RecordResult stores one completed game for a player. Guests are skipped.
func (s *Service) RecordResult(ctx context.Context, player model.Player, won bool) error {
	if player.IsGuest {
		return nil
	}
	if err := s.storage.RecordGameResult(ctx, player.ID, won); err != nil {
		s.logger.Error("failed to record result",
			slog.String("player_id", string(player.ID)),
			slog.Any("error", err))
		return err
	}
	return nil
}

// Leaderboard returns the top registered players by wins. A non-positive
// limit uses the default size; larger limits are capped.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]model.PlayerStats, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	limit = min(limit, MaxLeaderboardSize)
	return s.storage.TopPlayersByWins(ctx, limit)
}

// PlayerStats returns the persisted history for one player
func (s *Service) PlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerStats, error) {
	return s.storage.GetPlayerStats(ctx, id)
}
