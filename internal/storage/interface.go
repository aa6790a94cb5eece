package storage

import (
	"context"

	"github.com/mcoot/partyarcade/internal/model"
)

// Storage persists players, credentials, auth tokens and result history.
// Sessions and live games are never stored here.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Auth token operations
	SaveAuthSession(ctx context.Context, session *model.AuthSession) error
	GetAuthSession(ctx context.Context, token string) (*model.AuthSession, error)
	DeleteAuthSession(ctx context.Context, token string) error

	// Stats operations
	RecordGameResult(ctx context.Context, playerID model.PlayerID, won bool) error
	GetPlayerStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error)
	TopPlayersByWins(ctx context.Context, limit int) ([]model.PlayerStats, error)
}
