package memory

import (
	"context"
	"sync"

	"github.com/mcoot/partyarcade/internal/model"
	"github.com/mcoot/partyarcade/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	authSessions      map[string]*model.AuthSession
	stats             map[model.PlayerID]*counters
}

type counters struct {
	wins        int
	gamesPlayed int
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		authSessions:      make(map[string]*model.AuthSession),
		stats:             make(map[model.PlayerID]*counters),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *player
	s.players[player.ID] = &p
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *rp
	s.registeredPlayers[rp.PlayerID] = &r
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	r := *rp
	return &r, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	playerID, ok := s.usernameIndex[username]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return s.GetRegisteredPlayer(ctx, playerID)
}

// Auth token operations

func (s *Storage) SaveAuthSession(ctx context.Context, session *model.AuthSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := *session
	s.authSessions[session.Token] = &sess
	return nil
}

func (s *Storage) GetAuthSession(ctx context.Context, token string) (*model.AuthSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.authSessions[token]
	if !ok {
		return nil, model.ErrTokenNotFound
	}
	sess := *session
	return &sess, nil
}

func (s *Storage) DeleteAuthSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.authSessions, token)
	return nil
}

// Stats operations

func (s *Storage) RecordGameResult(ctx context.Context, playerID model.PlayerID, won bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.stats[playerID]
	if !ok {
		c = &counters{}
		s.stats[playerID] = c
	}
	c.gamesPlayed++
	if won {
		c.wins++
	}
	return nil
}

func (s *Storage) GetPlayerStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statsLocked(playerID)
}

func (s *Storage) statsLocked(playerID model.PlayerID) (*model.PlayerStats, error) {
	player, ok := s.players[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	stats := &model.PlayerStats{PlayerID: playerID, DisplayName: player.DisplayName}
	if c, ok := s.stats[playerID]; ok {
		stats.Wins = c.wins
		stats.GamesPlayed = c.gamesPlayed
	}
	return stats, nil
}

func (s *Storage) TopPlayersByWins(ctx context.Context, limit int) ([]model.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.PlayerStats, 0, len(s.stats))
	for id := range s.stats {
		stats, err := s.statsLocked(id)
		if err != nil {
			continue // player record was deleted
		}
		result = append(result, *stats)
	}
	model.SortStats(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
