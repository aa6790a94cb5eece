package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/partyarcade/internal/model"
	"github.com/mcoot/partyarcade/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New connects to Redis and verifies the connection with a ping
func New(cfg Config) (*Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// getJSON loads and decodes a JSON value, mapping a missing key to notFound
func getJSON[T any](ctx context.Context, c *redis.Client, key string, notFound error) (*T, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound
		}
		return nil, err
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Apply TTL only for guest players
	var ttl time.Duration
	if player.IsGuest {
		ttl = s.cfg.GuestPlayerTTL
	}
	return s.client.Set(ctx, playerKey(player.ID), data, ttl).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return getJSON[model.Player](ctx, s.client, playerKey(id), model.ErrPlayerNotFound)
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, playerKey(id)).Err()
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, registeredPlayerKey(rp.PlayerID), data, 0)
	pipe.Set(ctx, usernameIndexKey(rp.Username), string(rp.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	return getJSON[model.RegisteredPlayer](ctx, s.client, registeredPlayerKey(playerID), model.ErrPlayerNotFound)
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetRegisteredPlayer(ctx, model.PlayerID(playerIDStr))
}

// Auth token operations

func (s *Storage) SaveAuthSession(ctx context.Context, session *model.AuthSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ttl := session.ExpiresAt.Sub(session.CreatedAt)
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, authSessionKey(session.Token), data, ttl).Err()
}

func (s *Storage) GetAuthSession(ctx context.Context, token string) (*model.AuthSession, error) {
	return getJSON[model.AuthSession](ctx, s.client, authSessionKey(token), model.ErrTokenNotFound)
}

func (s *Storage) DeleteAuthSession(ctx context.Context, token string) error {
	return s.client.Del(ctx, authSessionKey(token)).Err()
}

// Stats operations

func (s *Storage) RecordGameResult(ctx context.Context, playerID model.PlayerID, won bool) error {
	var delta int64
	if won {
		delta = 1
	}

	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, statsKey(playerID), statsFieldGames, 1)
	pipe.HIncrBy(ctx, statsKey(playerID), statsFieldWins, delta)
	pipe.ZIncrBy(ctx, leaderboardKey(), float64(delta), string(playerID))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayerStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	player, err := s.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	fields, err := s.client.HGetAll(ctx, statsKey(playerID)).Result()
	if err != nil {
		return nil, err
	}
	return statsFromHash(player, fields), nil
}

func (s *Storage) TopPlayersByWins(ctx context.Context, limit int) ([]model.PlayerStats, error) {
	// Ties on wins are broken by name, which the sorted set cannot express,
	// so the whole set is read and ordered here.
	ids, err := s.client.ZRevRange(ctx, leaderboardKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.PlayerStats{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(model.PlayerID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	pipe := s.client.Pipeline()
	hashes := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		hashes[i] = pipe.HGetAll(ctx, statsKey(model.PlayerID(id)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	result := make([]model.PlayerStats, 0, len(ids))
	for i, val := range values {
		raw, ok := val.(string)
		if !ok {
			continue // player record expired or was deleted
		}
		var player model.Player
		if err := json.Unmarshal([]byte(raw), &player); err != nil {
			continue
		}
		result = append(result, *statsFromHash(&player, hashes[i].Val()))
	}

	model.SortStats(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func statsFromHash(player *model.Player, fields map[string]string) *model.PlayerStats {
	wins, _ := strconv.Atoi(fields[statsFieldWins])
	games, _ := strconv.Atoi(fields[statsFieldGames])
	return &model.PlayerStats{
		PlayerID:    player.ID,
		DisplayName: player.DisplayName,
		Wins:        wins,
		GamesPlayed: games,
	}
}
