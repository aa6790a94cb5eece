package redis

import (
	"fmt"

	"github.com/mcoot/partyarcade/internal/model"
)

// Key prefix for all arcade data
const keyPrefix = "arcade"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// authSessionKey returns the Redis key for an issued token
func authSessionKey(token string) string {
	return fmt.Sprintf("%s:auth:%s", keyPrefix, token)
}

// statsKey returns the Redis key for the HASH of a player's result counters
func statsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, playerID)
}

// leaderboardKey returns the Redis key for the ZSET of player ids scored by wins
func leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", keyPrefix)
}

const (
	statsFieldWins  = "wins"
	statsFieldGames = "games"
)
