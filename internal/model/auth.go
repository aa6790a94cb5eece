package model

import "time"

// AuthSession is an issued bearer token and the player it authenticates
type AuthSession struct {
	Token     string
	PlayerID  PlayerID
	Player    Player
	CreatedAt time.Time
	ExpiresAt time.Time
}
