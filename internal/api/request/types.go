package request

import "encoding/json"

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	Capacity   int      `json:"capacity"`
	Rounds     int      `json:"rounds,omitempty"`
	RandomGame bool     `json:"random_game,omitempty"`
	Games      []string `json:"games,omitempty"`
}

// MoveRequest carries a variant-specific move, e.g. {"row":1,"col":2}
type MoveRequest struct {
	Move json.RawMessage `json:"move"`
}
