package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// GameType identifies a game engine variant
type GameType string

const (
	GameTicTacToe   GameType = "tictactoe"
	GameRPS         GameType = "rps"
	GameConnectFour GameType = "connectfour"
)

// GameKey identifies one running game instance within a session round
type GameKey struct {
	Session LobbyCode
	Round   int // 0-based round index
	Group   int // 0-based player group within the round
}

// String renders the key in its external form, e.g. "ABC234.r0.g1"
func (k GameKey) String() string {
	return fmt.Sprintf("%s.r%d.g%d", k.Session, k.Round, k.Group)
}

// IsZero reports whether the key is unset
func (k GameKey) IsZero() bool {
	return k == GameKey{}
}

// ParseGameKey parses the external form produced by GameKey.String
func ParseGameKey(s string) (GameKey, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 || parts[0] == "" ||
		!strings.HasPrefix(parts[1], "r") || !strings.HasPrefix(parts[2], "g") {
		return GameKey{}, fmt.Errorf("%w: %q", ErrInvalidGameID, s)
	}
	round, err := strconv.Atoi(parts[1][1:])
	if err != nil || round < 0 {
		return GameKey{}, fmt.Errorf("%w: %q", ErrInvalidGameID, s)
	}
	group, err := strconv.Atoi(parts[2][1:])
	if err != nil || group < 0 {
		return GameKey{}, fmt.Errorf("%w: %q", ErrInvalidGameID, s)
	}
	return GameKey{Session: LobbyCode(parts[0]), Round: round, Group: group}, nil
}

// MarshalText implements encoding.TextMarshaler
func (k GameKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *GameKey) UnmarshalText(b []byte) error {
	parsed, err := ParseGameKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// GameResult describes the outcome of a game
type GameResult string

const (
	ResultNone GameResult = ""     // Game still open
	ResultWin  GameResult = "win"  // Decisive result, Winner is set
	ResultDraw GameResult = "draw" // Finished with no winner
)

// Move is a raw, variant-specific move payload
type Move = json.RawMessage

// GameView is a read-only projection of a game for broadcast
type GameView struct {
	Type    GameType
	Players []PlayerID
	Turn    PlayerID // Empty for simultaneous games and finished games
	Result  GameResult
	Winner  PlayerID
	Wins    map[PlayerID]int

	// Grid games
	Cells [][]string

	// Simultaneous-choice games
	Submitted []PlayerID          // Players who have chosen this tick
	Choices   map[PlayerID]string // Revealed once the result is known
}

// Finished reports whether the game has a result
func (v *GameView) Finished() bool {
	return v.Result != ResultNone
}
