package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/partyarcade/internal/model"
	"github.com/mcoot/partyarcade/internal/services/arcade"
)

// Inbound WebSocket command types
const (
	CommandMove       = "move"
	CommandStartRound = "start_round"
	CommandEndGame    = "end_game"
)

// ErrInvalidCommand is reported for commands that cannot be decoded or are unknown
var ErrInvalidCommand = errors.New("invalid command")

// Command is a message sent by a WebSocket client
type Command struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	GameID  string          `json:"game_id,omitempty"`
}

// Dispatcher applies client commands to the arcade and reports failures back
// to the caller only
type Dispatcher struct {
	controller *arcade.Controller
	logger     *slog.Logger
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(controller *arcade.Controller, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		controller: controller,
		logger:     logger.With(slog.String("component", "dispatcher")),
	}
}

// HandleCommand implements CommandHandler
func (d *Dispatcher) HandleCommand(ctx context.Context, code model.LobbyCode, playerID model.PlayerID, data []byte) {
	if err := d.dispatch(ctx, code, playerID, data); err != nil {
		d.logger.Debug("command failed",
			slog.String("lobby_code", string(code)),
			slog.String("player_id", string(playerID)),
			slog.Any("error", err))
		d.controller.NotifyError(code, playerID, err)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, code model.LobbyCode, playerID model.PlayerID, data []byte) error {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return fmt.Errorf("%w: malformed json", ErrInvalidCommand)
	}

	if err := d.controller.RequireMember(code, playerID); err != nil {
		return err
	}

	switch cmd.Type {
	case CommandMove:
		if len(cmd.Payload) == 0 {
			return fmt.Errorf("%w: move requires a payload", ErrInvalidCommand)
		}
		// Soft rejections are not errors and are not reported
		_, _, err := d.controller.ApplyMove(ctx, code, playerID, model.Move(cmd.Payload))
		return err

	case CommandStartRound:
		return d.controller.StartNextRound(code)

	case CommandEndGame:
		key, err := model.ParseGameKey(cmd.GameID)
		if err != nil {
			return err
		}
		if key.Session != code {
			return model.ErrGameNotFound
		}
		return d.controller.EndGame(ctx, key)

	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCommand, cmd.Type)
	}
}
