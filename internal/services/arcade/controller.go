package arcade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/mcoot/partyarcade/internal/dependencies/clock"
	"github.com/mcoot/partyarcade/internal/games"
	"github.com/mcoot/partyarcade/internal/model"
	"github.com/mcoot/partyarcade/internal/services/session"
	"github.com/mcoot/partyarcade/internal/services/table"
)

const (
	MinCapacity = 2
	MaxCapacity = 16
	MaxRounds   = 20
)

// Publisher delivers events to connected clients
type Publisher interface {
	SendToGroup(group string, event model.Event)
}

// StatsRecorder receives the result of every completed game per player
type StatsRecorder interface {
	RecordResult(ctx context.Context, player model.Player, won bool) error
}

// Controller is the command surface the transport layer drives. It resolves
// callers against the session registry, applies moves on the game table and
// publishes the resulting events.
type Controller struct {
	registry  *session.Registry
	table     *table.Table
	factory   *games.Factory
	stats     StatsRecorder
	publisher Publisher
	clock     clock.Clock
	logger    *slog.Logger
}

// NewController creates a new arcade Controller
func NewController(
	registry *session.Registry,
	table *table.Table,
	factory *games.Factory,
	stats StatsRecorder,
	publisher Publisher,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		registry:  registry,
		table:     table,
		factory:   factory,
		stats:     stats,
		publisher: publisher,
		clock:     clock,
		logger:    logger.With(slog.String("component", "arcade")),
	}
}

// ValidTypes returns the game types sessions may schedule
func (c *Controller) ValidTypes() []model.GameType {
	return c.factory.ValidTypes()
}

// ValidateSettings checks and normalises session settings. An explicit game
// list sets the round count when none is given.
func (c *Controller) ValidateSettings(settings model.SessionSettings) (model.SessionSettings, error) {
	if settings.Capacity < MinCapacity || settings.Capacity > MaxCapacity {
		return settings, fmt.Errorf("%w: capacity must be between %d and %d", model.ErrInvalidSettings, MinCapacity, MaxCapacity)
	}

	if !settings.RandomGame && len(settings.Games) > 0 {
		if settings.Rounds == 0 {
			settings.Rounds = len(settings.Games)
		}
		if settings.Rounds != len(settings.Games) {
			return settings, fmt.Errorf("%w: %d rounds requested but %d games listed", model.ErrInvalidSettings, settings.Rounds, len(settings.Games))
		}
		for _, t := range settings.Games {
			if !c.factory.IsValid(t) {
				return settings, fmt.Errorf("%w: %q", model.ErrUnknownGameType, t)
			}
		}
	}

	if settings.Rounds < 1 || settings.Rounds > MaxRounds {
		return settings, fmt.Errorf("%w: rounds must be between 1 and %d", model.ErrInvalidSettings, MaxRounds)
	}
	return settings, nil
}

// CreateSession validates the settings and registers a new, empty session
func (c *Controller) CreateSession(settings model.SessionSettings) (model.LobbyCode, error) {
	settings, err := c.ValidateSettings(settings)
	if err != nil {
		return "", err
	}
	return c.registry.CreateSession(settings), nil
}

// Join adds a player to a session and announces it to the lobby
func (c *Controller) Join(code model.LobbyCode, player model.Player) error {
	if err := c.registry.Join(code, player); err != nil {
		return err
	}

	c.logger.Info("player joined",
		slog.String("lobby_code", string(code)),
		slog.String("player_id", string(player.ID)))
	c.publish(model.LobbyGroup(code), model.Event{
		Type:      model.EventPlayerJoined,
		LobbyCode: code,
		PlayerID:  player.ID,
		Payload:   model.PlayerJoinedPayload{PlayerID: player.ID, DisplayName: player.DisplayName},
	})
	return nil
}

// Exists reports whether a session is registered
func (c *Controller) Exists(code model.LobbyCode) bool {
	return c.registry.Exists(code)
}

// CanJoin pre-checks a join without changing anything
func (c *Controller) CanJoin(code model.LobbyCode, playerID model.PlayerID) error {
	return c.registry.CanJoin(code, playerID)
}

// Leave removes a player from a session. A game the player was still in is
// ended with no winner. Returns false if the player was not in the session.
func (c *Controller) Leave(ctx context.Context, code model.LobbyCode, playerID model.PlayerID) bool {
	var displayName string
	if players, err := c.registry.Players(code); err == nil {
		if i := slices.IndexFunc(players, func(p model.Player) bool { return p.ID == playerID }); i >= 0 {
			displayName = players[i].DisplayName
		}
	}
	key, gameErr := c.registry.GetGameID(code, playerID)

	if !c.registry.Leave(code, playerID) {
		return false
	}

	c.logger.Info("player left",
		slog.String("lobby_code", string(code)),
		slog.String("player_id", string(playerID)))
	c.publish(model.LobbyGroup(code), model.Event{
		Type:      model.EventPlayerLeft,
		LobbyCode: code,
		PlayerID:  playerID,
		Payload:   model.PlayerLeftPayload{PlayerID: playerID, DisplayName: displayName},
	})

	if !c.registry.Exists(code) {
		if n := c.table.RemoveSession(code); n > 0 {
			c.logger.Info("removed games of deleted session",
				slog.String("lobby_code", string(code)),
				slog.Int("games", n))
		}
		return true
	}

	if gameErr == nil {
		if err := c.EndGame(ctx, key); err != nil && !errors.Is(err, model.ErrGameNotFound) {
			c.logger.Warn("failed to end game of leaving player",
				slog.String("game_id", key.String()),
				slog.Any("error", err))
		}
	}
	return true
}

// StartNextRound starts the next scheduled round and announces its games
func (c *Controller) StartNextRound(code model.LobbyCode) error {
	start, err := c.registry.StartNextRound(code)
	if err != nil {
		return err
	}

	keys := make([]model.GameKey, 0, len(start.Games))
	for key := range start.Games {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Group < keys[j].Group })

	ids := make([]string, len(keys))
	for i, key := range keys {
		ids[i] = key.String()
	}

	c.publish(model.LobbyGroup(code), model.Event{
		Type:      model.EventRoundStarted,
		LobbyCode: code,
		Payload: model.RoundStartedPayload{
			Round:    start.Round,
			GameType: start.GameType,
			GameIDs:  ids,
			Byes:     start.Byes,
		},
	})

	for _, key := range keys {
		view, ok := c.table.StateOf(key)
		if !ok {
			continue
		}
		for _, p := range start.Games[key] {
			c.publish(model.PlayerGroup(p), model.Event{
				Type:      model.EventGameStarted,
				LobbyCode: code,
				GameID:    key.String(),
				PlayerID:  p,
				Payload:   model.GameStatePayload{State: *view},
			})
		}
	}
	return nil
}

// ApplyMove routes a move to the caller's current game. A soft rejection is
// reported as (false, nil, nil). A move that finishes the game ends it.
func (c *Controller) ApplyMove(ctx context.Context, code model.LobbyCode, playerID model.PlayerID, move model.Move) (bool, *model.GameView, error) {
	key, err := c.registry.GetGameID(code, playerID)
	if err != nil {
		return false, nil, err
	}

	applied, view, err := c.table.ApplyMove(key, move, playerID)
	if err != nil {
		return false, nil, err
	}
	if !applied {
		if !c.table.Has(key) {
			return false, nil, model.ErrGameNotFound
		}
		return false, nil, nil
	}

	c.publish(model.LobbyGroup(code), model.Event{
		Type:      model.EventGameState,
		LobbyCode: code,
		GameID:    key.String(),
		PlayerID:  playerID,
		Payload:   model.GameStatePayload{State: *view},
	})

	// whoever takes the game off the table settles it
	if view.Finished() {
		if final, ok := c.table.Take(key); ok {
			c.complete(ctx, key, final, false)
		}
	}
	return true, view, nil
}

// EndGame ends a live game with no winner. A game whose final move has
// already landed is settled as a normal finish instead.
func (c *Controller) EndGame(ctx context.Context, key model.GameKey) error {
	view, ok := c.table.Take(key)
	if !ok {
		return model.ErrGameNotFound
	}
	c.complete(ctx, key, view, !view.Finished())
	return nil
}

// complete settles a game that has just been removed from the table
func (c *Controller) complete(ctx context.Context, key model.GameKey, view *model.GameView, abandoned bool) {
	code := key.Session
	log := c.logger.With(
		slog.String("lobby_code", string(code)),
		slog.String("game_id", key.String()))

	if !abandoned {
		c.recordResult(ctx, code, view, log)
	}

	progress, err := c.registry.MarkEnded(code, key)
	if err != nil {
		log.Warn("game ended for missing session", slog.Any("error", err))
		return
	}
	log.Info("game ended",
		slog.String("result", string(view.Result)),
		slog.String("winner", string(view.Winner)),
		slog.Bool("abandoned", abandoned))

	c.publish(model.LobbyGroup(code), model.Event{
		Type:      model.EventGameEnded,
		LobbyCode: code,
		GameID:    key.String(),
		PlayerID:  view.Winner,
		Payload:   model.GameEndedPayload{State: *view, Abandoned: abandoned},
	})

	if !progress.RoundComplete {
		return
	}

	standings := c.standings(code)
	c.publish(model.LobbyGroup(code), model.Event{
		Type:      model.EventRoundEnded,
		LobbyCode: code,
		Payload:   model.RoundEndedPayload{Round: progress.Round, Standings: standings},
	})
	if progress.SessionFinished {
		log.Info("session finished")
		c.publish(model.LobbyGroup(code), model.Event{
			Type:      model.EventSessionFinished,
			LobbyCode: code,
			Payload:   model.SessionFinishedPayload{Standings: standings},
		})
	}
}

// recordResult credits the session win and hands each participant's delta to stats
func (c *Controller) recordResult(ctx context.Context, code model.LobbyCode, view *model.GameView, log *slog.Logger) {
	if view.Result == model.ResultWin {
		if err := c.registry.RecordWin(code, view.Winner); err != nil {
			log.Warn("could not credit session win",
				slog.String("player_id", string(view.Winner)),
				slog.Any("error", err))
		}
	}

	members, err := c.registry.Players(code)
	if err != nil {
		return
	}
	for _, m := range members {
		if !slices.Contains(view.Players, m.ID) {
			continue
		}
		won := view.Result == model.ResultWin && view.Winner == m.ID
		if err := c.stats.RecordResult(ctx, m, won); err != nil {
			log.Error("failed to record stats",
				slog.String("player_id", string(m.ID)),
				slog.Any("error", err))
		}
	}
}

func (c *Controller) standings(code model.LobbyCode) []model.PlayerSummary {
	players, err := c.registry.Standings(code)
	if err != nil {
		return nil
	}
	return summaries(players)
}

// GetPlayers returns the session members with their session wins, in join order
func (c *Controller) GetPlayers(code model.LobbyCode) ([]model.PlayerSummary, error) {
	players, err := c.registry.Players(code)
	if err != nil {
		return nil, err
	}
	return summaries(players), nil
}

// RequireMember fails unless the player is currently in the session
func (c *Controller) RequireMember(code model.LobbyCode, playerID model.PlayerID) error {
	players, err := c.registry.Players(code)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(players, func(p model.Player) bool { return p.ID == playerID }) {
		return model.ErrNotInLobby
	}
	return nil
}

// GetRoundInfo returns the displayed round and total
func (c *Controller) GetRoundInfo(code model.LobbyCode) (model.RoundInfo, error) {
	return c.registry.RoundInfo(code)
}

// GetSession returns a snapshot of the session
func (c *Controller) GetSession(code model.LobbyCode) (*model.SessionSummary, error) {
	return c.registry.Summary(code)
}

// GetGameState returns the current projection of a live game
func (c *Controller) GetGameState(key model.GameKey) (*model.GameView, error) {
	view, ok := c.table.StateOf(key)
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return view, nil
}

// GetCurrentGame returns the game a player is active in
func (c *Controller) GetCurrentGame(code model.LobbyCode, playerID model.PlayerID) (model.GameKey, error) {
	return c.registry.GetGameID(code, playerID)
}

// NotifyError delivers a failed command's error to the caller only
func (c *Controller) NotifyError(code model.LobbyCode, playerID model.PlayerID, err error) {
	c.publish(model.PlayerGroup(playerID), model.Event{
		Type:      model.EventError,
		LobbyCode: code,
		PlayerID:  playerID,
		Payload:   model.ErrorPayload{Message: err.Error()},
	})
}

func (c *Controller) publish(group string, event model.Event) {
	event.Timestamp = c.clock.Now()
	c.publisher.SendToGroup(group, event)
}

func summaries(players []model.Player) []model.PlayerSummary {
	out := make([]model.PlayerSummary, len(players))
	for i, p := range players {
		out[i] = model.PlayerSummary{ID: p.ID, DisplayName: p.DisplayName, Wins: p.Wins}
	}
	return out
}
