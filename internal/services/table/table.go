package table

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/partyarcade/internal/games"
	"github.com/mcoot/partyarcade/internal/model"
)

// entry guards one engine so moves against the same game are serialized
type entry struct {
	mu     sync.Mutex
	engine games.Engine
	// set by Take; no move may land once the final view has been handed out
	taken bool
}

// Table holds every running game instance, keyed by GameKey
type Table struct {
	mu      sync.RWMutex
	games   map[model.GameKey]*entry
	factory *games.Factory
	logger  *slog.Logger
}

// New creates an empty table that builds engines with factory
func New(factory *games.Factory, logger *slog.Logger) *Table {
	return &Table{
		games:   make(map[model.GameKey]*entry),
		factory: factory,
		logger:  logger.With(slog.String("component", "game-table")),
	}
}

// Start creates and registers a game. It reports false if the key is
// already taken, fewer than two players are given, or the engine could
// not be built; the failure reason is logged rather than returned.
func (t *Table) Start(key model.GameKey, gameType model.GameType, players []model.PlayerID) bool {
	if len(players) < 2 {
		t.logger.Warn("game start rejected: not enough players",
			slog.String("game_id", key.String()),
			slog.Int("player_count", len(players)))
		return false
	}
	if t.Has(key) {
		return false
	}

	engine, err := t.create(gameType, players)
	if err != nil {
		t.logger.Error("failed to start game",
			slog.String("game_id", key.String()),
			slog.String("game_type", string(gameType)),
			slog.String("error", err.Error()))
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.games[key]; exists {
		return false
	}
	t.games[key] = &entry{engine: engine}

	t.logger.Info("game started",
		slog.String("game_id", key.String()),
		slog.String("game_type", string(gameType)))
	return true
}

// create calls the factory, converting a panicking constructor into an error
func (t *Table) create(gameType model.GameType, players []model.PlayerID) (engine games.Engine, err error) {
	defer func() {
		if r := recover(); r != nil {
			engine = nil
			err = fmt.Errorf("game constructor panicked: %v", r)
		}
	}()
	return t.factory.Create(gameType, players)
}

func (t *Table) lookup(key model.GameKey) *entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.games[key]
}

// Has reports whether a game is registered under key
func (t *Table) Has(key model.GameKey) bool {
	return t.lookup(key) != nil
}

// ApplyMove applies a move on behalf of caller. It returns false with no
// state when the game is absent or the engine soft-rejects the move. Hard
// validation errors from the engine are returned as-is.
func (t *Table) ApplyMove(key model.GameKey, move model.Move, caller model.PlayerID) (bool, *model.GameView, error) {
	e := t.lookup(key)
	if e == nil {
		return false, nil, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.taken {
		return false, nil, nil
	}

	applied, err := e.engine.ApplyMove(move, caller)
	if err != nil {
		return false, nil, err
	}
	if !applied {
		return false, nil, nil
	}
	state := e.engine.State()
	return true, &state, nil
}

// StateOf returns a snapshot of the game, or false if it is not running
func (t *Table) StateOf(key model.GameKey) (*model.GameView, bool) {
	e := t.lookup(key)
	if e == nil {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	state := e.engine.State()
	return &state, true
}

// Remove deletes a game, reporting whether it was present
func (t *Table) Remove(key model.GameKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.games[key]; !ok {
		return false
	}
	delete(t.games, key)
	return true
}

// Take removes a game and returns its final state. Exactly one caller
// wins the take for a given game; the rest get false.
func (t *Table) Take(key model.GameKey) (*model.GameView, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.games[key]
	if !ok {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.taken = true
	delete(t.games, key)
	state := e.engine.State()
	return &state, true
}

// RemoveSession deletes every game belonging to a session and returns how many were removed
func (t *Table) RemoveSession(code model.LobbyCode) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for key := range t.games {
		if key.Session == code {
			delete(t.games, key)
			removed++
		}
	}
	return removed
}

// Count returns the number of running games
func (t *Table) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.games)
}
