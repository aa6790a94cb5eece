package games

import (
	"fmt"
	"slices"
	"sync"

	"github.com/mcoot/partyarcade/internal/model"
)

// Constructor builds a new engine for the given participants
type Constructor func(players []model.PlayerID) (Engine, error)

// Factory maps game types to engine constructors
type Factory struct {
	mu           sync.RWMutex
	constructors map[model.GameType]Constructor
}

// NewFactory creates a factory with every built-in game type registered
func NewFactory() *Factory {
	f := &Factory{constructors: make(map[model.GameType]Constructor)}
	f.Register(model.GameTicTacToe, constructor(NewTicTacToe))
	f.Register(model.GameRPS, constructor(NewRockPaperScissors))
	f.Register(model.GameConnectFour, constructor(NewConnectFour))
	return f
}

// constructor adapts a concrete engine constructor so a failed build never yields a typed nil
func constructor[E Engine](ctor func([]model.PlayerID) (E, error)) Constructor {
	return func(players []model.PlayerID) (Engine, error) {
		e, err := ctor(players)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

// Register adds a game type. Panics on duplicate types.
func (f *Factory) Register(gameType model.GameType, ctor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.constructors[gameType]; exists {
		panic(fmt.Sprintf("game type %q already registered", gameType))
	}
	f.constructors[gameType] = ctor
}

// ValidTypes returns every registered game type in sorted order
func (f *Factory) ValidTypes() []model.GameType {
	f.mu.RLock()
	defer f.mu.RUnlock()
	types := make([]model.GameType, 0, len(f.constructors))
	for t := range f.constructors {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// IsValid reports whether a game type is registered
func (f *Factory) IsValid(gameType model.GameType) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.constructors[gameType]
	return ok
}

// Create instantiates the engine registered for gameType
func (f *Factory) Create(gameType model.GameType, players []model.PlayerID) (Engine, error) {
	f.mu.RLock()
	ctor, ok := f.constructors[gameType]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownGameType, gameType)
	}
	return ctor(players)
}
