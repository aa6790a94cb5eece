package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/partyarcade/internal/model"
)

func TestFactoryValidTypes(t *testing.T) {
	f := NewFactory()
	assert.Equal(t, []model.GameType{model.GameConnectFour, model.GameRPS, model.GameTicTacToe}, f.ValidTypes())
	assert.True(t, f.IsValid(model.GameRPS))
	assert.False(t, f.IsValid("chess"))
}

func TestFactoryCreatesEachVariant(t *testing.T) {
	f := NewFactory()
	players := []model.PlayerID{"a", "b"}

	for _, gameType := range f.ValidTypes() {
		t.Run(string(gameType), func(t *testing.T) {
			engine, err := f.Create(gameType, players)
			require.NoError(t, err)
			assert.Equal(t, gameType, engine.Type())
			assert.Equal(t, players, engine.Players())
			assert.Equal(t, gameType, engine.State().Type)
		})
	}
}

func TestFactoryUnknownType(t *testing.T) {
	engine, err := NewFactory().Create("chess", []model.PlayerID{"a", "b"})
	assert.Nil(t, engine)
	assert.ErrorIs(t, err, model.ErrUnknownGameType)
}

func TestFactoryPropagatesConstructorErrors(t *testing.T) {
	engine, err := NewFactory().Create(model.GameTicTacToe, []model.PlayerID{"a"})
	assert.Nil(t, engine)
	assert.ErrorIs(t, err, ErrPlayerCount)
}

func TestFactoryRegisterDuplicatePanics(t *testing.T) {
	f := NewFactory()
	assert.Panics(t, func() {
		f.Register(model.GameRPS, constructor(NewRockPaperScissors))
	})
}
