package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hautdesert/chipsafe/internal/game"
)

func request(valid ...game.ValidAction) game.ActionRequiredEvent {
	return game.ActionRequiredEvent{TableID: "t", PlayerID: "bot", Valid: valid}
}

func TestNewStrategy(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	for _, name := range []string{"caller", "folder", "random", "raiser"} {
		s, err := NewStrategy(name, rng)
		require.NoError(t, err, name)
		require.NotNil(t, s, name)
	}
	_, err := NewStrategy("gto", rng)
	require.Error(t, err)
}

func TestCallerPrefersCheckThenCall(t *testing.T) {
	t.Parallel()

	var c Caller
	a := c.Decide(request(
		game.ValidAction{Type: game.ActionFold},
		game.ValidAction{Type: game.ActionCheck},
	))
	assert.Equal(t, game.ActionCheck, a.Type)

	a = c.Decide(request(
		game.ValidAction{Type: game.ActionFold},
		game.ValidAction{Type: game.ActionCall, MinAmount: 10, MaxAmount: 10},
	))
	assert.Equal(t, game.ActionCall, a.Type)

	// Facing a bet larger than the stack, shove rather than fold.
	a = c.Decide(request(
		game.ValidAction{Type: game.ActionFold},
		game.ValidAction{Type: game.ActionAllIn, MinAmount: 40, MaxAmount: 40},
	))
	assert.Equal(t, game.ActionAllIn, a.Type)
}

func TestFolderChecksWhenFree(t *testing.T) {
	t.Parallel()

	var f Folder
	a := f.Decide(request(
		game.ValidAction{Type: game.ActionFold},
		game.ValidAction{Type: game.ActionCheck},
	))
	assert.Equal(t, game.ActionCheck, a.Type)

	a = f.Decide(request(
		game.ValidAction{Type: game.ActionFold},
		game.ValidAction{Type: game.ActionCall, MinAmount: 10, MaxAmount: 10},
	))
	assert.Equal(t, game.ActionFold, a.Type)
}

func TestRaiserRaisesMinimum(t *testing.T) {
	t.Parallel()

	var r Raiser
	a := r.Decide(request(
		game.ValidAction{Type: game.ActionFold},
		game.ValidAction{Type: game.ActionCall, MinAmount: 10, MaxAmount: 10},
		game.ValidAction{Type: game.ActionRaise, MinAmount: 20, MaxAmount: 1000},
	))
	assert.Equal(t, game.ActionRaise, a.Type)
	assert.Equal(t, int64(20), a.Amount)

	a = r.Decide(request(
		game.ValidAction{Type: game.ActionFold},
		game.ValidAction{Type: game.ActionAllIn, MinAmount: 40, MaxAmount: 40},
	))
	assert.Equal(t, game.ActionAllIn, a.Type)
}

func TestRandomAlwaysPicksAdvertisedAction(t *testing.T) {
	t.Parallel()

	r := &Random{rng: rand.New(rand.NewSource(7))}
	valid := []game.ValidAction{
		{Type: game.ActionFold},
		{Type: game.ActionCall, MinAmount: 10, MaxAmount: 10},
		{Type: game.ActionRaise, MinAmount: 20, MaxAmount: 100},
	}
	allowed := map[game.ActionType]bool{
		game.ActionFold:  true,
		game.ActionCall:  true,
		game.ActionRaise: true,
	}
	for i := 0; i < 200; i++ {
		a := r.Decide(request(valid...))
		require.True(t, allowed[a.Type])
		if a.Type == game.ActionRaise {
			require.GreaterOrEqual(t, a.Amount, int64(20))
			require.LessOrEqual(t, a.Amount, int64(100))
		}
	}
}
