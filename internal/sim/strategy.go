// Package sim drives tables with configured bot strategies and runs
// reproducible simulation batches that prove out chip conservation.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/hautdesert/chipsafe/internal/game"
)

// Strategy picks one of the advertised legal actions. Strategies see only
// what the table publishes; they cannot reach into engine state.
type Strategy interface {
	Decide(req game.ActionRequiredEvent) game.Action
}

// NewStrategy builds a strategy by its configuration name.
func NewStrategy(name string, rng *rand.Rand) (Strategy, error) {
	switch name {
	case "caller":
		return &Caller{}, nil
	case "folder":
		return &Folder{}, nil
	case "random":
		return &Random{rng: rng}, nil
	case "raiser":
		return &Raiser{}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

func pick(valid []game.ValidAction, want game.ActionType) (game.ValidAction, bool) {
	for _, va := range valid {
		if va.Type == want {
			return va, true
		}
	}
	return game.ValidAction{}, false
}

// Caller checks when free and calls any bet, shoving when a call is not on
// the menu. It never folds, which keeps maximum chips in motion.
type Caller struct{}

func (Caller) Decide(req game.ActionRequiredEvent) game.Action {
	action := game.Action{TableID: req.TableID, PlayerID: req.PlayerID}
	for _, typ := range []game.ActionType{game.ActionCheck, game.ActionCall, game.ActionAllIn} {
		if _, ok := pick(req.Valid, typ); ok {
			action.Type = typ
			return action
		}
	}
	action.Type = game.ActionFold
	return action
}

// Folder checks when free and folds to any bet. Exercises the folded-chips
// pot paths.
type Folder struct{}

func (Folder) Decide(req game.ActionRequiredEvent) game.Action {
	action := game.Action{TableID: req.TableID, PlayerID: req.PlayerID, Type: game.ActionFold}
	if _, ok := pick(req.Valid, game.ActionCheck); ok {
		action.Type = game.ActionCheck
	}
	return action
}

// Raiser raises the minimum whenever raising is legal, otherwise calls.
// Exercises re-opened betting rounds and all-in cascades.
type Raiser struct{}

func (Raiser) Decide(req game.ActionRequiredEvent) game.Action {
	action := game.Action{TableID: req.TableID, PlayerID: req.PlayerID}
	if va, ok := pick(req.Valid, game.ActionRaise); ok {
		action.Type = game.ActionRaise
		action.Amount = va.MinAmount
		return action
	}
	for _, typ := range []game.ActionType{game.ActionCall, game.ActionCheck, game.ActionAllIn} {
		if _, ok := pick(req.Valid, typ); ok {
			action.Type = typ
			return action
		}
	}
	action.Type = game.ActionFold
	return action
}

// Random picks uniformly among the legal actions, with raise sizes drawn
// from the advertised bounds. The widest coverage of engine transitions.
type Random struct {
	rng *rand.Rand
}

func (r *Random) Decide(req game.ActionRequiredEvent) game.Action {
	action := game.Action{TableID: req.TableID, PlayerID: req.PlayerID, Type: game.ActionFold}
	if len(req.Valid) == 0 {
		return action
	}
	va := req.Valid[r.rng.Intn(len(req.Valid))]
	action.Type = va.Type
	if va.Type == game.ActionRaise {
		action.Amount = va.MinAmount
		if va.MaxAmount > va.MinAmount {
			action.Amount += r.rng.Int63n(va.MaxAmount - va.MinAmount + 1)
		}
	}
	return action
}
