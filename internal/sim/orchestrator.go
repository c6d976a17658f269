package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/hautdesert/chipsafe/internal/game"
)

// Orchestrator seats bots at one table and answers its action requests.
// It consumes events on its own goroutine so the table loop never blocks
// on a slow bot, and it speaks to the table only through the same public
// API a remote player would use.
type Orchestrator struct {
	table      *game.Controller
	logger     *log.Logger
	strategies map[string]Strategy
	requests   chan game.ActionRequiredEvent
}

// NewOrchestrator wires an orchestrator to a table's event bus. Call it
// before the table starts running.
func NewOrchestrator(table *game.Controller, logger *log.Logger) *Orchestrator {
	o := &Orchestrator{
		table:      table,
		logger:     logger.WithPrefix("bots"),
		strategies: make(map[string]Strategy),
		requests:   make(chan game.ActionRequiredEvent, 256),
	}
	table.Events().Subscribe(o.onEvent)
	return o
}

// Seat admits a bot to the table under the given strategy.
func (o *Orchestrator) Seat(playerID string, strategy Strategy) error {
	if _, ok := o.strategies[playerID]; ok {
		return fmt.Errorf("bot %s already seated", playerID)
	}
	if err := o.table.Admit(playerID, -1); err != nil {
		return err
	}
	o.strategies[playerID] = strategy
	return nil
}

func (o *Orchestrator) onEvent(e game.Event) {
	req, ok := e.(game.ActionRequiredEvent)
	if !ok {
		return
	}
	if _, mine := o.strategies[req.PlayerID]; !mine {
		return
	}
	select {
	case o.requests <- req:
	default:
		// A full queue means the driver stalled; the turn timer will fold
		// the bot rather than deadlock the table.
		o.logger.Warn("action request dropped, queue full", "player", req.PlayerID)
	}
}

// Run answers action requests until the context ends or the table closes.
func (o *Orchestrator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-o.requests:
			o.respond(req)
		}
	}
}

func (o *Orchestrator) respond(req game.ActionRequiredEvent) {
	action := o.strategies[req.PlayerID].Decide(req)
	err := o.table.ApplyAction(action)
	if err == nil {
		return
	}
	if errors.Is(err, game.ErrTableClosed) || errors.Is(err, game.ErrTableFrozen) {
		return
	}
	// A misbehaving strategy must not stall the hand. Fold instead.
	o.logger.Warn("bot action refused, folding", "player", req.PlayerID, "action", action.Type, "err", err)
	fallback := game.Action{TableID: req.TableID, PlayerID: req.PlayerID, Type: game.ActionFold}
	if err := o.table.ApplyAction(fallback); err != nil {
		o.logger.Debug("fallback fold refused", "player", req.PlayerID, "err", err)
	}
}
