package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/hautdesert/chipsafe/internal/config"
	"github.com/hautdesert/chipsafe/internal/game"
	"github.com/hautdesert/chipsafe/internal/randutil"
)

// handSettleTimeout bounds how long one hand may take before the runner
// declares the table hung.
const handSettleTimeout = time.Minute

// Result is one table's outcome in a batch.
type Result struct {
	TableID    string
	Hands      int
	GameOver   bool
	Frozen     bool
	Violations []*game.ConservationViolation
	FinalState game.TableState
	Elapsed    time.Duration
}

// Report aggregates a whole batch.
type Report struct {
	Results []Result
	Elapsed time.Duration
}

// TotalHands sums settled hands across tables.
func (r *Report) TotalHands() int {
	total := 0
	for _, res := range r.Results {
		total += res.Hands
	}
	return total
}

// TotalViolations sums conservation violations across tables.
func (r *Report) TotalViolations() int {
	total := 0
	for _, res := range r.Results {
		total += len(res.Violations)
	}
	return total
}

// Summary renders the batch outcome for the CLI.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "simulation complete: %d tables, %d hands, %d conservation violations (%.1fs)\n",
		len(r.Results), r.TotalHands(), r.TotalViolations(), r.Elapsed.Seconds())
	for _, res := range r.Results {
		fmt.Fprintf(&b, "  %-12s %4d hands", res.TableID, res.Hands)
		if res.GameOver {
			b.WriteString("  game over")
		}
		if res.Frozen {
			b.WriteString("  FROZEN")
		}
		if n := len(res.Violations); n > 0 {
			fmt.Fprintf(&b, "  %d VIOLATIONS", n)
			for _, v := range res.Violations {
				fmt.Fprintf(&b, "\n    hand %d at %q: delta %+d", v.HandNumber, v.Context, v.Delta)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Runner plays configured tables for a fixed number of hands each, fanned
// out in parallel. Every table derives its randomness from the batch seed
// plus its index, so a batch is reproducible end to end.
type Runner struct {
	cfg      *config.Config
	logger   *log.Logger
	recorder game.SettlementRecorder
}

// NewRunner creates a batch runner. recorder may be nil for no persistence.
func NewRunner(cfg *config.Config, logger *log.Logger, recorder game.SettlementRecorder) *Runner {
	if recorder == nil {
		recorder = game.NopRecorder{}
	}
	return &Runner{cfg: cfg, logger: logger.WithPrefix("sim"), recorder: recorder}
}

// Run executes the batch: each configured table block is replicated
// Simulation.Tables times and played for hands hands.
func (r *Runner) Run(ctx context.Context, hands int) (*Report, error) {
	started := time.Now()
	replicas := r.cfg.Simulation.Tables
	total := len(r.cfg.Tables) * replicas
	results := make([]Result, total)

	g, gctx := errgroup.WithContext(ctx)
	idx := 0
	for _, tableCfg := range r.cfg.Tables {
		for i := 0; i < replicas; i++ {
			tableCfg := tableCfg
			id := tableCfg.Name
			if replicas > 1 {
				id = fmt.Sprintf("%s-%d", tableCfg.Name, i+1)
			}
			seed := r.cfg.Simulation.Seed + int64(idx)
			slot := idx
			idx++
			g.Go(func() error {
				res, err := r.runTable(gctx, tableCfg, id, seed, hands)
				results[slot] = res
				return err
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Results: results, Elapsed: time.Since(started)}
	r.logger.Info("batch finished",
		"tables", total,
		"hands", report.TotalHands(),
		"violations", report.TotalViolations())
	return report, nil
}

func (r *Runner) runTable(ctx context.Context, tableCfg config.Table, id string, seed int64, hands int) (Result, error) {
	result := Result{TableID: id}
	started := time.Now()
	defer func() { result.Elapsed = time.Since(started) }()

	engineCfg, err := tableCfg.Engine()
	if err != nil {
		return result, err
	}
	engineCfg.ID = id

	table := game.NewController(engineCfg, r.logger,
		game.WithRNG(randutil.New(seed)),
		game.WithRecorder(r.recorder),
	)

	var mu sync.Mutex
	settled := make(chan struct{}, hands+1)
	table.Events().Subscribe(func(e game.Event) {
		switch v := e.(type) {
		case game.ConservationViolationEvent:
			mu.Lock()
			result.Violations = append(result.Violations, v.Violation)
			mu.Unlock()
		case game.HandSettledEvent:
			select {
			case settled <- struct{}{}:
			default:
			}
		}
	})
	orch := NewOrchestrator(table, r.logger.With("table", id))

	tctx, cancel := context.WithCancel(ctx)
	defer cancel()
	tableDone := make(chan struct{})
	go func() {
		defer close(tableDone)
		_ = table.Run(tctx)
	}()
	go func() { _ = orch.Run(tctx) }()
	defer func() {
		_ = table.Close()
		<-tableDone
	}()

	for i, botCfg := range r.cfg.BotsForTable(tableCfg.Name) {
		strategy, err := NewStrategy(botCfg.Strategy, randutil.New(seed+101*int64(i+1)))
		if err != nil {
			return result, err
		}
		if err := orch.Seat(botCfg.Name, strategy); err != nil {
			return result, fmt.Errorf("table %s: seat %s: %w", id, botCfg.Name, err)
		}
	}

	for h := 0; h < hands; h++ {
		err := table.StartHand()
		if errors.Is(err, game.ErrNotEnoughPlayers) {
			result.GameOver = true
			break
		}
		if errors.Is(err, game.ErrTableFrozen) {
			result.Frozen = true
			break
		}
		if err != nil {
			return result, fmt.Errorf("table %s: start hand %d: %w", id, h+1, err)
		}

		select {
		case <-settled:
			result.Hands++
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(handSettleTimeout):
			return result, fmt.Errorf("table %s: hand %d did not settle within %s", id, h+1, handSettleTimeout)
		}
	}

	result.FinalState = table.State()
	result.Frozen = result.Frozen || result.FinalState.Frozen

	mu.Lock()
	defer mu.Unlock()
	return result, nil
}
