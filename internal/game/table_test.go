package game

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstSelector always awards to the first eligible player in seat order.
type firstSelector struct{}

func (firstSelector) SelectWinners(eligible []*Player, _ []Card) []string {
	if len(eligible) == 0 {
		return nil
	}
	return []string{eligible[0].ID}
}

// pickSelector awards to a fixed player when eligible.
type pickSelector struct{ id string }

func (s pickSelector) SelectWinners(eligible []*Player, _ []Card) []string {
	for _, p := range eligible {
		if p.ID == s.id {
			return []string{p.ID}
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	return []string{eligible[0].ID}
}

// eventTrap records every published event and feeds action requests to a
// driving goroutine.
type eventTrap struct {
	mu       sync.Mutex
	events   []Event
	required chan ActionRequiredEvent
	settled  chan HandSettledEvent
}

func newEventTrap() *eventTrap {
	return &eventTrap{
		required: make(chan ActionRequiredEvent, 128),
		settled:  make(chan HandSettledEvent, 16),
	}
}

func (tr *eventTrap) handle(e Event) {
	tr.mu.Lock()
	tr.events = append(tr.events, e)
	tr.mu.Unlock()
	switch v := e.(type) {
	case ActionRequiredEvent:
		tr.required <- v
	case HandSettledEvent:
		tr.settled <- v
	}
}

func (tr *eventTrap) ofType(typ EventType) []Event {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	var out []Event
	for _, e := range tr.events {
		if e.EventType() == typ {
			out = append(out, e)
		}
	}
	return out
}

func testConfig() Config {
	return Config{
		ID:         "table1",
		Seats:      6,
		BuyIn:      10000,
		SmallBlind: 5,
		BigBlind:   10,
		Mode:       ModeSimulation,
	}
}

func startTable(t *testing.T, cfg Config, opts ...Option) (*Controller, *eventTrap) {
	t.Helper()
	opts = append([]Option{WithRNG(rand.New(rand.NewSource(42)))}, opts...)
	c := NewController(cfg, testLogger(), opts...)
	trap := newEventTrap()
	c.Events().Subscribe(trap.handle)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return c, trap
}

// drive applies a passive check-or-call line until the hand settles.
func drive(t *testing.T, c *Controller, trap *eventTrap) TableState {
	t.Helper()
	for {
		select {
		case req := <-trap.required:
			action := Action{TableID: "table1", PlayerID: req.PlayerID, Type: ActionFold}
			for _, va := range req.Valid {
				if va.Type == ActionCheck {
					action.Type = ActionCheck
					break
				}
				if va.Type == ActionCall || va.Type == ActionAllIn {
					action.Type = va.Type
				}
			}
			require.NoError(t, c.ApplyAction(action))
		case settled := <-trap.settled:
			return settled.State
		case <-time.After(5 * time.Second):
			t.Fatal("hand did not settle")
		}
	}
}

func chipSum(state TableState) int64 {
	var total int64
	for _, s := range state.Seats {
		total += s.Chips + s.TotalBetThisHand
	}
	return total
}

func TestTablePlaysHandAndConservesChips(t *testing.T) {
	t.Parallel()

	c, trap := startTable(t, testConfig(), WithWinnerSelector(firstSelector{}))
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, c.Admit(id, -1))
	}
	require.NoError(t, c.StartHand())

	state := drive(t, c, trap)
	assert.Equal(t, "settled", state.Phase)
	assert.Equal(t, int64(30000), state.Baseline)
	assert.Equal(t, int64(30000), chipSum(state))
	assert.False(t, state.Frozen)

	var paid int64
	for _, amount := range state.Payouts {
		paid += amount
	}
	assert.Equal(t, int64(30), paid, "three limped big blinds")
	assert.NotEmpty(t, trap.ofType(EventPotAwarded))
}

func TestTableConservesChipsAcrossManyHands(t *testing.T) {
	t.Parallel()

	c, trap := startTable(t, testConfig())
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, c.Admit(id, -1))
	}

	for i := 0; i < 20; i++ {
		err := c.StartHand()
		if err != nil {
			require.ErrorIs(t, err, ErrNotEnoughPlayers)
			break
		}
		state := drive(t, c, trap)
		require.Equal(t, state.Baseline, chipSum(state), "hand %d", i)
		require.False(t, state.Frozen)
	}
	assert.Empty(t, trap.ofType(EventConservationViolation))
}

func TestAdmitDuringHandQueuesUntilNextHand(t *testing.T) {
	t.Parallel()

	c, trap := startTable(t, testConfig(), WithWinnerSelector(firstSelector{}))
	require.NoError(t, c.Admit("a", -1))
	require.NoError(t, c.Admit("b", -1))
	require.NoError(t, c.StartHand())

	require.NoError(t, c.Admit("c", -1))
	state := c.State()
	assert.Len(t, state.Seats, 2, "admission waits for the next hand")
	assert.Equal(t, int64(20000), state.Baseline, "buy-in not booked until seated")

	drive(t, c, trap)
	require.NoError(t, c.StartHand())

	state = c.State()
	assert.Len(t, state.Seats, 3)
	assert.Equal(t, int64(30000), state.Baseline)
}

func TestLeaveBetweenHandsShrinksBaselineByStack(t *testing.T) {
	t.Parallel()

	c, _ := startTable(t, testConfig())
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, c.Admit(id, -1))
	}
	require.Equal(t, int64(30000), c.State().Baseline)

	// c never played a hand, so exactly the buy-in leaves with them.
	require.NoError(t, c.Leave("c"))

	state := c.State()
	assert.Equal(t, int64(20000), state.Baseline)
	assert.Len(t, state.Seats, 2)
	assert.False(t, state.Frozen)

	require.ErrorIs(t, c.Leave("zz"), ErrUnknownPlayer)
}

func TestLeaveMidHandFoldsAndClearsSeatAtRestart(t *testing.T) {
	t.Parallel()

	c, trap := startTable(t, testConfig(), WithWinnerSelector(firstSelector{}))
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, c.Admit(id, -1))
	}
	require.NoError(t, c.StartHand())

	// b posted the small blind; those 5 chips stay in the hand when b
	// leaves, and only the remaining 9995 exit with them.
	require.NoError(t, c.Leave("b"))
	state := c.State()
	assert.Len(t, state.Seats, 3, "seat clears at restart, not mid-hand")

	drive(t, c, trap)
	require.NoError(t, c.StartHand())

	state = c.State()
	assert.Len(t, state.Seats, 2)
	assert.Equal(t, int64(20005), state.Baseline)
	assert.Equal(t, state.Baseline, chipSum(state))
}

func TestEliminationFinalizesAtRestart(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	c, trap := startTable(t, cfg, WithWinnerSelector(pickSelector{id: "a"}))
	require.NoError(t, c.Admit("a", -1))
	require.NoError(t, c.Admit("b", -1))
	require.NoError(t, c.StartHand())

	// Shove both stacks in; a takes everything and b busts.
	for i := 0; i < 2; i++ {
		req := <-trap.required
		require.NoError(t, c.ApplyAction(Action{PlayerID: req.PlayerID, Type: ActionAllIn}))
	}

	select {
	case settled := <-trap.settled:
		assert.Equal(t, settled.State.Baseline, chipSum(settled.State))
	case <-time.After(5 * time.Second):
		t.Fatal("hand did not settle")
	}

	require.NotEmpty(t, trap.ofType(EventPlayerEliminated))
	require.NotEmpty(t, trap.ofType(EventGameOver))

	// The bust finalizes with a zero stack, so the baseline holds; the
	// table just cannot deal another hand.
	err := c.StartHand()
	require.ErrorIs(t, err, ErrNotEnoughPlayers)
	state := c.State()
	assert.Len(t, state.Seats, 1)
	assert.Equal(t, int64(20000), state.Baseline)
	assert.Equal(t, int64(20000), state.Seats[0].Chips)
}

func TestRestartPreservesSurvivorStackWhileSeatingEntrant(t *testing.T) {
	t.Parallel()

	c, trap := startTable(t, testConfig(), WithWinnerSelector(pickSelector{id: "a"}))
	require.NoError(t, c.Admit("a", -1))
	require.NoError(t, c.Admit("b", -1))
	require.NoError(t, c.StartHand())

	// c buys in mid-hand while b busts to a; both resolve in one restart.
	require.NoError(t, c.Admit("c", -1))
	for i := 0; i < 2; i++ {
		req := <-trap.required
		require.NoError(t, c.ApplyAction(Action{PlayerID: req.PlayerID, Type: ActionAllIn}))
	}
	select {
	case <-trap.settled:
	case <-time.After(5 * time.Second):
		t.Fatal("hand did not settle")
	}

	require.NoError(t, c.StartHand())

	state := c.State()
	byID := make(map[string]SeatDiagnostic, len(state.Seats))
	for _, s := range state.Seats {
		byID[s.PlayerID] = s
	}
	require.Len(t, byID, 2)
	require.NotContains(t, byID, "b", "bust seat cleared at restart")

	// The survivor keeps the doubled stack untouched; only the entrant
	// starts from the buy-in.
	assert.Equal(t, int64(20000), byID["a"].Chips+byID["a"].TotalBetThisHand)
	assert.Equal(t, int64(10000), byID["c"].Chips+byID["c"].TotalBetThisHand)
	assert.Equal(t, int64(30000), state.Baseline)
	assert.Equal(t, state.Baseline, chipSum(state))
}

func TestTurnTimeoutAutoActs(t *testing.T) {
	t.Parallel()

	mockClock := quartz.NewMock(t)
	cfg := testConfig()
	cfg.TurnTimeout = 5 * time.Second
	c, trap := startTable(t, cfg, WithClock(mockClock))
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, c.Admit(id, -1))
	}
	require.NoError(t, c.StartHand())

	first := <-trap.required
	assert.Equal(t, "a", first.PlayerID)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mockClock.Advance(cfg.TurnTimeout).MustWait(ctx)

	// a faced the big blind and could not check, so the timeout folds.
	require.Eventually(t, func() bool {
		for _, s := range c.State().Seats {
			if s.PlayerID == "a" {
				return s.Status == StatusFolded.String()
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)

	var auto bool
	for _, e := range trap.ofType(EventPlayerAction) {
		if pa := e.(PlayerActionEvent); pa.Auto && pa.PlayerID == "a" {
			auto = true
			assert.Equal(t, "fold", pa.Action)
		}
	}
	assert.True(t, auto, "timeout action is marked auto")
}

func TestStaleTimerFiringIsIgnored(t *testing.T) {
	t.Parallel()

	mockClock := quartz.NewMock(t)
	cfg := testConfig()
	cfg.TurnTimeout = 5 * time.Second
	c, trap := startTable(t, cfg, WithClock(mockClock))
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, c.Admit(id, -1))
	}
	require.NoError(t, c.StartHand())

	req := <-trap.required
	require.NoError(t, c.ApplyAction(Action{PlayerID: req.PlayerID, Type: ActionCall}))

	// Deliver a firing for the turn that already resolved. The generation
	// no longer matches, so nothing may move.
	before := c.State()
	c.cmds <- timerFiredCmd{gen: 1}
	after := c.State()

	assert.Equal(t, before.TurnSeat, after.TurnSeat)
	assert.Equal(t, before.Seats, after.Seats)
	assert.Empty(t, trap.ofType(EventPlayerAction)[1:], "only the call was applied")
}

func TestApplyActionErrors(t *testing.T) {
	t.Parallel()

	c, _ := startTable(t, testConfig())
	require.NoError(t, c.Admit("a", -1))
	require.NoError(t, c.Admit("b", -1))

	err := c.ApplyAction(Action{PlayerID: "a", Type: ActionCall})
	require.ErrorIs(t, err, ErrInvalidPhaseAction, "no hand in progress")

	require.NoError(t, c.StartHand())
	err = c.ApplyAction(Action{PlayerID: "b", Type: ActionCall})
	require.ErrorIs(t, err, ErrNotYourTurn)
}

func TestStartHandRequiresTwoPlayers(t *testing.T) {
	t.Parallel()

	c, _ := startTable(t, testConfig())
	require.NoError(t, c.Admit("a", -1))
	require.ErrorIs(t, c.StartHand(), ErrNotEnoughPlayers)
}

func TestStartHandWhileHandInProgress(t *testing.T) {
	t.Parallel()

	c, _ := startTable(t, testConfig())
	require.NoError(t, c.Admit("a", -1))
	require.NoError(t, c.Admit("b", -1))
	require.NoError(t, c.StartHand())
	require.ErrorIs(t, c.StartHand(), ErrHandInProgress)
}

func TestCloseRefusesFurtherCommands(t *testing.T) {
	t.Parallel()

	c, _ := startTable(t, testConfig())
	require.NoError(t, c.Admit("a", -1))
	require.NoError(t, c.Admit("b", -1))
	require.NoError(t, c.StartHand())

	require.NoError(t, c.Close())

	require.ErrorIs(t, c.ApplyAction(Action{PlayerID: "a", Type: ActionCall}), ErrTableClosed)
	require.ErrorIs(t, c.Admit("z", -1), ErrTableClosed)
	require.ErrorIs(t, c.StartHand(), ErrTableClosed)
	require.NoError(t, c.Close(), "close is idempotent")
}

func TestCloseMidHandRefundsCommittedChips(t *testing.T) {
	t.Parallel()

	c, trap := startTable(t, testConfig())
	require.NoError(t, c.Admit("a", -1))
	require.NoError(t, c.Admit("b", -1))
	require.NoError(t, c.StartHand())
	require.NoError(t, c.Close())

	assert.Empty(t, trap.ofType(EventConservationViolation),
		"abort refunds keep the books balanced through teardown")
}

func TestRealModeFreezesOnViolation(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Mode = ModeReal
	c := NewController(cfg, testLogger())
	require.NoError(t, c.handleAdmit(admitCmd{playerID: "a", seat: -1}))
	require.NoError(t, c.handleAdmit(admitCmd{playerID: "b", seat: -1}))

	// Skew the baseline so the next check cannot balance.
	c.validator.AdjustBaseline(1, "corruption")
	c.checkConservation("test")

	assert.True(t, c.frozen)
	require.ErrorIs(t, c.handleStartHand(), ErrTableFrozen)
	require.ErrorIs(t, c.handleApplyAction(Action{PlayerID: "a", Type: ActionCall}), ErrTableFrozen)
	require.ErrorIs(t, c.handleAdmit(admitCmd{playerID: "z", seat: -1}), ErrTableFrozen)
	require.ErrorIs(t, c.handleLeave("a"), ErrTableFrozen,
		"no stack withdraws from a table under investigation")
}

func TestRealModeFreezeStopsSettlementBeforeAward(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Mode = ModeReal
	c := NewController(cfg, testLogger())
	trap := newEventTrap()
	c.Events().Subscribe(trap.handle)
	require.NoError(t, c.handleAdmit(admitCmd{playerID: "a", seat: -1}))
	require.NoError(t, c.handleAdmit(admitCmd{playerID: "b", seat: -1}))
	require.NoError(t, c.handleStartHand())

	// Corrupt the baseline mid-hand, then let the second shove complete the
	// hand. Settlement must freeze at the post-build check and stop: no pot
	// pays out and no stack changes once the books fail to balance.
	require.NoError(t, c.handleApplyAction(Action{PlayerID: "a", Type: ActionAllIn}))
	c.validator.AdjustBaseline(1, "corruption")
	require.NoError(t, c.handleApplyAction(Action{PlayerID: "b", Type: ActionAllIn}))

	assert.True(t, c.frozen)
	assert.Zero(t, c.ledger.SeatedChipTotal(),
		"both stacks shoved; nothing may pay back out on a frozen table")
	assert.Empty(t, trap.ofType(EventPotAwarded))
	assert.NotEqual(t, PhaseSettled.String(), c.snapshotState().Phase)
	for _, pot := range c.hand.Pots {
		assert.False(t, pot.Awarded())
	}
}

func TestSimulationModePublishesViolationAndContinues(t *testing.T) {
	t.Parallel()

	c := NewController(testConfig(), testLogger())
	trap := newEventTrap()
	c.Events().Subscribe(trap.handle)
	require.NoError(t, c.handleAdmit(admitCmd{playerID: "a", seat: -1}))
	require.NoError(t, c.handleAdmit(admitCmd{playerID: "b", seat: -1}))

	c.validator.AdjustBaseline(1, "corruption")
	c.checkConservation("test")

	assert.False(t, c.frozen)
	require.Len(t, trap.ofType(EventConservationViolation), 1)
	viol := trap.ofType(EventConservationViolation)[0].(ConservationViolationEvent).Violation
	assert.Equal(t, int64(-1), viol.Delta)

	require.NoError(t, c.handleStartHand())
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"real", ModeReal, true},
		{"Practice", ModePractice, true},
		{"simulation", ModeSimulation, true},
		{"sim", ModeSimulation, true},
		{"tournament", 0, false},
	}
	for _, tc := range tests {
		got, err := ParseMode(tc.in)
		if !tc.ok {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
