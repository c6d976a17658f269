package game

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/hautdesert/chipsafe/internal/randutil"
)

// Mode selects how a table reacts to a conservation violation.
type Mode int

const (
	// ModeReal freezes the table on any violation. No chip may move on a
	// table whose books do not balance.
	ModeReal Mode = iota
	// ModePractice logs violations and keeps playing.
	ModePractice
	// ModeSimulation logs violations, publishes them for the run report,
	// and keeps playing.
	ModeSimulation
)

func (m Mode) String() string {
	return [...]string{"real", "practice", "simulation"}[m]
}

// ParseMode parses a mode name from configuration.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "real":
		return ModeReal, nil
	case "practice":
		return ModePractice, nil
	case "simulation", "sim":
		return ModeSimulation, nil
	}
	return 0, fmt.Errorf("unknown table mode %q", s)
}

// Config carries the per-table parameters fixed at creation.
type Config struct {
	ID          string
	Seats       int
	BuyIn       int64
	SmallBlind  int64
	BigBlind    int64
	TurnTimeout time.Duration
	Mode        Mode
}

// TableState is a consistent point-in-time view of a table, taken between
// command executions. Snapshots persist it and the compare tool diffs it.
type TableState struct {
	TableID    string           `json:"tableId"`
	HandNumber uint64           `json:"handNumber"`
	Phase      string           `json:"phase"`
	DealerSeat int              `json:"dealerSeat"`
	TurnSeat   int              `json:"turnSeat"`
	CurrentBet int64            `json:"currentBet"`
	Community  []Card           `json:"community"`
	Baseline   int64            `json:"baseline"`
	Frozen     bool             `json:"frozen"`
	Seats      []SeatDiagnostic `json:"seats"`
	Pots       []PotDiagnostic  `json:"pots"`
	Payouts    map[string]int64 `json:"payouts,omitempty"`
}

type applyActionCmd struct {
	action Action
	errc   chan error
}

type admitCmd struct {
	playerID string
	seat     int
	errc     chan error
}

type leaveCmd struct {
	playerID string
	errc     chan error
}

type startHandCmd struct {
	errc chan error
}

type stateCmd struct {
	replyc chan TableState
}

type closeCmd struct {
	errc chan error
}

type timerFiredCmd struct {
	gen uint64
}

// Controller owns one table. All state is confined to the goroutine running
// Run; the exported methods send commands to it and wait for the reply, so
// callers on any goroutine see a serialized table.
type Controller struct {
	cfg      Config
	logger   *log.Logger
	clock    quartz.Clock
	rng      *rand.Rand
	selector WinnerSelector
	recorder SettlementRecorder

	ledger    *Ledger
	pots      *PotEngine
	validator *Validator
	bus       *EventBus

	cmds chan any
	done chan struct{}

	hand        *Hand
	handNumber  uint64
	dealerSeat  int
	frozen      bool
	timerGen    uint64
	timer       *quartz.Timer
	lastPayouts map[string]int64
	leaving     map[string]bool
	pending     []admitCmd
}

// Option overrides a controller default.
type Option func(*Controller)

// WithClock substitutes the wall clock, for tests.
func WithClock(clock quartz.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithRNG substitutes the deck and winner randomness source.
func WithRNG(rng *rand.Rand) Option {
	return func(c *Controller) { c.rng = rng }
}

// WithWinnerSelector substitutes showdown winner selection.
func WithWinnerSelector(s WinnerSelector) Option {
	return func(c *Controller) { c.selector = s }
}

// WithRecorder substitutes settlement persistence.
func WithRecorder(r SettlementRecorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// NewController creates a table. Run must be started before any other
// method is called.
func NewController(cfg Config, logger *log.Logger, opts ...Option) *Controller {
	tableLogger := logger.WithPrefix("table").With("table", cfg.ID)
	c := &Controller{
		cfg:        cfg,
		logger:     tableLogger,
		clock:      quartz.NewReal(),
		rng:        randutil.New(time.Now().UnixNano()),
		recorder:   NopRecorder{},
		ledger:     NewLedger(tableLogger, cfg.Seats),
		validator:  NewValidator(tableLogger),
		bus:        NewEventBus(),
		cmds:       make(chan any),
		done:       make(chan struct{}),
		dealerSeat: -1,
		leaving:    make(map[string]bool),
	}
	c.pots = NewPotEngine(c.ledger, tableLogger)
	for _, opt := range opts {
		opt(c)
	}
	if c.selector == nil {
		c.selector = NewRandomWinnerSelector(c.rng)
	}
	return c
}

// Events returns the table's event bus. Subscribe before Run to avoid
// missing events.
func (c *Controller) Events() *EventBus {
	return c.bus
}

// Run executes commands until the context is canceled or Close is called.
// A live hand is aborted with refunds on the way out, and every command
// still queued is refused with ErrTableClosed.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("table running", "mode", c.cfg.Mode, "seats", c.cfg.Seats)
	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case cmd := <-c.cmds:
			if cl, ok := cmd.(closeCmd); ok {
				c.shutdown()
				cl.errc <- nil
				return nil
			}
			c.handle(cmd)
		}
	}
}

func (c *Controller) shutdown() {
	if c.hand != nil && !c.hand.Phase.Terminal() {
		c.abortHand("table closing")
	}
	c.stopTimer()
	close(c.done)
	for {
		select {
		case cmd := <-c.cmds:
			c.refuse(cmd)
		default:
			c.logger.Info("table closed", "hands", c.handNumber)
			return
		}
	}
}

func (c *Controller) refuse(cmd any) {
	switch v := cmd.(type) {
	case applyActionCmd:
		v.errc <- ErrTableClosed
	case admitCmd:
		v.errc <- ErrTableClosed
	case leaveCmd:
		v.errc <- ErrTableClosed
	case startHandCmd:
		v.errc <- ErrTableClosed
	case closeCmd:
		v.errc <- nil
	case stateCmd:
		v.replyc <- c.snapshotState()
	}
}

func (c *Controller) handle(cmd any) {
	switch v := cmd.(type) {
	case applyActionCmd:
		v.errc <- c.handleApplyAction(v.action)
	case admitCmd:
		v.errc <- c.handleAdmit(v)
	case leaveCmd:
		v.errc <- c.handleLeave(v.playerID)
	case startHandCmd:
		v.errc <- c.handleStartHand()
	case stateCmd:
		v.replyc <- c.snapshotState()
	case timerFiredCmd:
		c.handleTimerFired(v.gen)
	}
}

func (c *Controller) send(cmd any) error {
	select {
	case c.cmds <- cmd:
		return nil
	case <-c.done:
		return ErrTableClosed
	}
}

// ApplyAction submits a player's move.
func (c *Controller) ApplyAction(a Action) error {
	cmd := applyActionCmd{action: a, errc: make(chan error, 1)}
	if err := c.send(cmd); err != nil {
		return err
	}
	return <-cmd.errc
}

// Admit seats a player with the table buy-in. During a hand the admission
// queues and takes effect at the next hand start.
func (c *Controller) Admit(playerID string, seat int) error {
	cmd := admitCmd{playerID: playerID, seat: seat, errc: make(chan error, 1)}
	if err := c.send(cmd); err != nil {
		return err
	}
	return <-cmd.errc
}

// Leave removes a player. Mid-hand the player is folded immediately and
// the seat clears at the next hand start; between hands the exit is
// finalized at once.
func (c *Controller) Leave(playerID string) error {
	cmd := leaveCmd{playerID: playerID, errc: make(chan error, 1)}
	if err := c.send(cmd); err != nil {
		return err
	}
	return <-cmd.errc
}

// StartHand runs the restart pipeline and deals the next hand.
func (c *Controller) StartHand() error {
	cmd := startHandCmd{errc: make(chan error, 1)}
	if err := c.send(cmd); err != nil {
		return err
	}
	return <-cmd.errc
}

// State returns a consistent snapshot of the table.
func (c *Controller) State() TableState {
	cmd := stateCmd{replyc: make(chan TableState, 1)}
	if err := c.send(cmd); err != nil {
		return c.snapshotState()
	}
	return <-cmd.replyc
}

// Close stops the table, aborting any live hand with refunds.
func (c *Controller) Close() error {
	cmd := closeCmd{errc: make(chan error, 1)}
	if err := c.send(cmd); err != nil {
		return nil // already closed
	}
	return <-cmd.errc
}

func (c *Controller) handleAdmit(cmd admitCmd) error {
	if c.frozen {
		return ErrTableFrozen
	}
	if _, ok := c.ledger.Player(cmd.playerID); ok {
		return fmt.Errorf("%w: player %s already seated", ErrSeatOccupied, cmd.playerID)
	}
	for _, p := range c.pending {
		if p.playerID == cmd.playerID {
			return fmt.Errorf("%w: player %s already pending", ErrSeatOccupied, cmd.playerID)
		}
	}
	if c.handInProgress() {
		c.pending = append(c.pending, cmd)
		c.logger.Debug("admission queued", "player", cmd.playerID)
		return nil
	}
	return c.admitNow(cmd.playerID, cmd.seat)
}

// admitNow seats the player and grows the baseline in the same step. These
// two mutations must never be separated.
func (c *Controller) admitNow(playerID string, seat int) error {
	p, err := c.ledger.Admit(playerID, seat, c.cfg.BuyIn)
	if err != nil {
		return err
	}
	c.validator.AdjustBaseline(c.cfg.BuyIn, "buy-in "+playerID)
	c.checkConservation("post-admit")
	c.logger.Info("player admitted", "player", playerID, "seat", p.Seat, "buyIn", c.cfg.BuyIn)
	return nil
}

func (c *Controller) handleLeave(playerID string) error {
	if c.frozen {
		return ErrTableFrozen
	}
	if _, ok := c.ledger.Player(playerID); !ok {
		// Pending admissions can withdraw before being seated.
		for i, p := range c.pending {
			if p.playerID == playerID {
				c.pending = append(c.pending[:i], c.pending[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if c.handInProgress() {
		c.leaving[playerID] = true
		// Seated but not dealt in (sitting out) means nothing to fold;
		// the seat still clears at the next restart.
		prevTurn := c.hand.TurnSeat()
		res, err := c.hand.ForceFold(playerID)
		if err != nil {
			c.logger.Debug("leave without live fold", "player", playerID, "err", err)
			return nil
		}
		c.logger.Info("player leaving, folded from live hand", "player", playerID)
		// An out-of-turn fold that changes nothing must not re-solicit the
		// actor already on the clock.
		if res.HandComplete || res.PhaseAdvanced || c.hand.TurnSeat() != prevTurn {
			c.afterStep(res)
		}
		return nil
	}
	return c.finalizeExit(playerID, false)
}

// finalizeExit withdraws a player's remaining stack from the table and
// shrinks the baseline by exactly that amount.
func (c *Controller) finalizeExit(playerID string, eliminated bool) error {
	p, err := c.ledger.Remove(playerID)
	if err != nil {
		return err
	}
	c.validator.AdjustBaseline(-p.Chips, "exit "+playerID)
	rec := ExitRecord{
		TableID:    c.cfg.ID,
		PlayerID:   p.ID,
		Seat:       p.Seat,
		BuyIn:      c.cfg.BuyIn,
		Chips:      p.Chips,
		HandNumber: c.handNumber,
		Eliminated: eliminated,
		At:         c.clock.Now(),
	}
	if err := c.recorder.RecordExit(rec); err != nil {
		c.logger.Error("exit record failed", "player", playerID, "err", err)
	}
	c.checkConservation("post-exit")
	c.logger.Info("player left", "player", playerID, "chips", p.Chips, "eliminated", eliminated)
	return nil
}

func (c *Controller) handInProgress() bool {
	return c.hand != nil && !c.hand.Phase.Terminal()
}

// handleStartHand runs the restart pipeline in its fixed order: finalize
// exits, seat pending admissions, then deal. Reordering these steps is how
// chips leak between hands.
func (c *Controller) handleStartHand() error {
	if c.frozen {
		return ErrTableFrozen
	}
	if c.handInProgress() {
		return ErrHandInProgress
	}

	// 1. Eliminations and voluntary exits from the previous hand.
	for _, p := range c.ledger.Players() {
		if p.Status == StatusEliminated {
			if err := c.finalizeExit(p.ID, true); err != nil {
				return err
			}
		}
	}
	for id := range c.leaving {
		if _, ok := c.ledger.Player(id); ok {
			if err := c.finalizeExit(id, false); err != nil {
				return err
			}
		}
		delete(c.leaving, id)
	}

	// 2. Pending admissions take the cleared seats. Buy-ins apply to new
	// entrants only; survivors keep their stacks.
	pending := c.pending
	c.pending = nil
	for _, cmd := range pending {
		if err := c.admitNow(cmd.playerID, cmd.seat); err != nil {
			c.logger.Warn("queued admission failed", "player", cmd.playerID, "err", err)
		}
	}

	// 3. Deal.
	c.ledger.ResetForNewHand()
	eligible := 0
	for _, p := range c.ledger.Players() {
		if p.Status == StatusActive && p.Chips > 0 {
			eligible++
		}
	}
	if eligible < 2 {
		return fmt.Errorf("%w: %d eligible", ErrNotEnoughPlayers, eligible)
	}

	c.advanceDealer()
	c.handNumber++
	hand, err := NewHand(c.handNumber, c.ledger, NewDeck(c.rng), c.logger, c.dealerSeat, c.cfg.SmallBlind, c.cfg.BigBlind)
	if err != nil {
		return err
	}
	c.hand = hand
	c.lastPayouts = nil

	c.bus.Publish(HandStartEvent{
		baseEvent:  baseEvent{Type: EventHandStart, At: c.clock.Now()},
		TableID:    c.cfg.ID,
		HandNumber: c.handNumber,
		DealerSeat: c.dealerSeat,
		SmallBlind: c.cfg.SmallBlind,
		BigBlind:   c.cfg.BigBlind,
		Players:    eligible,
	})
	c.checkConservation("post-deal")
	if c.frozen {
		return ErrTableFrozen
	}
	if c.hand.Phase == PhaseShowdown {
		// Blinds alone decided the action; nothing to solicit.
		c.settle()
		return nil
	}
	c.requestAction()
	return nil
}

// advanceDealer moves the button to the next seat clockwise that holds a
// player who can be dealt in.
func (c *Controller) advanceDealer() {
	n := c.ledger.SeatCount()
	for i := 1; i <= n; i++ {
		seat := ((c.dealerSeat + i) % n + n) % n
		p := c.ledger.PlayerAtSeat(seat)
		if p != nil && p.Status == StatusActive && p.Chips > 0 {
			c.dealerSeat = seat
			return
		}
	}
}

func (c *Controller) handleApplyAction(a Action) error {
	if c.frozen {
		return ErrTableFrozen
	}
	if !c.handInProgress() {
		return fmt.Errorf("%w: no hand in progress", ErrInvalidPhaseAction)
	}
	res, err := c.hand.Apply(a)
	if err != nil {
		return err
	}
	c.stopTimer()
	c.bus.Publish(PlayerActionEvent{
		baseEvent:  baseEvent{Type: EventPlayerAction, At: c.clock.Now()},
		TableID:    c.cfg.ID,
		HandNumber: c.handNumber,
		PlayerID:   a.PlayerID,
		Action:     a.Type.String(),
		Amount:     a.Amount,
	})
	c.afterStep(res)
	return nil
}

// afterStep publishes phase transitions, settles completed hands, and
// solicits the next action.
func (c *Controller) afterStep(res StepResult) {
	if c.hand == nil {
		return
	}
	if res.PhaseAdvanced && !res.HandComplete {
		c.bus.Publish(PhaseChangedEvent{
			baseEvent:  baseEvent{Type: EventPhaseChanged, At: c.clock.Now()},
			TableID:    c.cfg.ID,
			HandNumber: c.handNumber,
			Phase:      c.hand.Phase.String(),
			Community:  c.hand.Community,
		})
	}
	if res.HandComplete {
		c.stopTimer()
		c.settle()
		return
	}
	if c.hand.Phase.Betting() {
		c.requestAction()
	}
}

// requestAction tells the player due to act and arms the turn timer. Each
// armed timer carries a fresh generation so a late firing for an earlier
// turn is provably stale.
func (c *Controller) requestAction() {
	p := c.hand.TurnPlayer()
	if p == nil {
		return
	}
	c.bus.Publish(ActionRequiredEvent{
		baseEvent:  baseEvent{Type: EventActionRequired, At: c.clock.Now()},
		TableID:    c.cfg.ID,
		HandNumber: c.handNumber,
		PlayerID:   p.ID,
		Seat:       p.Seat,
		ToCall:     c.hand.CurrentBet() - p.BetThisRound,
		Valid:      c.hand.ValidActions(),
	})
	if c.cfg.TurnTimeout <= 0 {
		return
	}
	c.timerGen++
	gen := c.timerGen
	c.timer = c.clock.AfterFunc(c.cfg.TurnTimeout, func() {
		select {
		case c.cmds <- timerFiredCmd{gen: gen}:
		case <-c.done:
		}
	})
}

func (c *Controller) stopTimer() {
	c.timerGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// handleTimerFired auto-acts for a player who ran out their turn clock.
// A generation mismatch means the turn already resolved; the firing is
// discarded without touching the hand.
func (c *Controller) handleTimerFired(gen uint64) {
	if gen != c.timerGen || !c.handInProgress() {
		c.logger.Debug("stale turn timer ignored", "gen", gen, "current", c.timerGen)
		return
	}
	p := c.hand.TurnPlayer()
	if p == nil {
		return
	}
	action := Action{TableID: c.cfg.ID, PlayerID: p.ID, Type: ActionFold, At: c.clock.Now()}
	if c.hand.CanCheck() {
		action.Type = ActionCheck
	}
	res, err := c.hand.Apply(action)
	if err != nil {
		c.logger.Error("timeout auto-action failed", "player", p.ID, "err", err)
		return
	}
	c.logger.Info("turn timed out", "player", p.ID, "action", action.Type)
	c.bus.Publish(PlayerActionEvent{
		baseEvent:  baseEvent{Type: EventPlayerAction, At: c.clock.Now()},
		TableID:    c.cfg.ID,
		HandNumber: c.handNumber,
		PlayerID:   p.ID,
		Action:     action.Type.String(),
		Auto:       true,
	})
	c.afterStep(res)
}

// settle moves the hand's committed chips into pots, awards them, and
// finalizes the hand. Reconciliation failure aborts the hand with refunds
// rather than awarding from pots that do not add up, and a freeze at any
// checkpoint stops the settlement where it stands.
func (c *Controller) settle() {
	pots, err := c.pots.Build(c.handNumber)
	if err != nil {
		c.logger.Error("pot reconciliation failed, aborting hand", "hand", c.handNumber, "err", err)
		c.abortHand("pot reconciliation failure")
		if c.cfg.Mode == ModeReal {
			c.freeze("pot reconciliation failure")
		}
		return
	}
	c.hand.Pots = pots
	c.checkConservation("post-build")
	if c.frozen {
		// Unbalanced books; the built pots stay unawarded for the operator.
		return
	}

	payouts := make(map[string]int64)
	for i, pot := range pots {
		eligible := make([]*Player, 0, len(pot.Eligible))
		for _, id := range pot.Eligible {
			if p, ok := c.ledger.Player(id); ok {
				eligible = append(eligible, p)
			}
		}
		winners := c.selector.SelectWinners(eligible, c.hand.Community)
		share, err := c.pots.Award(pot, winners, c.hand.DealerSeat)
		if err != nil {
			c.logger.Error("pot award failed", "hand", c.handNumber, "pot", i, "err", err)
			c.freeze("pot award failure")
			return
		}
		for id, amount := range share {
			payouts[id] += amount
		}
		c.bus.Publish(PotAwardedEvent{
			baseEvent:  baseEvent{Type: EventPotAwarded, At: c.clock.Now()},
			TableID:    c.cfg.ID,
			HandNumber: c.handNumber,
			PotIndex:   i,
			Amount:     pot.Amount,
			Payouts:    share,
		})
		c.checkConservation("post-award")
		if c.frozen {
			return
		}
	}

	c.hand.Phase = PhaseSettled
	c.lastPayouts = payouts

	for _, p := range c.ledger.Players() {
		if p.Chips == 0 && p.Status != StatusEliminated {
			if err := c.ledger.SetStatus(p.ID, StatusEliminated); err != nil {
				c.logger.Error("elimination status failed", "player", p.ID, "err", err)
				continue
			}
			c.bus.Publish(PlayerEliminatedEvent{
				baseEvent:  baseEvent{Type: EventPlayerEliminated, At: c.clock.Now()},
				TableID:    c.cfg.ID,
				HandNumber: c.handNumber,
				PlayerID:   p.ID,
				Seat:       p.Seat,
			})
		}
	}

	state := c.snapshotState()
	if err := c.recorder.RecordHand(state); err != nil {
		c.logger.Error("hand record failed", "hand", c.handNumber, "err", err)
	}
	c.bus.Publish(HandSettledEvent{
		baseEvent:  baseEvent{Type: EventHandSettled, At: c.clock.Now()},
		TableID:    c.cfg.ID,
		HandNumber: c.handNumber,
		State:      state,
	})

	var withChips []*Player
	for _, p := range c.ledger.Players() {
		if p.Status != StatusEliminated && p.Chips > 0 {
			withChips = append(withChips, p)
		}
	}
	if len(withChips) == 1 {
		c.bus.Publish(GameOverEvent{
			baseEvent:   baseEvent{Type: EventGameOver, At: c.clock.Now()},
			TableID:     c.cfg.ID,
			WinnerID:    withChips[0].ID,
			HandsPlayed: c.handNumber,
		})
		c.logger.Info("game over", "winner", withChips[0].ID, "hands", c.handNumber)
	}
}

// abortHand refunds every committed chip and terminates the live hand.
func (c *Controller) abortHand(reason string) {
	c.stopTimer()
	c.hand.Abort()
	c.logger.Warn("hand aborted", "hand", c.handNumber, "reason", reason)
	c.checkConservation("post-abort")
}

// checkConservation runs the validator at a transition boundary. Chips
// still riding as uncollected bets count until pots are built; afterwards
// the pots carry them.
func (c *Controller) checkConservation(boundary string) {
	var pending int64
	if c.hand == nil || c.hand.Pots == nil {
		pending = c.ledger.PendingBetTotal()
	}
	var pots []*Pot
	if c.hand != nil {
		pots = c.hand.Pots
	}
	err := c.validator.Check(c.ledger, pots, pending, c.handNumber, boundary)
	if err == nil {
		return
	}
	if viol, ok := err.(*ConservationViolation); ok {
		c.bus.Publish(ConservationViolationEvent{
			baseEvent: baseEvent{Type: EventConservationViolation, At: c.clock.Now()},
			TableID:   c.cfg.ID,
			Violation: viol,
		})
	}
	if c.cfg.Mode == ModeReal {
		c.freeze(boundary)
	}
}

// freeze halts all chip movement on the table. Only State and Close work
// afterwards; there is no unfreeze.
func (c *Controller) freeze(reason string) {
	if c.frozen {
		return
	}
	c.frozen = true
	c.stopTimer()
	c.logger.Error("table frozen", "reason", reason, "hand", c.handNumber)
}

func (c *Controller) snapshotState() TableState {
	state := TableState{
		TableID:    c.cfg.ID,
		HandNumber: c.handNumber,
		Phase:      PhaseWaiting.String(),
		DealerSeat: c.dealerSeat,
		TurnSeat:   -1,
		Baseline:   c.validator.Baseline(),
		Frozen:     c.frozen,
		Payouts:    c.lastPayouts,
	}
	if c.hand != nil {
		state.Phase = c.hand.Phase.String()
		state.TurnSeat = c.hand.TurnSeat()
		state.CurrentBet = c.hand.CurrentBet()
		state.Community = c.hand.Community
		for _, pot := range c.hand.Pots {
			state.Pots = append(state.Pots, PotDiagnostic{
				Amount:   pot.Amount,
				Cap:      pot.Cap,
				Eligible: pot.Eligible,
				Awarded:  pot.Awarded(),
			})
		}
	}
	for _, p := range c.ledger.Players() {
		state.Seats = append(state.Seats, SeatDiagnostic{
			Seat:             p.Seat,
			PlayerID:         p.ID,
			Status:           p.Status.String(),
			Chips:            p.Chips,
			BetThisRound:     p.BetThisRound,
			TotalBetThisHand: p.TotalBetThisHand,
		})
	}
	return state
}
