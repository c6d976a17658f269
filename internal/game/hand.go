package game

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Phase is a hand's position in its lifecycle.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhasePreflop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	PhaseSettled
	PhaseAborted
)

func (p Phase) String() string {
	return [...]string{"waiting", "preflop", "flop", "turn", "river", "showdown", "settled", "aborted"}[p]
}

// Betting reports whether players act in this phase.
func (p Phase) Betting() bool {
	return p >= PhasePreflop && p <= PhaseRiver
}

// Terminal reports whether the hand is finished.
func (p Phase) Terminal() bool {
	return p == PhaseSettled || p == PhaseAborted
}

// ActionType is a player's betting move.
type ActionType int

const (
	ActionFold ActionType = iota
	ActionCheck
	ActionCall
	ActionRaise
	ActionAllIn
)

func (a ActionType) String() string {
	return [...]string{"fold", "check", "call", "raise", "allin"}[a]
}

// Action is one player's move as delivered by the transport layer (or a
// bot using the same API).
type Action struct {
	TableID  string
	PlayerID string
	Type     ActionType
	Amount   int64 // raise-to total for ActionRaise
	At       time.Time
}

// ValidAction advertises one legal move with its amount bounds. For
// ActionRaise the amounts are raise-to totals for the round.
type ValidAction struct {
	Type      ActionType
	MinAmount int64
	MaxAmount int64
}

// StepResult tells the table what an applied action caused.
type StepResult struct {
	PhaseAdvanced bool
	HandComplete  bool
}

// Hand drives a single hand through its phases: whose turn it is, when
// bets equalize, and when the committed chips are ready for the pot
// engine. It never awards pots itself; the table controller does that on
// settlement.
type Hand struct {
	Number             uint64
	Phase              Phase
	DealerSeat         int
	Community          []Card
	Pots               []*Pot
	TotalStartingChips int64

	ledger       *Ledger
	deck         *Deck
	logger       *log.Logger
	participants []*Player
	turnIdx      int
	bigBlind     int64
	currentBet   int64
	minRaise     int64
	acted        map[int]bool
}

// NewHand deals a hand to every active seated player with chips. The
// ledger's bet counters must already be reset for the new hand.
func NewHand(number uint64, ledger *Ledger, deck *Deck, logger *log.Logger, dealerSeat int, smallBlind, bigBlind int64) (*Hand, error) {
	var participants []*Player
	for _, p := range ledger.Players() {
		if p.Status == StatusActive && p.Chips > 0 {
			participants = append(participants, p)
		}
	}
	if len(participants) < 2 {
		return nil, fmt.Errorf("%w: %d eligible", ErrNotEnoughPlayers, len(participants))
	}

	h := &Hand{
		Number:             number,
		Phase:              PhaseWaiting,
		DealerSeat:         dealerSeat,
		TotalStartingChips: ledger.SeatedChipTotal(),
		ledger:             ledger,
		deck:               deck,
		logger:             logger.WithPrefix("hand").With("hand", number),
		participants:       participants,
		bigBlind:           bigBlind,
		minRaise:           bigBlind,
		acted:              make(map[int]bool),
	}
	if err := h.postBlinds(smallBlind, bigBlind); err != nil {
		return nil, err
	}
	h.Phase = PhasePreflop
	if h.turnIdx == -1 {
		// The blinds already put everyone all-in; deal the board out and
		// go straight to showdown.
		for h.Phase.Betting() {
			h.advancePhase()
		}
	}
	return h, nil
}

// TurnSeat returns the seat due to act, or -1 when no action is pending.
func (h *Hand) TurnSeat() int {
	if !h.Phase.Betting() || h.turnIdx < 0 || h.turnIdx >= len(h.participants) {
		return -1
	}
	return h.participants[h.turnIdx].Seat
}

// TurnPlayer returns the player due to act, or nil.
func (h *Hand) TurnPlayer() *Player {
	if !h.Phase.Betting() || h.turnIdx < 0 || h.turnIdx >= len(h.participants) {
		return nil
	}
	return h.participants[h.turnIdx]
}

// CurrentBet returns the bet level players must match this round.
func (h *Hand) CurrentBet() int64 {
	return h.currentBet
}

func (h *Hand) dealerIdx() int {
	for i, p := range h.participants {
		if p.Seat == h.DealerSeat {
			return i
		}
	}
	return 0
}

func (h *Hand) postBlinds(smallBlind, bigBlind int64) error {
	n := len(h.participants)
	dealer := h.dealerIdx()

	var sbIdx, bbIdx int
	if n == 2 {
		// Heads-up: the dealer posts the small blind and acts first.
		sbIdx = dealer
		bbIdx = (dealer + 1) % n
	} else {
		sbIdx = (dealer + 1) % n
		bbIdx = (dealer + 2) % n
	}

	post := func(idx int, blind int64) error {
		p := h.participants[idx]
		if err := h.ledger.Debit(p.ID, min64(blind, p.Chips)); err != nil {
			return err
		}
		if p.Chips == 0 {
			return h.ledger.SetStatus(p.ID, StatusAllIn)
		}
		return nil
	}
	if err := post(sbIdx, smallBlind); err != nil {
		return err
	}
	if err := post(bbIdx, bigBlind); err != nil {
		return err
	}
	h.currentBet = bigBlind

	h.turnIdx = h.nextActorFrom((bbIdx + 1) % n)
	return nil
}

// nextActorFrom scans participants circularly from idx for the next player
// who can act. Folded and all-in seats are skipped.
func (h *Hand) nextActorFrom(idx int) int {
	n := len(h.participants)
	for i := 0; i < n; i++ {
		pos := (idx + i) % n
		if h.participants[pos].CanAct() {
			return pos
		}
	}
	return -1
}

func (h *Hand) inHandCount() int {
	count := 0
	for _, p := range h.participants {
		if p.InHand() {
			count++
		}
	}
	return count
}

// ValidActions returns the legal moves for the player due to act.
func (h *Hand) ValidActions() []ValidAction {
	p := h.TurnPlayer()
	if p == nil {
		return nil
	}

	actions := []ValidAction{{Type: ActionFold}}
	toCall := h.currentBet - p.BetThisRound
	maxTo := p.BetThisRound + p.Chips

	if toCall <= 0 {
		actions = append(actions, ValidAction{Type: ActionCheck})
		if p.Chips > h.minRaise {
			actions = append(actions, ValidAction{Type: ActionRaise, MinAmount: h.currentBet + h.minRaise, MaxAmount: maxTo})
		} else {
			actions = append(actions, ValidAction{Type: ActionAllIn, MinAmount: maxTo, MaxAmount: maxTo})
		}
	} else if toCall >= p.Chips {
		actions = append(actions, ValidAction{Type: ActionAllIn, MinAmount: maxTo, MaxAmount: maxTo})
	} else {
		actions = append(actions, ValidAction{Type: ActionCall, MinAmount: toCall, MaxAmount: toCall})
		if p.Chips > toCall+h.minRaise {
			actions = append(actions, ValidAction{Type: ActionRaise, MinAmount: h.currentBet + h.minRaise, MaxAmount: maxTo})
		} else {
			actions = append(actions, ValidAction{Type: ActionAllIn, MinAmount: maxTo, MaxAmount: maxTo})
		}
	}
	return actions
}

// CanCheck reports whether the player due to act may check. Used for
// timeout auto-actions.
func (h *Hand) CanCheck() bool {
	p := h.TurnPlayer()
	return p != nil && h.currentBet == p.BetThisRound
}

// Apply validates and applies one action for the player due to act. No
// state is mutated on rejection.
func (h *Hand) Apply(a Action) (StepResult, error) {
	if !h.Phase.Betting() {
		return StepResult{}, fmt.Errorf("%w: hand is %s", ErrInvalidPhaseAction, h.Phase)
	}
	p := h.TurnPlayer()
	if p == nil {
		return StepResult{}, fmt.Errorf("%w: no action pending", ErrInvalidPhaseAction)
	}
	if p.ID != a.PlayerID {
		return StepResult{}, fmt.Errorf("%w: it is %s's turn, not %s's", ErrNotYourTurn, p.ID, a.PlayerID)
	}

	switch a.Type {
	case ActionFold:
		if err := h.ledger.SetStatus(p.ID, StatusFolded); err != nil {
			return StepResult{}, err
		}

	case ActionCheck:
		if h.currentBet != p.BetThisRound {
			return StepResult{}, fmt.Errorf("%w: cannot check facing a bet of %d", ErrInvalidPhaseAction, h.currentBet)
		}

	case ActionCall:
		toCall := min64(h.currentBet-p.BetThisRound, p.Chips)
		if toCall < 0 {
			toCall = 0
		}
		if err := h.ledger.Debit(p.ID, toCall); err != nil {
			return StepResult{}, err
		}

	case ActionRaise:
		maxTo := p.BetThisRound + p.Chips
		if a.Amount <= h.currentBet {
			return StepResult{}, fmt.Errorf("%w: raise to %d does not exceed current bet %d", ErrInvalidPhaseAction, a.Amount, h.currentBet)
		}
		if a.Amount > maxTo {
			return StepResult{}, fmt.Errorf("%w: player %s can bet at most %d", ErrInsufficientChips, p.ID, maxTo)
		}
		// Short raises are only legal as an all-in.
		if a.Amount < h.currentBet+h.minRaise && a.Amount < maxTo {
			return StepResult{}, fmt.Errorf("%w: minimum raise is to %d", ErrInvalidPhaseAction, h.currentBet+h.minRaise)
		}
		if err := h.ledger.Debit(p.ID, a.Amount-p.BetThisRound); err != nil {
			return StepResult{}, err
		}
		h.minRaise = a.Amount - h.currentBet
		h.currentBet = a.Amount
		// Everyone gets to act again at the new level.
		h.acted = make(map[int]bool)

	case ActionAllIn:
		if p.Chips == 0 {
			return StepResult{}, fmt.Errorf("%w: player %s has no chips", ErrInvalidPhaseAction, p.ID)
		}
		if err := h.ledger.Debit(p.ID, p.Chips); err != nil {
			return StepResult{}, err
		}
		if p.BetThisRound > h.currentBet {
			h.minRaise = p.BetThisRound - h.currentBet
			h.currentBet = p.BetThisRound
			h.acted = make(map[int]bool)
		}

	default:
		return StepResult{}, fmt.Errorf("%w: unknown action %d", ErrInvalidPhaseAction, a.Type)
	}

	h.acted[p.Seat] = true
	if p.Status != StatusFolded && p.Chips == 0 {
		if err := h.ledger.SetStatus(p.ID, StatusAllIn); err != nil {
			return StepResult{}, err
		}
	}

	h.logger.Debug("action applied",
		"player", p.ID,
		"action", a.Type,
		"amount", a.Amount,
		"currentBet", h.currentBet,
		"phase", h.Phase)

	return h.advance(), nil
}

// ForceFold folds a seat out of turn, for disconnects and removals.
func (h *Hand) ForceFold(playerID string) (StepResult, error) {
	if !h.Phase.Betting() {
		return StepResult{}, fmt.Errorf("%w: hand is %s", ErrInvalidPhaseAction, h.Phase)
	}
	var p *Player
	var idx int
	for i, part := range h.participants {
		if part.ID == playerID {
			p, idx = part, i
			break
		}
	}
	if p == nil {
		return StepResult{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if p.Status == StatusFolded {
		return StepResult{}, nil
	}
	if err := h.ledger.SetStatus(p.ID, StatusFolded); err != nil {
		return StepResult{}, err
	}
	h.acted[p.Seat] = true
	if idx == h.turnIdx {
		return h.advance(), nil
	}
	// Folding out of turn may complete the round or the hand.
	if h.inHandCount() <= 1 || h.roundComplete() {
		return h.advance(), nil
	}
	return StepResult{}, nil
}

// advance moves the turn, the phase, or both after an action.
func (h *Hand) advance() StepResult {
	if h.inHandCount() <= 1 {
		// Fold-through: the lone remaining player takes everything at
		// settlement without further streets.
		h.Phase = PhaseShowdown
		return StepResult{PhaseAdvanced: true, HandComplete: true}
	}

	if !h.roundComplete() {
		h.turnIdx = h.nextActorFrom(h.turnIdx + 1)
		return StepResult{}
	}

	advanced := false
	for h.Phase.Betting() {
		h.advancePhase()
		advanced = true
		if h.Phase == PhaseShowdown {
			return StepResult{PhaseAdvanced: advanced, HandComplete: true}
		}
		h.turnIdx = h.nextActorFrom((h.dealerIdx() + 1) % len(h.participants))
		if h.turnIdx != -1 && !h.roundComplete() {
			break
		}
		// Everyone left is all-in (or a lone actor has nothing to bet
		// against): fast-forward to showdown dealing each street.
	}
	return StepResult{PhaseAdvanced: advanced}
}

// roundComplete reports whether betting for the current phase is done:
// every player who can still act has acted and matched the current bet.
func (h *Hand) roundComplete() bool {
	for _, p := range h.participants {
		if !p.CanAct() {
			continue
		}
		if p.BetThisRound != h.currentBet {
			return false
		}
		if !h.acted[p.Seat] {
			return false
		}
	}
	return true
}

// advancePhase sweeps round bets and deals the next street. Chips already
// committed stay in TotalBetThisHand across the boundary.
func (h *Hand) advancePhase() {
	h.ledger.ClearRoundBets()
	h.currentBet = 0
	h.minRaise = h.bigBlind
	h.acted = make(map[int]bool)

	switch h.Phase {
	case PhasePreflop:
		h.Phase = PhaseFlop
		h.Community = append(h.Community, h.deck.Deal(3)...)
	case PhaseFlop:
		h.Phase = PhaseTurn
		h.Community = append(h.Community, h.deck.Deal(1)...)
	case PhaseTurn:
		h.Phase = PhaseRiver
		h.Community = append(h.Community, h.deck.Deal(1)...)
	case PhaseRiver:
		h.Phase = PhaseShowdown
	}
	h.logger.Debug("phase advanced", "phase", h.Phase, "community", len(h.Community))
}

// Abort terminates the hand from any phase, refunding every committed chip
// so no partial mutation is left behind.
func (h *Hand) Abort() {
	if h.Phase.Terminal() {
		return
	}
	h.ledger.RefundHandBets()
	h.Pots = nil
	h.Phase = PhaseAborted
	h.logger.Debug("hand aborted")
}
