package game

import (
	"errors"
	"fmt"
)

// Local rejection errors. The action is refused and no state is mutated.
var (
	ErrInsufficientChips  = errors.New("insufficient chips")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrInvalidPhaseAction = errors.New("action not valid in current phase")
	ErrNotEnoughPlayers   = errors.New("not enough players")
	ErrTableClosed        = errors.New("table closed")
	ErrTableFrozen        = errors.New("table frozen pending operator intervention")
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrSeatOccupied       = errors.New("seat occupied")
	ErrHandInProgress     = errors.New("hand in progress")
)

// PotReconciliationError is fatal for the hand: the constructed pots do
// not sum to the chips contributed, so no award may proceed.
type PotReconciliationError struct {
	HandNumber uint64
	PotTotal   int64
	BetTotal   int64
	Pots       []*Pot
}

func (e *PotReconciliationError) Error() string {
	return fmt.Sprintf("pot reconciliation failed on hand %d: pots total %d, contributions total %d (delta %+d)",
		e.HandNumber, e.PotTotal, e.BetTotal, e.PotTotal-e.BetTotal)
}

// SeatDiagnostic captures one seat's full bet ledger for diagnostics and
// snapshots.
type SeatDiagnostic struct {
	Seat             int    `json:"seat"`
	PlayerID         string `json:"playerId"`
	Status           string `json:"status"`
	Chips            int64  `json:"chips"`
	BetThisRound     int64  `json:"betThisRound"`
	TotalBetThisHand int64  `json:"totalBetThisHand"`
}

// PotDiagnostic captures one pot's breakdown for diagnostics and snapshots.
type PotDiagnostic struct {
	Amount   int64    `json:"amount"`
	Cap      int64    `json:"cap"`
	Eligible []string `json:"eligible"`
	Awarded  bool     `json:"awarded"`
}

// ConservationViolation reports a broken conservation invariant with
// enough context to reconstruct the failure. It is never auto-healed: the
// caller decides whether to freeze the table or log and continue.
type ConservationViolation struct {
	Expected   int64            `json:"expected"`
	Actual     int64            `json:"actual"`
	Delta      int64            `json:"delta"`
	HandNumber uint64           `json:"handNumber"`
	Context    string           `json:"context"`
	Seats      []SeatDiagnostic `json:"seats"`
	Pots       []PotDiagnostic  `json:"pots"`
}

func (e *ConservationViolation) Error() string {
	return fmt.Sprintf("chip conservation violated at %q (hand %d): expected %d, have %d (delta %+d)",
		e.Context, e.HandNumber, e.Expected, e.Actual, e.Delta)
}
