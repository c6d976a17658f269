package game

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Ledger is the sole mutator of player chip counts. Every chip that moves
// at a table moves through Debit, Credit, or one of the two reset entry
// points.
type Ledger struct {
	logger  *log.Logger
	players map[string]*Player
	seats   []*Player
}

// NewLedger creates an empty ledger with seatCount seats.
func NewLedger(logger *log.Logger, seatCount int) *Ledger {
	return &Ledger{
		logger:  logger.WithPrefix("ledger"),
		players: make(map[string]*Player),
		seats:   make([]*Player, seatCount),
	}
}

// SeatCount returns the number of seats at the table, occupied or not.
func (l *Ledger) SeatCount() int {
	return len(l.seats)
}

// Admit seats a player with their buy-in stack. Seat -1 takes the first
// free seat.
func (l *Ledger) Admit(id string, seat int, buyIn int64) (*Player, error) {
	if _, ok := l.players[id]; ok {
		return nil, fmt.Errorf("%w: player %s already seated", ErrSeatOccupied, id)
	}
	if seat == -1 {
		for i, occupant := range l.seats {
			if occupant == nil {
				seat = i
				break
			}
		}
	}
	if seat < 0 || seat >= len(l.seats) {
		return nil, fmt.Errorf("no free seat for player %s", id)
	}
	if l.seats[seat] != nil {
		return nil, fmt.Errorf("%w: seat %d", ErrSeatOccupied, seat)
	}
	p := &Player{ID: id, Seat: seat, Chips: buyIn, Status: StatusActive}
	l.players[id] = p
	l.seats[seat] = p
	l.logger.Debug("player admitted", "player", id, "seat", seat, "buyIn", buyIn)
	return p, nil
}

// Remove clears a player's seat and returns their final entry. Baseline
// adjustment is the caller's responsibility.
func (l *Ledger) Remove(id string) (*Player, error) {
	p, ok := l.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	delete(l.players, id)
	l.seats[p.Seat] = nil
	l.logger.Debug("player removed", "player", id, "seat", p.Seat, "chips", p.Chips)
	return p, nil
}

// Player looks up a seated player by id.
func (l *Ledger) Player(id string) (*Player, bool) {
	p, ok := l.players[id]
	return p, ok
}

// PlayerAtSeat returns the occupant of a seat, or nil.
func (l *Ledger) PlayerAtSeat(seat int) *Player {
	if seat < 0 || seat >= len(l.seats) {
		return nil
	}
	return l.seats[seat]
}

// Players returns all seated players in seat order.
func (l *Ledger) Players() []*Player {
	players := make([]*Player, 0, len(l.players))
	for _, p := range l.seats {
		if p != nil {
			players = append(players, p)
		}
	}
	return players
}

// Debit moves amount from the player's stack into their round and hand bet
// totals. It refuses rather than let a stack go negative.
func (l *Ledger) Debit(id string, amount int64) error {
	p, ok := l.players[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	if amount < 0 {
		return fmt.Errorf("negative debit %d for player %s", amount, id)
	}
	if amount > p.Chips {
		return fmt.Errorf("%w: player %s has %d, needs %d", ErrInsufficientChips, id, p.Chips, amount)
	}
	p.Chips -= amount
	p.BetThisRound += amount
	p.TotalBetThisHand += amount
	return nil
}

// Credit adds amount to the player's stack. Used by pot awards, buy-ins,
// and abort refunds only.
func (l *Ledger) Credit(id string, amount int64) error {
	p, ok := l.players[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	if amount < 0 {
		return fmt.Errorf("negative credit %d for player %s", amount, id)
	}
	p.Chips += amount
	return nil
}

// SetStatus applies a table-requested status transition.
func (l *Ledger) SetStatus(id string, s Status) error {
	p, ok := l.players[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	p.Status = s
	return nil
}

// ClearRoundBets zeroes per-round bets at a phase boundary while keeping
// TotalBetThisHand intact. Chips committed to the hand must survive phase
// transitions or they vanish from the pot.
func (l *Ledger) ClearRoundBets() {
	for _, p := range l.players {
		p.BetThisRound = 0
	}
}

// RefundHandBets returns every committed chip to its owner's stack and
// clears both bet counters. Only hand aborts use this; settled hands pay
// committed chips out through pots instead.
func (l *Ledger) RefundHandBets() {
	for _, p := range l.players {
		if p.TotalBetThisHand > 0 {
			p.Chips += p.TotalBetThisHand
			l.logger.Debug("bet refunded", "player", p.ID, "amount", p.TotalBetThisHand)
		}
		p.BetThisRound = 0
		p.TotalBetThisHand = 0
	}
}

// ResetForNewHand clears both bet counters and returns folded and all-in
// players to active. It must run once per hand start, after eliminations
// have been finalized, never before.
func (l *Ledger) ResetForNewHand() {
	for _, p := range l.players {
		p.BetThisRound = 0
		p.TotalBetThisHand = 0
		if p.Status == StatusFolded || p.Status == StatusAllIn {
			p.Status = StatusActive
		}
	}
}

// SeatedChipTotal sums stacks across everyone still seated.
func (l *Ledger) SeatedChipTotal() int64 {
	var total int64
	for _, p := range l.players {
		if p.Seated() {
			total += p.Chips
		}
	}
	return total
}

// PendingBetTotal sums chips committed to the current hand that have not
// yet been swept into pots.
func (l *Ledger) PendingBetTotal() int64 {
	var total int64
	for _, p := range l.players {
		if p.Seated() {
			total += p.TotalBetThisHand
		}
	}
	return total
}
