package game

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
)

// Pot is a main or side pot capped at a contribution level. Immutable once
// awarded.
type Pot struct {
	Amount   int64
	Cap      int64    // minimum TotalBetThisHand among eligible contributors
	Eligible []string // non-folded contributors at or above Cap, seat order
	awarded  bool
}

// Awarded reports whether the pot has already been paid out.
func (p *Pot) Awarded() bool {
	return p.awarded
}

// PotEngine builds pots from the bets recorded in the ledger and awards
// them back through it.
type PotEngine struct {
	ledger *Ledger
	logger *log.Logger
}

// NewPotEngine creates a pot engine bound to a ledger.
func NewPotEngine(ledger *Ledger, logger *log.Logger) *PotEngine {
	return &PotEngine{
		ledger: ledger,
		logger: logger.WithPrefix("pot"),
	}
}

// Build partitions every chip contributed this hand into pots.
//
// Bet levels are the distinct TotalBetThisHand values among contributors
// who can still win; folded chips stay in whichever pots their totals
// reach. A level whose eligible players all folded collapses into the pot
// below it so no chips are ever stranded. The constructed pots must sum to
// the contributions exactly or Build fails with *PotReconciliationError
// before any award happens.
func (e *PotEngine) Build(handNumber uint64) ([]*Pot, error) {
	players := e.ledger.Players()

	var betTotal, maxContribution int64
	levelSet := make(map[int64]struct{})
	inHand := 0
	for _, p := range players {
		betTotal += p.TotalBetThisHand
		if p.TotalBetThisHand > maxContribution {
			maxContribution = p.TotalBetThisHand
		}
		if p.InHand() {
			inHand++
			if p.TotalBetThisHand > 0 {
				levelSet[p.TotalBetThisHand] = struct{}{}
			}
		}
	}
	if betTotal == 0 {
		return nil, nil
	}
	if inHand == 0 {
		return nil, fmt.Errorf("cannot build pots on hand %d: no players left in hand", handNumber)
	}

	levels := make([]int64, 0, len(levelSet)+1)
	for lvl := range levelSet {
		levels = append(levels, lvl)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	if len(levels) == 0 || maxContribution > levels[len(levels)-1] {
		// Folded contributions above the top live level still need a
		// level or the reconciliation below cannot hold.
		levels = append(levels, maxContribution)
	}

	var pots []*Pot
	var prev int64
	for _, lvl := range levels {
		pot := &Pot{Cap: lvl}
		for _, p := range players {
			if p.TotalBetThisHand > prev {
				pot.Amount += min64(p.TotalBetThisHand, lvl) - prev
			}
			if p.InHand() && p.TotalBetThisHand >= lvl {
				pot.Eligible = append(pot.Eligible, p.ID)
			}
		}
		prev = lvl
		if pot.Amount == 0 {
			continue
		}
		if len(pot.Eligible) == 0 && len(pots) > 0 {
			// Everyone at this level folded: the chips flow down to the
			// pot below rather than being dropped.
			pots[len(pots)-1].Amount += pot.Amount
			continue
		}
		pots = append(pots, pot)
	}

	var potTotal int64
	for _, pot := range pots {
		potTotal += pot.Amount
	}
	if potTotal != betTotal {
		return nil, &PotReconciliationError{
			HandNumber: handNumber,
			PotTotal:   potTotal,
			BetTotal:   betTotal,
			Pots:       pots,
		}
	}

	e.logger.Debug("pots built", "hand", handNumber, "pots", len(pots), "total", potTotal)
	return pots, nil
}

// Award splits a pot among winners, crediting the ledger. Ties split as
// evenly as divisibility allows; the remainder goes to the winner closest
// to the dealer's left. Re-awarding an already-awarded pot is a no-op, not
// a double credit.
func (e *PotEngine) Award(pot *Pot, winnerIDs []string, dealerSeat int) (map[string]int64, error) {
	if pot.Awarded() {
		e.logger.Warn("ignoring award of already-awarded pot", "amount", pot.Amount)
		return nil, nil
	}
	if len(winnerIDs) == 0 {
		return nil, fmt.Errorf("no winners for pot of %d", pot.Amount)
	}

	eligible := make(map[string]bool, len(pot.Eligible))
	for _, id := range pot.Eligible {
		eligible[id] = true
	}
	winners := make([]*Player, 0, len(winnerIDs))
	for _, id := range winnerIDs {
		if !eligible[id] {
			return nil, fmt.Errorf("player %s is not eligible for pot capped at %d", id, pot.Cap)
		}
		p, ok := e.ledger.Player(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
		}
		winners = append(winners, p)
	}

	// Order by clockwise distance from the dealer's left so the odd chip
	// lands deterministically.
	seatCount := e.ledger.SeatCount()
	dist := func(seat int) int {
		return ((seat-dealerSeat-1)%seatCount + seatCount) % seatCount
	}
	sort.Slice(winners, func(i, j int) bool {
		return dist(winners[i].Seat) < dist(winners[j].Seat)
	})

	share := pot.Amount / int64(len(winners))
	remainder := pot.Amount % int64(len(winners))
	payouts := make(map[string]int64, len(winners))
	for i, w := range winners {
		amount := share
		if i == 0 {
			amount += remainder
		}
		if err := e.ledger.Credit(w.ID, amount); err != nil {
			return nil, err
		}
		payouts[w.ID] = amount
	}
	pot.awarded = true
	e.logger.Debug("pot awarded", "amount", pot.Amount, "cap", pot.Cap, "winners", len(winners))
	return payouts, nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
