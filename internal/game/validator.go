package game

import (
	"github.com/charmbracelet/log"
)

// Validator proves, at every checked transition, that the chips in play
// match the conserved baseline. It reports; it never repairs. The caller
// decides whether to freeze the table (real games) or log and continue
// (simulation).
type Validator struct {
	logger   *log.Logger
	baseline int64
}

// NewValidator creates a validator with a zero baseline. Admissions grow
// the baseline through AdjustBaseline.
func NewValidator(logger *log.Logger) *Validator {
	return &Validator{logger: logger.WithPrefix("conservation")}
}

// Baseline returns the current conserved total.
func (v *Validator) Baseline() int64 {
	return v.baseline
}

// AdjustBaseline is the single entry point for changing the conserved
// total: +buyIn on admission, minus the withdrawn stack when a player's
// exit is finalized. Exactly one call per player lifecycle event; double
// and missed adjustments are the two historical bug classes here.
func (v *Validator) AdjustBaseline(delta int64, reason string) {
	v.baseline += delta
	v.logger.Debug("baseline adjusted", "delta", delta, "baseline", v.baseline, "reason", reason)
}

// Check recomputes the live chip total and compares it to the baseline.
// pendingBets covers chips committed this hand that have not yet been
// swept into pots; unawarded pot amounts cover the rest. On mismatch it
// returns a *ConservationViolation carrying the full per-seat bet ledger
// and pot breakdown.
func (v *Validator) Check(ledger *Ledger, pots []*Pot, pendingBets int64, handNumber uint64, context string) error {
	live := ledger.SeatedChipTotal() + pendingBets
	for _, pot := range pots {
		if !pot.Awarded() {
			live += pot.Amount
		}
	}
	if live == v.baseline {
		return nil
	}

	viol := &ConservationViolation{
		Expected:   v.baseline,
		Actual:     live,
		Delta:      live - v.baseline,
		HandNumber: handNumber,
		Context:    context,
	}
	for _, p := range ledger.Players() {
		viol.Seats = append(viol.Seats, SeatDiagnostic{
			Seat:             p.Seat,
			PlayerID:         p.ID,
			Status:           p.Status.String(),
			Chips:            p.Chips,
			BetThisRound:     p.BetThisRound,
			TotalBetThisHand: p.TotalBetThisHand,
		})
	}
	for _, pot := range pots {
		viol.Pots = append(viol.Pots, PotDiagnostic{
			Amount:   pot.Amount,
			Cap:      pot.Cap,
			Eligible: pot.Eligible,
			Awarded:  pot.Awarded(),
		})
	}
	v.logger.Error("conservation violation",
		"context", context,
		"hand", handNumber,
		"expected", v.baseline,
		"actual", live,
		"delta", live-v.baseline)
	return viol
}
