package game

import (
	"math/rand"
	"time"
)

// WinnerSelector picks the winners of a pot from its eligible players.
// Hand ranking lives behind this interface so the accounting engine never
// needs to evaluate cards; simulations plug in a seeded random selector,
// real games plug in an evaluator.
type WinnerSelector interface {
	SelectWinners(eligible []*Player, community []Card) []string
}

// RandomWinnerSelector picks one eligible player uniformly. Deterministic
// under a seeded rng, which is what simulation snapshots need.
type RandomWinnerSelector struct {
	rng *rand.Rand
}

// NewRandomWinnerSelector creates a selector driven by rng.
func NewRandomWinnerSelector(rng *rand.Rand) *RandomWinnerSelector {
	return &RandomWinnerSelector{rng: rng}
}

// SelectWinners implements WinnerSelector.
func (s *RandomWinnerSelector) SelectWinners(eligible []*Player, _ []Card) []string {
	if len(eligible) == 0 {
		return nil
	}
	return []string{eligible[s.rng.Intn(len(eligible))].ID}
}

// ExitRecord is the final accounting entry for a player leaving a table,
// whether by elimination or by choice.
type ExitRecord struct {
	TableID    string    `json:"tableId"`
	PlayerID   string    `json:"playerId"`
	Seat       int       `json:"seat"`
	BuyIn      int64     `json:"buyIn"`
	Chips      int64     `json:"chips"`
	HandNumber uint64    `json:"handNumber"`
	Eliminated bool      `json:"eliminated"`
	At         time.Time `json:"at"`
}

// SettlementRecorder persists settlement results outside the engine.
// Implementations must be fast; they run on the table goroutine.
type SettlementRecorder interface {
	RecordHand(state TableState) error
	RecordExit(rec ExitRecord) error
}

// NopRecorder discards everything. The default when no persistence is
// configured.
type NopRecorder struct{}

func (NopRecorder) RecordHand(TableState) error { return nil }
func (NopRecorder) RecordExit(ExitRecord) error { return nil }
