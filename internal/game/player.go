package game

// Status is a seat's lifecycle state. The table requests status
// transitions, but chip counts themselves are owned by the Ledger.
type Status int

const (
	StatusActive Status = iota
	StatusFolded
	StatusAllIn
	StatusEliminated
	StatusSittingOut
	StatusDisconnected
)

func (s Status) String() string {
	return [...]string{"active", "folded", "all-in", "eliminated", "sitting-out", "disconnected"}[s]
}

// Player is one seat's ledger entry for the current hand.
type Player struct {
	ID               string
	Seat             int
	Chips            int64
	BetThisRound     int64
	TotalBetThisHand int64
	Status           Status
}

// Seated reports whether the player still counts toward the conservation
// sum. Eliminated seats are out of play.
func (p *Player) Seated() bool {
	return p.Status != StatusEliminated
}

// InHand reports whether the player can still win a pot this hand.
func (p *Player) InHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

// CanAct reports whether the player is due to take betting actions.
func (p *Player) CanAct() bool {
	return p.Status == StatusActive && p.Chips > 0
}
