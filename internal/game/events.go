package game

import (
	"sync"
	"time"
)

// EventType identifies an engine event on the bus.
type EventType string

const (
	EventHandStart             EventType = "hand_start"
	EventPhaseChanged          EventType = "phase_changed"
	EventPlayerAction          EventType = "player_action"
	EventActionRequired        EventType = "action_required"
	EventPotAwarded            EventType = "pot_awarded"
	EventPlayerEliminated      EventType = "player_eliminated"
	EventHandSettled           EventType = "hand_settled"
	EventGameOver              EventType = "game_over"
	EventConservationViolation EventType = "conservation_violation"
)

// Event is anything the engine publishes to subscribers: bots, recorders,
// and whatever transport sits in front of the table.
type Event interface {
	EventType() EventType
	When() time.Time
}

type baseEvent struct {
	Type EventType `json:"type"`
	At   time.Time `json:"at"`
}

func (e baseEvent) EventType() EventType { return e.Type }
func (e baseEvent) When() time.Time      { return e.At }

// HandStartEvent announces a new hand after blinds are posted.
type HandStartEvent struct {
	baseEvent
	TableID    string `json:"tableId"`
	HandNumber uint64 `json:"handNumber"`
	DealerSeat int    `json:"dealerSeat"`
	SmallBlind int64  `json:"smallBlind"`
	BigBlind   int64  `json:"bigBlind"`
	Players    int    `json:"players"`
}

// PhaseChangedEvent announces a street transition with the community cards
// dealt so far.
type PhaseChangedEvent struct {
	baseEvent
	TableID    string `json:"tableId"`
	HandNumber uint64 `json:"handNumber"`
	Phase      string `json:"phase"`
	Community  []Card `json:"community"`
}

// PlayerActionEvent records an accepted action. Auto marks actions the
// table took on a player's behalf after a timeout.
type PlayerActionEvent struct {
	baseEvent
	TableID    string `json:"tableId"`
	HandNumber uint64 `json:"handNumber"`
	PlayerID   string `json:"playerId"`
	Action     string `json:"action"`
	Amount     int64  `json:"amount"`
	Auto       bool   `json:"auto,omitempty"`
}

// ActionRequiredEvent tells a player it is their turn, with the legal moves
// and the amount they face.
type ActionRequiredEvent struct {
	baseEvent
	TableID    string        `json:"tableId"`
	HandNumber uint64        `json:"handNumber"`
	PlayerID   string        `json:"playerId"`
	Seat       int           `json:"seat"`
	ToCall     int64         `json:"toCall"`
	Valid      []ValidAction `json:"valid"`
}

// PotAwardedEvent records one pot's payout.
type PotAwardedEvent struct {
	baseEvent
	TableID    string           `json:"tableId"`
	HandNumber uint64           `json:"handNumber"`
	PotIndex   int              `json:"potIndex"`
	Amount     int64            `json:"amount"`
	Payouts    map[string]int64 `json:"payouts"`
}

// PlayerEliminatedEvent announces a bust-out finalized at hand end.
type PlayerEliminatedEvent struct {
	baseEvent
	TableID    string `json:"tableId"`
	HandNumber uint64 `json:"handNumber"`
	PlayerID   string `json:"playerId"`
	Seat       int    `json:"seat"`
}

// HandSettledEvent carries the post-settlement table state, the unit that
// snapshots persist.
type HandSettledEvent struct {
	baseEvent
	TableID    string     `json:"tableId"`
	HandNumber uint64     `json:"handNumber"`
	State      TableState `json:"state"`
}

// GameOverEvent announces that one player holds every chip.
type GameOverEvent struct {
	baseEvent
	TableID     string `json:"tableId"`
	WinnerID    string `json:"winnerId"`
	HandsPlayed uint64 `json:"handsPlayed"`
}

// ConservationViolationEvent surfaces a failed conservation check so
// observers can record it even when the table keeps running.
type ConservationViolationEvent struct {
	baseEvent
	TableID   string                 `json:"tableId"`
	Violation *ConservationViolation `json:"violation"`
}

// EventBus delivers events to subscribers synchronously, in subscription
// order, on the publishing goroutine. Subscribers must not block.
type EventBus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a handler for every subsequent event.
func (b *EventBus) Subscribe(handler func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, handler)
}

// Publish delivers the event to every subscriber.
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, handler := range subs {
		handler(e)
	}
}
