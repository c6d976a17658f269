package game

import "math/rand"

// Card is a two-rune rank+suit string such as "Ah" or "Td". Hand ranking
// happens outside the engine; the core only deals community cards so that
// snapshots can be compared across runs.
type Card string

var (
	deckRanks = []byte("23456789TJQKA")
	deckSuits = []byte("cdhs")
)

// Deck is a seeded, shuffled 52-card deck.
type Deck struct {
	cards []Card
	next  int
}

// NewDeck builds a full deck shuffled by rng.
func NewDeck(rng *rand.Rand) *Deck {
	cards := make([]Card, 0, 52)
	for _, r := range deckRanks {
		for _, s := range deckSuits {
			cards = append(cards, Card([]byte{r, s}))
		}
	}
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards}
}

// Deal returns the next n cards.
func (d *Deck) Deal(n int) []Card {
	if d.next+n > len(d.cards) {
		n = len(d.cards) - d.next
	}
	dealt := d.cards[d.next : d.next+n]
	d.next += n
	return dealt
}
