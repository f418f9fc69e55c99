// dealer/dealer.go
package dealer

import (
	"errors"
	"math/rand"

	"github.com/cardclash/gameserver/models"
)

// ErrDeckExhausted is returned when a bounded draw cannot find a card that
// is not already in the target hand.
var ErrDeckExhausted = errors.New("deck exhausted: no unique card available")

// maxAttemptsPerCard bounds the random duplicate-avoidance draw so a
// degenerate deck fails fast instead of spinning forever.
const maxAttemptsPerCard = 128

// DeckSizes is the demand computed for one game.
type DeckSizes struct {
	JudgeCards  int
	PlayerCards int
}

// SizeDeck computes how many cards a game consumes: one judge prompt per
// round, plus the initial hands, plus one replenishment card per non-judge
// player per round.
func SizeDeck(rounds, playerCount, cardsPerPlayer int) DeckSizes {
	return DeckSizes{
		JudgeCards:  rounds,
		PlayerCards: playerCount*cardsPerPlayer + (playerCount-1)*rounds,
	}
}

// EnsureDeckSize pads pool up to needed cards by repeatedly appending a
// prefix of the current (possibly already extended) pool. The result is a
// deterministic repeating pattern, not a reshuffle. wasPadded reports
// whether duplicates were introduced. An empty pool has nothing to repeat
// and fails with ErrDeckExhausted.
func EnsureDeckSize(pool []models.CardContent, needed int) (deck []models.CardContent, wasPadded bool, err error) {
	if len(pool) >= needed {
		return pool, false, nil
	}
	if len(pool) == 0 {
		return pool, false, ErrDeckExhausted
	}
	deck = make([]models.CardContent, len(pool), needed)
	copy(deck, pool)
	for len(deck) < needed {
		take := needed - len(deck)
		if take > len(deck) {
			take = len(deck)
		}
		deck = append(deck, deck[:take]...)
	}
	return deck, true, nil
}

// drawUnique picks a uniformly random card from deck that is not already in
// hand, removes it from deck and returns it. The attempt budget turns a
// deck that cannot supply a new unique value into ErrDeckExhausted.
func drawUnique(rng *rand.Rand, deck []models.CardContent, hand []models.CardContent) (models.CardContent, []models.CardContent, error) {
	for attempt := 0; attempt < maxAttemptsPerCard; attempt++ {
		if len(deck) == 0 {
			break
		}
		i := rng.Intn(len(deck))
		card := deck[i]
		if containsCard(hand, card) {
			continue
		}
		deck = append(deck[:i], deck[i+1:]...)
		return card, deck, nil
	}
	return models.CardContent{}, deck, ErrDeckExhausted
}

// DealInitialHands fills every player's hand to handSize with random cards
// drawn from the shared deck, never placing a duplicate in one hand. The
// deck drains as it goes, so later players draw from a smaller pool.
// Returns the remaining deck.
func DealInitialHands(rng *rand.Rand, players []models.Player, deck []models.CardContent, handSize int) ([]models.CardContent, error) {
	for i := range players {
		for len(players[i].Cards) < handSize {
			card, rest, err := drawUnique(rng, deck, players[i].Cards)
			if err != nil {
				return deck, err
			}
			deck = rest
			players[i].Cards = append(players[i].Cards, card)
		}
	}
	return deck, nil
}

// ReplenishOne draws exactly one card for player from the shared deck,
// avoiding duplicates within the hand, and appends it to the hand.
// Returns the drawn card and the remaining deck.
func ReplenishOne(rng *rand.Rand, deck []models.CardContent, player *models.Player) (models.CardContent, []models.CardContent, error) {
	card, rest, err := drawUnique(rng, deck, player.Cards)
	if err != nil {
		return models.CardContent{}, deck, err
	}
	player.Cards = append(player.Cards, card)
	return card, rest, nil
}

func containsCard(hand []models.CardContent, card models.CardContent) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}
