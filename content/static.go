// content/static.go
package content

import (
	"context"
	"math/rand"
	"sync"

	"github.com/cardclash/gameserver/models"
)

// Static is an in-memory Source backed by fixed slices. Used for local
// development and tests; draws are uniform without replacement per call.
type Static struct {
	mutex   sync.Mutex
	rng     *rand.Rand
	memes   []models.CardContent
	phrases []models.CardContent
}

// NewStatic creates a Static source. rng may be seeded for determinism.
func NewStatic(rng *rand.Rand, memes, phrases []models.CardContent) *Static {
	return &Static{rng: rng, memes: memes, phrases: phrases}
}

func (s *Static) RandomJudgeCards(ctx context.Context, n int) ([]models.CardContent, error) {
	return s.draw(s.memes, n)
}

func (s *Static) RandomAnswerCards(ctx context.Context, n int) ([]models.CardContent, error) {
	return s.draw(s.phrases, n)
}

func (s *Static) Close() error { return nil }

func (s *Static) draw(pool []models.CardContent, n int) ([]models.CardContent, error) {
	if len(pool) == 0 {
		return nil, ErrNoContent
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	shuffled := make([]models.CardContent, len(pool))
	copy(shuffled, pool)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n], nil
}
