package service

import (
	"errors"
	"math/rand"

	"github.com/aliskhannn/quran-quiz-bot/internal/domain/entities"
)

// ErrInsufficientPool signals that a pool cannot supply the requested
// number of distinct items. Callers treat it as "try another question
// shape", never as a fatal error.
var ErrInsufficientPool = errors.New("not enough eligible ayahs in pool")

// Sampler draws random unique subsets from ayah pools. The random
// source is injected so tests can seed it.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler over the given random source.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Pick selects count distinct ayahs uniformly at random from pool,
// skipping any ayah whose number is in excluded. It returns
// ErrInsufficientPool when fewer than count eligible ayahs exist; it
// never returns a short list.
func (s *Sampler) Pick(pool []*entities.Ayah, excluded map[int]struct{}, count int) ([]*entities.Ayah, error) {
	if count < 0 {
		return nil, ErrInsufficientPool
	}

	candidates := make([]*entities.Ayah, 0, len(pool))
	for _, a := range pool {
		if _, skip := excluded[a.Number]; skip {
			continue
		}
		candidates = append(candidates, a)
	}

	if len(candidates) < count {
		return nil, ErrInsufficientPool
	}

	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	return candidates[:count], nil
}

// PickOne selects a single random ayah from pool.
func (s *Sampler) PickOne(pool []*entities.Ayah) (*entities.Ayah, error) {
	if len(pool) == 0 {
		return nil, ErrInsufficientPool
	}
	return pool[s.rng.Intn(len(pool))], nil
}
