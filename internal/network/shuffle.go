package network

import (
	"math/rand"

	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/entropy"
)

// shuffler produces the per-tick, per-resource colony order used to
// avoid starvation within a tier bucket. It is deterministic given an
// explicit seed.
type shuffler struct {
	seed   int64
	source *entropy.Client
}

// newShuffler builds a shuffler from a base seed. When source is
// non-nil, every reseed call mixes in one fresh true-random draw, so
// the order is no longer reproducible from the seed; with a nil source
// the shuffle is fully deterministic.
func newShuffler(seed int64, source *entropy.Client) *shuffler {
	return &shuffler{seed: seed, source: source}
}

// reseed derives a generator from the base seed, the given per-bucket
// key (built from the tick and resource by shuffleBuckets), and, if a
// source is set, one true-random draw per call. Without a source,
// repeated calls with the same key yield the same generator.
func (s *shuffler) reseed(tick uint64) *rand.Rand {
	mix := s.seed ^ int64(tick*0x9E3779B97F4A7C15)
	if s.source != nil {
		mix ^= int64(entropy.FloatFromSource(s.source) * (1 << 53))
	}
	return rand.New(rand.NewSource(mix))
}

// shuffleBucket permutes a copy of a single tier's per-resource colony
// list using rng; the permutation is deterministic for a given rng.
func shuffleBucket(rng *rand.Rand, colonies []*colony.Colony) []*colony.Colony {
	if len(colonies) < 2 {
		return colonies
	}
	shuffled := make([]*colony.Colony, len(colonies))
	copy(shuffled, colonies)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
