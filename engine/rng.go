package engine

import (
	"math/rand"
	"sync"
)

// Random supplies every chance-based outcome the combat core needs.
type Random interface {
	// UniformInt returns an integer in [min, max].
	UniformInt(min, max int) int
	// PercentChance reports success with probability p percent.
	PercentChance(p int) bool
	// WeightedSelect returns an index chosen by weighted random selection.
	WeightedSelect(weights []int) int
}

// WeightedPick returns the item whose index WeightedSelect chooses.
// items and weights must have the same non-zero length.
func WeightedPick[T any](r Random, items []T, weights []int) T {
	return items[r.WeightedSelect(weights)]
}

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position counts draws from the underlying source, so a seed and a position
// are enough to resume the stream. It is safe for concurrent use; players
// fighting in parallel share one.
type RNG struct {
	mu   sync.Mutex
	seed int64
	cnt  *countingSource
	src  *rand.Rand
}

// countingSource counts every value drawn from the wrapped source.
type countingSource struct {
	rand.Source64
	n int64
}

func (c *countingSource) Int63() int64 {
	c.n++
	return c.Source64.Int63()
}

func (c *countingSource) Uint64() uint64 {
	c.n++
	return c.Source64.Uint64()
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	cnt := &countingSource{Source64: rand.NewSource(seed).(rand.Source64)}
	return &RNG{
		seed: seed,
		cnt:  cnt,
		src:  rand.New(cnt),
	}
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(sides) + 1
}

// UniformInt returns an integer in [min, max]. Arguments are swapped if reversed.
func (r *RNG) UniformInt(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + r.Roll(max-min+1) - 1
}

// PercentChance rolls a d100 and succeeds on p or less.
// p <= 0 never succeeds, p >= 100 always does, and neither consumes a roll.
func (r *RNG) PercentChance(p int) bool {
	switch {
	case p <= 0:
		return false
	case p >= 100:
		return true
	}
	return r.Roll(100) <= p
}

// WeightedSelect returns an index chosen by weighted random selection.
// weights must be non-empty with all positive values.
func (r *RNG) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	r.mu.Lock()
	roll := r.src.Intn(total)
	r.mu.Unlock()
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of source draws made since the seed.
func (r *RNG) Position() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cnt.n
}

// RestoreRNG creates an RNG from seed and skips the first position draws.
// The result continues exactly where an RNG reporting that Position left off.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.cnt.Int63()
	}
	return rng
}
