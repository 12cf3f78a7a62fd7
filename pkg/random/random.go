// Package random draws reproducible samples of day offsets.
package random

import (
	"math"
	"math/rand"
	"sort"
	"time"
)

// New returns a generator seeded with seed, or with the current time when
// seed is 0.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Day returns a uniformly distributed day offset in [from, to].
// Example: Day(rng, -1, 1) returns -1, 0 or 1
func Day(rng *rand.Rand, from, to int64) int64 {
	if to <= from {
		return from
	}
	span := uint64(to - from)
	if span < math.MaxInt64 {
		return from + rng.Int63n(int64(span)+1)
	}
	for {
		if v := rng.Uint64(); v <= span {
			return from + int64(v)
		}
	}
}

// Days returns n day offsets drawn from [from, to], sorted ascending.
// Duplicates are possible.
func Days(rng *rand.Rand, from, to int64, n int) []int64 {
	if n <= 0 {
		return []int64{}
	}
	days := make([]int64, n)
	for i := range days {
		days[i] = Day(rng, from, to)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// Split divides items into at most parts contiguous chunks of nearly equal
// size. Empty chunks are omitted.
func Split(items []int64, parts int) [][]int64 {
	if parts <= 0 {
		parts = 1
	}
	var chunks [][]int64
	size := (len(items) + parts - 1) / parts
	for size > 0 && len(items) > 0 {
		if size > len(items) {
			size = len(items)
		}
		chunks = append(chunks, items[:size])
		items = items[size:]
	}
	return chunks
}
