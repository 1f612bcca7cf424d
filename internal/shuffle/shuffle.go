package shuffle

import "math"

// LCG constants inherited from the original quiz generator. Quizzes created
// years ago were ordered by this exact generator; changing any of this (the
// constants, the float index derivation, the removal-based swap) would
// silently reorder questions for existing learners.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// Seeded returns a new slice with the elements of seq permuted by the legacy
// seeded shuffle. The input is never mutated. Identical (seq, seed) pairs
// always produce identical output, and every call reinitializes the generator
// from seed, so callers may shuffle many sequences against one seed and get
// independent, reproducible permutations.
func Seeded[T any](seq []T, seed int64) []T {
	out := make([]T, len(seq))
	copy(out, seq)
	n := len(out)
	if n < 2 {
		return out
	}

	idx := make([]int, n)
	s := seed
	for x := 0; x < n; x++ {
		s = (s*lcgMultiplier + lcgIncrement) % lcgModulus
		idx[x] = int(math.Floor(float64(s) / lcgModulus * float64(n)))
	}

	// Not a textbook Fisher-Yates: the legacy pass removes the element at the
	// mapped position and reinserts it at i, shifting everything in between.
	// A plain two-element swap yields a different permutation.
	for i := n - 1; i > 0; i-- {
		r := idx[n-1-i]
		if r < 0 {
			// Negative seeds drive the LCG remainder negative; the legacy
			// splice counted such indexes from the end, clamped at 0.
			r += n
			if r < 0 {
				r = 0
			}
		}
		item := out[r]
		copy(out[r:], out[r+1:])
		copy(out[i+1:], out[i:n-1])
		out[i] = item
	}
	return out
}
