package dice

// Uniform returns a uniform float in [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Choice picks one element uniformly. ok is false for an empty slice.
func Choice[T any](src Source, seq []T) (v T, ok bool) {
	if len(seq) == 0 {
		return v, false
	}
	return seq[src.IntRange(0, len(seq)-1)], true
}

// WeightedChoice picks one element with probability proportional to its
// weight. Non-positive weights are never chosen. ok is false when the
// slices are empty, mismatched, or carry no positive weight.
func WeightedChoice[T any](src Source, seq []T, weights []float64) (v T, ok bool) {
	if len(seq) == 0 || len(seq) != len(weights) {
		return v, false
	}
	total := 0.0
	last := -1
	for i, w := range weights {
		if w > 0 {
			total += w
			last = i
		}
	}
	if last < 0 {
		return v, false
	}
	r := src.Float64() * total
	acc := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if r < acc {
			return seq[i], true
		}
	}
	// Float rounding can leave r == total; the last positive entry owns it.
	return seq[last], true
}
