package chart

// NormalizeHeights scales a value series to bar heights in the 0..100
// range against the series maximum. Non-positive values map to 0, and an
// all-zero series stays all zeros rather than dividing by zero.
func NormalizeHeights(values []int64) []float64 {
	if len(values) == 0 {
		return nil
	}

	var max int64
	for _, v := range values {
		if v > max {
			max = v
		}
	}

	heights := make([]float64, len(values))
	if max == 0 {
		return heights
	}
	for i, v := range values {
		if v > 0 {
			heights[i] = float64(v) / float64(max) * 100
		}
	}
	return heights
}
