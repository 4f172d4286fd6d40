package period

import "sort"

// DefaultDisplayCap bounds how many axis points a chart renders.
const DefaultDisplayCap = 15

// Downsample reduces an ordered period list to at most cap entries.
// The first and last period are always kept; interior picks are spaced
// evenly by index. The result stays chronological, and growing cap never
// discards information relative to a smaller cap.
func Downsample(periods []string, cap int) []string {
	if cap < 2 {
		cap = 2
	}
	if len(periods) <= cap {
		return periods
	}

	last := len(periods) - 1
	picked := map[int]struct{}{0: {}, last: {}}

	for i := 1; i <= cap-2; i++ {
		idx := i * last / (cap - 1)
		// Keep interior picks strictly inside the endpoints.
		if idx < 1 {
			idx = 1
		}
		if idx > last-1 {
			idx = last - 1
		}
		picked[idx] = struct{}{}
	}

	indices := make([]int, 0, len(picked))
	for idx := range picked {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	result := make([]string, 0, len(indices))
	for _, idx := range indices {
		result = append(result, periods[idx])
	}
	return result
}
