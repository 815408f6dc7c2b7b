// Package balance provides portfolio weighting helpers.
package balance

// FixedBalance returns equal weights for the given weights: a slice of the same length where every
// element is the arithmetic mean of the input. An empty input yields an empty slice.
func FixedBalance(weights []float64) []float64 {
	if len(weights) == 0 {
		return []float64{}
	}

	var sum float64
	for _, w := range weights {
		sum += w
	}
	average := sum / float64(len(weights))

	result := make([]float64, len(weights))
	for i := range result {
		result[i] = average
	}
	return result
}
