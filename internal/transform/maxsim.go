package transform

import "math"

// MaxSim scores two token-vector sequences: for every query token, the maximum
// dot product against any document token, summed over query tokens. Either
// side empty scores 0. The full |query|x|doc| product is computed; both sides
// must come from the same model, so dimensions are not checked.
func MaxSim(query, doc [][]float32) float64 {
	if len(query) == 0 || len(doc) == 0 {
		return 0
	}
	var total float64
	for _, q := range query {
		best := math.Inf(-1)
		for _, d := range doc {
			var dot float64
			for i := range q {
				dot += float64(q[i]) * float64(d[i])
			}
			if dot > best {
				best = dot
			}
		}
		total += best
	}
	return total
}
