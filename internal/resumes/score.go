package resumes

import "math"

// NormalizeATSScore sanity-checks a model-reported ATS score against the
// other category scores. The raw score is rounded and clamped to 0..100
// (non-finite input counts as 0). When no finite supporting scores exist
// the result is at least 60. Otherwise the result is at least the
// supporting average minus 5, clamped to 60..100, so a strong resume
// cannot come back with a single outlier ATS number.
func NormalizeATSScore(score float64, supporting []float64) int {
	clamped := clampScore(score, 0, 100)

	var sum float64
	var n int
	for _, v := range supporting {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		if clamped < 60 {
			return 60
		}
		return clamped
	}

	floor := clampScore(sum/float64(n)-5, 60, 100)
	if clamped > floor {
		return clamped
	}
	return floor
}

func clampScore(v float64, lo, hi int) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	r := int(math.Round(v))
	if r < lo {
		return lo
	}
	if r > hi {
		return hi
	}
	return r
}
