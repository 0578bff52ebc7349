// Package candidates serves the shortlist comparison view: selected
// candidates side by side with the remaining pool, plus the per-role
// strengths analysis.
package candidates

import (
	"math"

	"intellihire-backend/internal/resumes"
)

// Stats summarizes the shortlist. AverageScore and TopScore cover
// selected candidates only.
type Stats struct {
	SelectedCount int `json:"selectedCount"`
	PoolCount     int `json:"poolCount"`
	AverageScore  int `json:"averageScore"`
	TopScore      int `json:"topScore"`
}

// Comparison is the full comparison-view payload.
type Comparison struct {
	Selected []resumes.Resume `json:"selected"`
	Pool     []resumes.Resume `json:"pool"`
	Stats    Stats            `json:"stats"`
}

// Compare partitions records into shortlist and pool, both ordered by
// overall score, and computes the shortlist stats.
func Compare(records []resumes.Resume) Comparison {
	selected, pool := resumes.Partition(records)
	st := Stats{SelectedCount: len(selected), PoolCount: len(pool)}
	if len(selected) > 0 {
		var sum float64
		for _, r := range selected {
			sum += r.OverallScore()
		}
		st.AverageScore = int(math.Round(sum / float64(len(selected))))
		// Partition orders by score, the first entry is the top.
		st.TopScore = int(math.Round(selected[0].OverallScore()))
	}
	return Comparison{Selected: selected, Pool: pool, Stats: st}
}
