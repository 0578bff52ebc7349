package resumes

import (
	"math"
	"sort"
	"strings"
)

// SortKey selects the ordering of a collection view.
type SortKey string

const (
	SortByDate    SortKey = "date"    // newest first
	SortByScore   SortKey = "score"   // highest overall score first
	SortByCompany SortKey = "company" // company name A-Z
)

// ScoreBand filters records by overall score. Records without feedback
// score 0 and land in the low band.
type ScoreBand string

const (
	BandAll    ScoreBand = "all"
	BandHigh   ScoreBand = "high"   // >= 80
	BandMedium ScoreBand = "medium" // 60..79
	BandLow    ScoreBand = "low"    // < 60
)

// ParseSortKey maps a query value to a SortKey, defaulting to date order.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortByScore:
		return SortByScore
	case SortByCompany:
		return SortByCompany
	default:
		return SortByDate
	}
}

// ParseScoreBand maps a query value to a ScoreBand, defaulting to all.
func ParseScoreBand(s string) ScoreBand {
	switch ScoreBand(strings.ToLower(strings.TrimSpace(s))) {
	case BandHigh:
		return BandHigh
	case BandMedium:
		return BandMedium
	case BandLow:
		return BandLow
	default:
		return BandAll
	}
}

// Query describes one collection view request.
type Query struct {
	Search string
	Band   ScoreBand
	Sort   SortKey
}

// Stats summarizes a collection. AverageScore is always computed over
// the full record set, independent of search and band filters.
type Stats struct {
	Count        int `json:"count"`
	Total        int `json:"total"`
	AverageScore int `json:"averageScore"`
}

// View derives the filtered, sorted collection for q. The input slice is
// never mutated and the result is always a fresh slice.
func View(records []Resume, q Query) []Resume {
	out := FilterByBand(Search(records, q.Search), q.Band)
	sortRecords(out, q.Sort)
	return out
}

// Search keeps records whose company name, job title or job description
// contains the trimmed term, case-insensitively. An empty term keeps
// everything. The result is a fresh slice.
func Search(records []Resume, term string) []Resume {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]Resume, 0, len(records))
	for _, r := range records {
		if term == "" ||
			strings.Contains(strings.ToLower(r.CompanyName), term) ||
			strings.Contains(strings.ToLower(r.JobTitle), term) ||
			strings.Contains(strings.ToLower(r.JobDescription), term) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByBand keeps records whose overall score falls in the band.
// The result is a fresh slice.
func FilterByBand(records []Resume, band ScoreBand) []Resume {
	out := make([]Resume, 0, len(records))
	for _, r := range records {
		if bandOf(r.OverallScore()) == band || band == BandAll || band == "" {
			out = append(out, r)
		}
	}
	return out
}

func bandOf(score float64) ScoreBand {
	switch {
	case score >= 80:
		return BandHigh
	case score >= 60:
		return BandMedium
	default:
		return BandLow
	}
}

// SortRecords returns a new slice ordered by key. Ties keep the input
// order.
func SortRecords(records []Resume, key SortKey) []Resume {
	out := make([]Resume, len(records))
	copy(out, records)
	sortRecords(out, key)
	return out
}

func sortRecords(records []Resume, key SortKey) {
	switch key {
	case SortByScore:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].OverallScore() > records[j].OverallScore()
		})
	case SortByCompany:
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].CompanyName) < strings.ToLower(records[j].CompanyName)
		})
	default:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].EffectiveTime().After(records[j].EffectiveTime())
		})
	}
}

// Aggregate computes collection stats: filtered count, before-filter
// total and the rounded average overall score over the FULL set.
func Aggregate(all, filtered []Resume) Stats {
	st := Stats{Count: len(filtered), Total: len(all)}
	if len(all) == 0 {
		return st
	}
	var sum float64
	for _, r := range all {
		sum += r.OverallScore()
	}
	st.AverageScore = int(math.Round(sum / float64(len(all))))
	return st
}

// Partition splits records into selected and unselected, each ordered by
// overall score, highest first.
func Partition(records []Resume) (selected, pool []Resume) {
	selected = make([]Resume, 0, len(records))
	pool = make([]Resume, 0, len(records))
	for _, r := range records {
		if r.IsSelected {
			selected = append(selected, r)
		} else {
			pool = append(pool, r)
		}
	}
	sortRecords(selected, SortByScore)
	sortRecords(pool, SortByScore)
	return selected, pool
}
