package resumes

import (
	"testing"
	"time"
)

func rec(id, company, title, desc string, score float64, updated time.Time) Resume {
	r := Resume{
		ID:             id,
		CompanyName:    company,
		JobTitle:       title,
		JobDescription: desc,
		CreatedAt:      updated,
		UpdatedAt:      updated,
	}
	if score > 0 {
		r.Feedback = &Feedback{OverallScore: score}
	}
	return r
}

func ids(records []Resume) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func assertOrder(t *testing.T, got []Resume, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got %v, want %v", gotIDs, want)
		}
	}
}

func TestSearchMatchesAnyField(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []Resume{
		rec("a", "Acme", "Engineer", "builds APIs", 90, base),
		rec("b", "Globex", "Designer", "Figma work", 70, base),
		rec("c", "Initech", "acme liaison", "", 50, base),
	}

	assertOrder(t, Search(records, "  ACME  "), "a", "c")
	assertOrder(t, Search(records, "figma"), "b")
	assertOrder(t, Search(records, ""), "a", "b", "c")
	if got := Search(records, "nothing matches this"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", ids(got))
	}
}

func TestFilterByBand(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []Resume{
		rec("high", "", "", "", 80, base),
		rec("mid-top", "", "", "", 79, base),
		rec("mid-bottom", "", "", "", 60, base),
		rec("low", "", "", "", 59, base),
		rec("none", "", "", "", 0, base), // no feedback counts as 0
	}

	assertOrder(t, FilterByBand(records, BandHigh), "high")
	assertOrder(t, FilterByBand(records, BandMedium), "mid-top", "mid-bottom")
	assertOrder(t, FilterByBand(records, BandLow), "low", "none")
	assertOrder(t, FilterByBand(records, BandAll), "high", "mid-top", "mid-bottom", "low", "none")
}

func TestSortRecords(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []Resume{
		rec("b", "apple", "", "", 70, t0.Add(time.Hour)),
		rec("a", "Zeta", "", "", 90, t0),
		rec("c", "Acme", "", "", 70, t0.Add(2*time.Hour)),
	}

	assertOrder(t, SortRecords(records, SortByDate), "c", "b", "a")
	// Score order is descending; the two 70s keep their input order.
	assertOrder(t, SortRecords(records, SortByScore), "a", "b", "c")
	// Company order is case-insensitive A-Z.
	assertOrder(t, SortRecords(records, SortByCompany), "c", "b", "a")

	// The input slice is untouched.
	assertOrder(t, records, "b", "a", "c")
}

func TestSortByDateFallsBackToCreatedAt(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	older := Resume{ID: "older", CreatedAt: t0}
	newer := Resume{ID: "newer", CreatedAt: t0.Add(time.Hour)}
	assertOrder(t, SortRecords([]Resume{older, newer}, SortByDate), "newer", "older")
}

func TestAggregate(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	all := []Resume{
		rec("a", "", "", "", 90, base),
		rec("b", "", "", "", 51, base),
		rec("c", "", "", "", 0, base),
	}

	// Average rounds over the full set, feedback-less records count as 0.
	st := Aggregate(all, all[:1])
	if st.Count != 1 || st.Total != 3 {
		t.Fatalf("count=%d total=%d, want 1 and 3", st.Count, st.Total)
	}
	if st.AverageScore != 47 {
		t.Fatalf("averageScore=%d, want 47", st.AverageScore)
	}

	// Filters never move the average.
	if got := Aggregate(all, nil).AverageScore; got != 47 {
		t.Fatalf("averageScore=%d, want 47", got)
	}

	empty := Aggregate(nil, nil)
	if empty.AverageScore != 0 || empty.Count != 0 || empty.Total != 0 {
		t.Fatalf("empty stats = %+v", empty)
	}
}

func TestViewFiltersThenSorts(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []Resume{
		rec("a", "Acme", "Backend Engineer", "", 85, t0),
		rec("b", "Acme", "Frontend Engineer", "", 65, t0.Add(time.Hour)),
		rec("c", "Globex", "Backend Engineer", "", 90, t0.Add(2*time.Hour)),
	}

	got := View(records, Query{Search: "engineer", Band: BandHigh, Sort: SortByScore})
	assertOrder(t, got, "c", "a")

	// An empty query yields everything in date order.
	assertOrder(t, View(records, Query{Sort: SortByDate, Band: BandAll}), "c", "b", "a")
}

func TestPartition(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := rec("a", "", "", "", 70, base)
	a.IsSelected = true
	b := rec("b", "", "", "", 90, base)
	b.IsSelected = true
	c := rec("c", "", "", "", 80, base)

	selected, pool := Partition([]Resume{a, b, c})
	assertOrder(t, selected, "b", "a")
	assertOrder(t, pool, "c")
}

func TestParseQueryDefaults(t *testing.T) {
	if got := ParseSortKey("bogus"); got != SortByDate {
		t.Fatalf("got %q, want date", got)
	}
	if got := ParseScoreBand("bogus"); got != BandAll {
		t.Fatalf("got %q, want all", got)
	}
	if got := ParseSortKey(" Company "); got != SortByCompany {
		t.Fatalf("got %q, want company", got)
	}
	if got := ParseScoreBand("HIGH"); got != BandHigh {
		t.Fatalf("got %q, want high", got)
	}
}
