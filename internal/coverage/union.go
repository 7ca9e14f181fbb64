package coverage

import (
	"sort"
	"time"
)

// daySetLimit caps the claim span for which covered days are materialized as
// a set. Longer spans go through interval merging instead, which keeps memory
// bounded for multi-decade claims.
const daySetLimit = 10000

// DayKey returns the canonical key for one calendar day.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

// clip intersects ev with claim. ok is false when they do not overlap.
func clip(claim, ev Interval) (Interval, bool) {
	start := claim.Start
	if ev.Start.After(start) {
		start = ev.Start
	}
	end := claim.End
	if ev.End.Before(end) {
		end = ev.End
	}
	if end.Before(start) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// CoveredDayKeys returns the set of claim days covered by at least one
// evidence interval. A day covered by several evidence items counts once.
func CoveredDayKeys(claim Interval, evs []Interval) map[string]struct{} {
	covered := make(map[string]struct{})
	for _, ev := range evs {
		ov, ok := clip(claim, ev)
		if !ok {
			continue
		}
		for d := ov.Start; !d.After(ov.End); d = d.AddDate(0, 0, 1) {
			covered[DayKey(d)] = struct{}{}
		}
	}
	return covered
}

// mergeIntervals clips each evidence interval to the claim and merges the
// overlapping or day-adjacent results into disjoint intervals sorted by
// start. Adjacent runs are merged because at day granularity there is no gap
// between a range ending Tuesday and one starting Wednesday.
func mergeIntervals(claim Interval, evs []Interval) []Interval {
	var clipped []Interval
	for _, ev := range evs {
		if ov, ok := clip(claim, ev); ok {
			clipped = append(clipped, ov)
		}
	}
	if len(clipped) == 0 {
		return nil
	}

	sort.Slice(clipped, func(i, j int) bool {
		return clipped[i].Start.Before(clipped[j].Start)
	})

	merged := []Interval{clipped[0]}
	for _, iv := range clipped[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End.AddDate(0, 0, 1)) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// uncoveredBetween returns the maximal uncovered runs of the claim interval,
// in chronological order, given the merged covered intervals.
func uncoveredBetween(claim Interval, merged []Interval) []DayRange {
	gaps := []DayRange{}
	cursor := claim.Start
	for _, iv := range merged {
		if iv.Start.After(cursor) {
			gaps = append(gaps, DayRange{
				Start: DayKey(cursor),
				End:   DayKey(iv.Start.AddDate(0, 0, -1)),
			})
		}
		next := iv.End.AddDate(0, 0, 1)
		if next.After(cursor) {
			cursor = next
		}
	}
	if !cursor.After(claim.End) {
		gaps = append(gaps, DayRange{Start: DayKey(cursor), End: DayKey(claim.End)})
	}
	return gaps
}
