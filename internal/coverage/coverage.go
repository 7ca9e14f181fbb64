// Package coverage computes how much of a claim's asserted day-span is backed
// by linked evidence. It is pure computation over in-memory records: no I/O,
// no shared state, safe to call concurrently, and it never fails — degenerate
// inputs produce a zero Result rather than an error, so a single bad record
// can never break the coverage display for a whole claim.
package coverage

import "math"

// DayRange is an inclusive run of calendar days, as ISO dates.
type DayRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Result is the derived coverage view for one claim. It is recomputed on
// demand and never owned by any entity. TotalDays is 0 when the claim itself
// carried no usable date, which callers render as "no coverage data".
type Result struct {
	Percentage      int        `json:"percentage"`
	CoveredDays     int        `json:"covered_days"`
	TotalDays       int        `json:"total_days"`
	UncoveredRanges []DayRange `json:"uncovered_ranges"`
}

// Compute derives the evidence coverage of a claim. Evidence items without a
// usable date are skipped; an unusable or inverted claim range yields a zero
// Result. Days covered by several evidence items count once.
func Compute(claim DateFields, evidence []DateFields) Result {
	claimIv, ok := Normalize(claim)
	if !ok {
		return Result{UncoveredRanges: []DayRange{}}
	}

	var evs []Interval
	for _, f := range evidence {
		if iv, ok := Normalize(f); ok {
			evs = append(evs, iv)
		}
	}

	total := claimIv.Days()
	merged := mergeIntervals(claimIv, evs)

	var covered int
	if total > daySetLimit {
		for _, iv := range merged {
			covered += iv.Days()
		}
	} else {
		covered = len(CoveredDayKeys(claimIv, evs))
	}

	return Result{
		Percentage:      RoundPercent(covered, total),
		CoveredDays:     covered,
		TotalDays:       total,
		UncoveredRanges: uncoveredBetween(claimIv, merged),
	}
}

// RoundPercent converts covered/total into a whole percentage, rounding half
// up and clamping to [0, 100]. This is the single rounding policy for every
// surface that shows a support percentage; the clamp catches any bug that
// would otherwise surface a ratio above 1.0 as a percentage above 100.
func RoundPercent(covered, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Floor(float64(covered)/float64(total)*100 + 0.5))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
