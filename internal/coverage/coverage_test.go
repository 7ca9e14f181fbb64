package coverage

import (
	"reflect"
	"testing"
	"time"
)

func TestComputeScenarios(t *testing.T) {
	tests := []struct {
		name          string
		claim         DateFields
		evidence      []DateFields
		wantPct       int
		wantCovered   int
		wantTotal     int
		wantUncovered []DayRange
	}{
		{
			name:          "single-day claim with no evidence",
			claim:         DateFields{DateRepresented: "2024-03-10"},
			wantPct:       0,
			wantCovered:   0,
			wantTotal:     1,
			wantUncovered: []DayRange{{Start: "2024-03-10", End: "2024-03-10"}},
		},
		{
			name:  "half covered",
			claim: DateFields{DateRangeStart: "2024-03-01", DateRangeEnd: "2024-03-10"},
			evidence: []DateFields{
				{DateRangeStart: "2024-03-01", DateRangeEnd: "2024-03-05"},
			},
			wantPct:       50,
			wantCovered:   5,
			wantTotal:     10,
			wantUncovered: []DayRange{{Start: "2024-03-06", End: "2024-03-10"}},
		},
		{
			name:  "overlapping evidence fully covers",
			claim: DateFields{DateRangeStart: "2024-03-01", DateRangeEnd: "2024-03-10"},
			evidence: []DateFields{
				{DateRangeStart: "2024-03-01", DateRangeEnd: "2024-03-04"},
				{DateRangeStart: "2024-03-03", DateRangeEnd: "2024-03-10"},
			},
			wantPct:       100,
			wantCovered:   10,
			wantTotal:     10,
			wantUncovered: []DayRange{},
		},
		{
			name:  "evidence entirely outside claim",
			claim: DateFields{DateRangeStart: "2024-03-01", DateRangeEnd: "2024-03-10"},
			evidence: []DateFields{
				{DateRangeStart: "2024-04-01", DateRangeEnd: "2024-04-05"},
			},
			wantPct:       0,
			wantCovered:   0,
			wantTotal:     10,
			wantUncovered: []DayRange{{Start: "2024-03-01", End: "2024-03-10"}},
		},
		{
			name:          "inverted claim range yields zero result",
			claim:         DateFields{DateRangeStart: "2024-03-10", DateRangeEnd: "2024-03-01"},
			evidence:      []DateFields{{DateCaptured: "2024-03-05"}},
			wantPct:       0,
			wantCovered:   0,
			wantTotal:     0,
			wantUncovered: []DayRange{},
		},
		{
			name:          "claim without dates yields zero result",
			claim:         DateFields{},
			evidence:      []DateFields{{DateCaptured: "2024-03-05"}},
			wantPct:       0,
			wantCovered:   0,
			wantTotal:     0,
			wantUncovered: []DayRange{},
		},
		{
			name:  "unparseable evidence item is skipped, not fatal",
			claim: DateFields{DateRangeStart: "2024-03-01", DateRangeEnd: "2024-03-04"},
			evidence: []DateFields{
				{DateCaptured: "not-a-date"},
				{DateCaptured: "2024-03-02"},
			},
			wantPct:     25,
			wantCovered: 1,
			wantTotal:   4,
			wantUncovered: []DayRange{
				{Start: "2024-03-01", End: "2024-03-01"},
				{Start: "2024-03-03", End: "2024-03-04"},
			},
		},
		{
			name:  "single evidence day equals single claim day",
			claim: DateFields{DateRepresented: "2024-01-01"},
			evidence: []DateFields{
				{DateCaptured: "2024-01-01"},
			},
			wantPct:       100,
			wantCovered:   1,
			wantTotal:     1,
			wantUncovered: []DayRange{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.claim, tt.evidence)
			if got.Percentage != tt.wantPct {
				t.Errorf("percentage = %d, expected %d", got.Percentage, tt.wantPct)
			}
			if got.CoveredDays != tt.wantCovered {
				t.Errorf("covered days = %d, expected %d", got.CoveredDays, tt.wantCovered)
			}
			if got.TotalDays != tt.wantTotal {
				t.Errorf("total days = %d, expected %d", got.TotalDays, tt.wantTotal)
			}
			if !reflect.DeepEqual(got.UncoveredRanges, tt.wantUncovered) {
				t.Errorf("uncovered = %v, expected %v", got.UncoveredRanges, tt.wantUncovered)
			}
		})
	}
}

func TestComputeRoundsHalfUp(t *testing.T) {
	// 1 of 8 days covered = 12.5%, which rounds up to 13.
	claim := DateFields{DateRangeStart: "2024-03-01", DateRangeEnd: "2024-03-08"}
	evidence := []DateFields{{DateCaptured: "2024-03-01"}}

	got := Compute(claim, evidence)
	if got.Percentage != 13 {
		t.Errorf("percentage = %d, expected 13 (round half up)", got.Percentage)
	}
}

func TestComputeIdempotent(t *testing.T) {
	claim := DateFields{DateRangeStart: "2024-03-01", DateRangeEnd: "2024-03-10"}
	evidence := []DateFields{
		{DateRangeStart: "2024-03-02", DateRangeEnd: "2024-03-04"},
		{DateCaptured: "2024-03-09"},
	}

	first := Compute(claim, evidence)
	second := Compute(claim, evidence)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different results: %+v vs %+v", first, second)
	}
}

func TestComputeMonotonic(t *testing.T) {
	claim := DateFields{DateRangeStart: "2024-03-01", DateRangeEnd: "2024-03-31"}
	evidence := []DateFields{
		{DateRangeStart: "2024-03-01", DateRangeEnd: "2024-03-05"},
	}

	before := Compute(claim, evidence)
	evidence = append(evidence, DateFields{DateRangeStart: "2024-03-10", DateRangeEnd: "2024-03-12"})
	after := Compute(claim, evidence)

	if after.CoveredDays <= before.CoveredDays {
		t.Errorf("adding disjoint in-range evidence did not increase covered days: %d -> %d",
			before.CoveredDays, after.CoveredDays)
	}
}

func TestComputeBounds(t *testing.T) {
	claims := []DateFields{
		{},
		{DateRepresented: "2024-03-10"},
		{DateRangeStart: "2024-03-01", DateRangeEnd: "2024-03-10"},
		{DateRangeStart: "2024-03-10", DateRangeEnd: "2024-03-01"},
	}
	evidenceSets := [][]DateFields{
		nil,
		{{DateCaptured: "2024-03-10"}},
		{{DateRangeStart: "2020-01-01", DateRangeEnd: "2030-01-01"}},
		{{DateCaptured: "garbage"}, {DateRangeStart: "2024-03-05", DateRangeEnd: "2024-03-06"}},
	}

	for _, claim := range claims {
		for _, evidence := range evidenceSets {
			got := Compute(claim, evidence)
			if got.Percentage < 0 || got.Percentage > 100 {
				t.Errorf("percentage %d out of bounds for claim %+v", got.Percentage, claim)
			}
			if got.CoveredDays < 0 || got.CoveredDays > got.TotalDays {
				t.Errorf("covered days %d outside [0, %d] for claim %+v", got.CoveredDays, got.TotalDays, claim)
			}
		}
	}
}

func TestComputeNoDoubleCounting(t *testing.T) {
	claim := DateFields{DateRangeStart: "2024-03-01", DateRangeEnd: "2024-03-10"}

	split := Compute(claim, []DateFields{
		{DateRangeStart: "2024-03-02", DateRangeEnd: "2024-03-06"},
		{DateRangeStart: "2024-03-04", DateRangeEnd: "2024-03-08"},
	})
	single := Compute(claim, []DateFields{
		{DateRangeStart: "2024-03-02", DateRangeEnd: "2024-03-08"},
	})

	if split.CoveredDays != single.CoveredDays {
		t.Errorf("overlapping split evidence counted %d days, union interval %d", split.CoveredDays, single.CoveredDays)
	}
	if split.Percentage != single.Percentage {
		t.Errorf("overlapping split evidence yielded %d%%, union interval %d%%", split.Percentage, single.Percentage)
	}
}

func TestComputeTimezoneIndependence(t *testing.T) {
	orig := time.Local
	time.Local = time.FixedZone("UTC-8", -8*60*60)
	defer func() { time.Local = orig }()

	got := Compute(
		DateFields{DateRepresented: "2024-01-01"},
		[]DateFields{{DateCaptured: "2024-01-01"}},
	)
	if got.Percentage != 100 {
		t.Errorf("percentage = %d under UTC-8, expected 100", got.Percentage)
	}
}

func TestComputeLargeSpanUsesBoundedMemory(t *testing.T) {
	// A multi-decade claim goes through the interval-merge path. The counts
	// must match plain day arithmetic.
	claim := DateFields{DateRangeStart: "1950-01-01", DateRangeEnd: "2049-12-31"}
	evidence := []DateFields{
		{DateRangeStart: "1950-01-01", DateRangeEnd: "1959-12-31"},
		{DateRangeStart: "1955-01-01", DateRangeEnd: "1969-12-31"},
	}

	got := Compute(claim, evidence)

	wantCovered := mustInterval(t, "1950-01-01", "1969-12-31").Days()
	wantTotal := mustInterval(t, "1950-01-01", "2049-12-31").Days()
	if got.CoveredDays != wantCovered {
		t.Errorf("covered days = %d, expected %d", got.CoveredDays, wantCovered)
	}
	if got.TotalDays != wantTotal {
		t.Errorf("total days = %d, expected %d", got.TotalDays, wantTotal)
	}
	if got.Percentage != RoundPercent(wantCovered, wantTotal) {
		t.Errorf("percentage = %d, expected %d", got.Percentage, RoundPercent(wantCovered, wantTotal))
	}
	wantGaps := []DayRange{{Start: "1970-01-01", End: "2049-12-31"}}
	if !reflect.DeepEqual(got.UncoveredRanges, wantGaps) {
		t.Errorf("uncovered = %v, expected %v", got.UncoveredRanges, wantGaps)
	}
}

func TestRoundPercent(t *testing.T) {
	tests := []struct {
		covered int
		total   int
		want    int
	}{
		{0, 10, 0},
		{5, 10, 50},
		{1, 8, 13},  // 12.5 rounds up
		{1, 3, 33},  // 33.33 rounds down
		{2, 3, 67},  // 66.66 rounds up
		{10, 10, 100},
		{0, 0, 0},   // degenerate claim
		{5, 0, 0},
		{15, 10, 100}, // defensive clamp
	}

	for _, tt := range tests {
		if got := RoundPercent(tt.covered, tt.total); got != tt.want {
			t.Errorf("RoundPercent(%d, %d) = %d, expected %d", tt.covered, tt.total, got, tt.want)
		}
	}
}
