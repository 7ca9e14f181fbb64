package coverage

import "time"

const dayLayout = "2006-01-02"

// Interval is an inclusive calendar-day span. Start and End are pinned to
// UTC midnight so that two intervals built from the same date strings always
// compare equal, regardless of the host timezone.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Days returns the inclusive day count of the interval.
func (iv Interval) Days() int {
	return int(iv.End.Sub(iv.Start).Hours()/24) + 1
}

// DateFields carries the date columns of a claim or evidence record.
// Claims use date_represented, evidence uses date_captured; either may carry
// an explicit range instead. All values are ISO calendar dates (YYYY-MM-DD).
type DateFields struct {
	DateRepresented string `json:"date_represented,omitempty"`
	DateCaptured    string `json:"date_captured,omitempty"`
	DateRangeStart  string `json:"date_range_start,omitempty"`
	DateRangeEnd    string `json:"date_range_end,omitempty"`
}

// Normalize resolves a record's date fields to an inclusive day interval.
// An explicit range wins over a single date; a range with only one endpoint
// is treated as a one-day interval at that endpoint. An inverted range is
// rejected rather than swapped, since swapping would misrepresent intent.
// The second return is false when no usable date is present.
func Normalize(f DateFields) (Interval, bool) {
	start, okStart := parseDay(f.DateRangeStart)
	end, okEnd := parseDay(f.DateRangeEnd)
	switch {
	case okStart && okEnd:
		if end.Before(start) {
			return Interval{}, false
		}
		return Interval{Start: start, End: end}, true
	case okStart:
		return Interval{Start: start, End: start}, true
	case okEnd:
		return Interval{Start: end, End: end}, true
	}

	for _, s := range []string{f.DateRepresented, f.DateCaptured} {
		if d, ok := parseDay(s); ok {
			return Interval{Start: d, End: d}, true
		}
	}
	return Interval{}, false
}

// parseDay parses an ISO calendar date. time.Parse yields UTC midnight for a
// date-only layout independent of the host zone, which guards against the
// off-by-one-day shift when the same string is parsed and rendered in a
// negative-offset timezone.
func parseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
