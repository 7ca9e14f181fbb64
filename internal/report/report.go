// Package report turns per-claim coverage results into the aggregate views
// shown on dashboards and public report pages.
package report

import "github.com/impactkit/vouch/internal/coverage"

// Band classifies a claim's support level for display.
type Band string

const (
	BandStrong  Band = "strong"  // 80% and up
	BandPartial Band = "partial" // 40–79%
	BandWeak    Band = "weak"    // 1–39%
	BandNone    Band = "none"    // no covered days, or no usable claim dates
)

// BandFor classifies one coverage result.
func BandFor(r coverage.Result) Band {
	switch {
	case r.TotalDays == 0 || r.Percentage == 0:
		return BandNone
	case r.Percentage >= 80:
		return BandStrong
	case r.Percentage >= 40:
		return BandPartial
	default:
		return BandWeak
	}
}

// OrgSummary aggregates coverage across an organization's claims.
type OrgSummary struct {
	OrgID         string       `json:"org_id"`
	Claims        int          `json:"claims"`
	AvgPercentage int          `json:"avg_percentage"`
	FullyCovered  int          `json:"fully_covered"`
	Undated       int          `json:"undated"`
	Bands         map[Band]int `json:"bands"`
}

// Summarize builds the org-level rollup. The average reuses the engine's
// rounding policy so the same number appears on every surface. Claims with no
// usable dates count toward the total and the "none" band but are excluded
// from the average, since they have no defined percentage.
func Summarize(orgID string, results []coverage.Result) OrgSummary {
	summary := OrgSummary{
		OrgID:  orgID,
		Claims: len(results),
		Bands: map[Band]int{
			BandStrong:  0,
			BandPartial: 0,
			BandWeak:    0,
			BandNone:    0,
		},
	}

	sum, dated := 0, 0
	for _, r := range results {
		summary.Bands[BandFor(r)]++
		if r.TotalDays == 0 {
			summary.Undated++
			continue
		}
		dated++
		sum += r.Percentage
		if r.Percentage == 100 {
			summary.FullyCovered++
		}
	}

	if dated > 0 {
		summary.AvgPercentage = coverage.RoundPercent(sum, dated*100)
	}
	return summary
}
