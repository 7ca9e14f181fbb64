package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/impactkit/vouch/internal/coverage"
)

// ListClaimEvidenceDates returns the date fields of every evidence record
// linked to a claim. Records without any date still come back; the coverage
// engine excludes them itself.
func (s *Store) ListClaimEvidenceDates(ctx context.Context, claimID uuid.UUID) ([]coverage.DateFields, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT e.date_captured, e.date_range_start, e.date_range_end
		FROM evidence e
		JOIN claim_evidence ce ON ce.evidence_id = e.id
		WHERE ce.claim_id = $1
		ORDER BY e.created_at`,
		claimID,
	)
	if err != nil {
		return nil, fmt.Errorf("list claim evidence: %w", err)
	}
	defer rows.Close()

	var out []coverage.DateFields
	for rows.Next() {
		var captured, rangeStart, rangeEnd *time.Time
		if err := rows.Scan(&captured, &rangeStart, &rangeEnd); err != nil {
			return nil, fmt.Errorf("scan evidence dates: %w", err)
		}
		out = append(out, coverage.DateFields{
			DateCaptured:   isoDate(captured),
			DateRangeStart: isoDate(rangeStart),
			DateRangeEnd:   isoDate(rangeEnd),
		})
	}
	return out, rows.Err()
}
