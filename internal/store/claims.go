package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/impactkit/vouch/internal/coverage"
)

// ClaimRecord is one impact claim: a metric value asserted for a date or
// date range by an organization.
type ClaimRecord struct {
	ID          uuid.UUID
	OrgID       uuid.UUID
	Title       string
	MetricValue float64
	Dates       coverage.DateFields
}

// GetClaim fetches a single claim with its date fields.
func (s *Store) GetClaim(ctx context.Context, claimID uuid.UUID) (*ClaimRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, org_id, title, metric_value, date_represented, date_range_start, date_range_end
		FROM claims
		WHERE id = $1`,
		claimID,
	)

	var c ClaimRecord
	var represented, rangeStart, rangeEnd *time.Time
	err := row.Scan(&c.ID, &c.OrgID, &c.Title, &c.MetricValue, &represented, &rangeStart, &rangeEnd)
	if err != nil {
		return nil, err
	}
	c.Dates = coverage.DateFields{
		DateRepresented: isoDate(represented),
		DateRangeStart:  isoDate(rangeStart),
		DateRangeEnd:    isoDate(rangeEnd),
	}
	return &c, nil
}

// ListOrgClaimIDs returns the IDs of every claim belonging to an organization.
func (s *Store) ListOrgClaimIDs(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id FROM claims WHERE org_id = $1 ORDER BY created_at`,
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("list org claims: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan claim id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
