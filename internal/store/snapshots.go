package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/impactkit/vouch/internal/coverage"
)

// Snapshot is a precomputed coverage result for one claim, kept fresh by the
// aggregator so dashboards and public reports never recompute per request.
type Snapshot struct {
	ClaimID    uuid.UUID
	OrgID      uuid.UUID
	Result     coverage.Result
	ComputedAt time.Time
}

// UpsertCoverageSnapshot stores the latest coverage result for a claim.
func (s *Store) UpsertCoverageSnapshot(ctx context.Context, claimID, orgID uuid.UUID, res coverage.Result) error {
	uncovered, err := json.Marshal(res.UncoveredRanges)
	if err != nil {
		return fmt.Errorf("marshal uncovered ranges: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO coverage_snapshots (claim_id, org_id, percentage, covered_days, total_days, uncovered, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (claim_id)
		DO UPDATE SET
			percentage = $3,
			covered_days = $4,
			total_days = $5,
			uncovered = $6,
			computed_at = now()`,
		claimID, orgID, res.Percentage, res.CoveredDays, res.TotalDays, uncovered,
	)
	if err != nil {
		return fmt.Errorf("upsert coverage snapshot: %w", err)
	}
	return nil
}

// ListOrgSnapshots returns every coverage snapshot for an organization,
// oldest claim first.
func (s *Store) ListOrgSnapshots(ctx context.Context, orgID uuid.UUID) ([]Snapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT claim_id, org_id, percentage, covered_days, total_days, uncovered, computed_at
		FROM coverage_snapshots
		WHERE org_id = $1
		ORDER BY computed_at`,
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("list org snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var uncovered []byte
		if err := rows.Scan(&snap.ClaimID, &snap.OrgID, &snap.Result.Percentage,
			&snap.Result.CoveredDays, &snap.Result.TotalDays, &uncovered, &snap.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := json.Unmarshal(uncovered, &snap.Result.UncoveredRanges); err != nil {
			return nil, fmt.Errorf("parse uncovered ranges: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}
