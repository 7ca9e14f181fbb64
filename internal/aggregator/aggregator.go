// Package aggregator keeps coverage snapshots in sync with the claim and
// evidence records they derive from. It reacts to change events from the bus
// and exposes a batch recompute used by the API and by backfills.
package aggregator

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/impactkit/vouch/internal/bus"
	"github.com/impactkit/vouch/internal/coverage"
	"github.com/impactkit/vouch/internal/store"
)

type Aggregator struct {
	store  *store.Store
	bus    *bus.Client
	logger *slog.Logger
}

func New(s *store.Store, b *bus.Client, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		store:  s,
		bus:    b,
		logger: logger,
	}
}

// HandleClaimUpdated is the NATS handler for impact.claim.updated.
func (a *Aggregator) HandleClaimUpdated(subject string, data []byte) {
	a.handleChange(subject, data)
}

// HandleEvidenceLinked is the NATS handler for impact.evidence.linked.
// Linking or unlinking evidence changes the claim's coverage the same way an
// edit to the claim's own dates does.
func (a *Aggregator) HandleEvidenceLinked(subject string, data []byte) {
	a.handleChange(subject, data)
}

func (a *Aggregator) handleChange(subject string, data []byte) {
	ctx := context.Background()

	var evt bus.ChangeEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		a.logger.Error("failed to parse change event", "subject", subject, "error", err)
		return
	}

	claimID, err := uuid.Parse(evt.ClaimID)
	if err != nil {
		a.logger.Error("invalid claim id in change event", "subject", subject, "claim_id", evt.ClaimID, "error", err)
		return
	}

	res, err := a.RefreshClaim(ctx, claimID)
	if err != nil {
		a.logger.Error("failed to refresh coverage", "claim_id", claimID, "error", err)
		return
	}

	a.logger.Info("coverage refreshed",
		"claim_id", claimID,
		"percentage", res.Percentage,
		"covered_days", res.CoveredDays,
		"total_days", res.TotalDays,
	)
}

// RefreshClaim recomputes one claim's coverage, persists the snapshot and
// publishes the computed event.
func (a *Aggregator) RefreshClaim(ctx context.Context, claimID uuid.UUID) (coverage.Result, error) {
	claim, err := a.store.GetClaim(ctx, claimID)
	if err != nil {
		return coverage.Result{}, err
	}

	evidence, err := a.store.ListClaimEvidenceDates(ctx, claimID)
	if err != nil {
		return coverage.Result{}, err
	}

	res := coverage.Compute(claim.Dates, evidence)

	if err := a.store.UpsertCoverageSnapshot(ctx, claim.ID, claim.OrgID, res); err != nil {
		return coverage.Result{}, err
	}

	if a.bus != nil {
		if err := a.bus.Publish(bus.SubjectCoverageComputed, bus.CoverageComputed{
			ClaimID:     claim.ID.String(),
			OrgID:       claim.OrgID.String(),
			Percentage:  res.Percentage,
			CoveredDays: res.CoveredDays,
			TotalDays:   res.TotalDays,
			ComputedAt:  time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			a.logger.Warn("failed to publish coverage computed", "claim_id", claim.ID, "error", err)
		}
	}

	return res, nil
}

// ClaimCoverage pairs a claim with its freshly computed coverage.
type ClaimCoverage struct {
	ClaimID  string          `json:"claim_id"`
	Coverage coverage.Result `json:"coverage"`
}

// RecomputeResult summarises a batch recompute over one organization.
type RecomputeResult struct {
	OrgID   string          `json:"org_id"`
	Claims  int             `json:"claims"`
	Failed  int             `json:"failed"`
	DryRun  bool            `json:"dry_run"`
	Results []ClaimCoverage `json:"results"`
}

// Recompute re-derives coverage for every claim of an organization. In dry-run
// mode results are computed and returned but nothing is persisted or
// published. A failing claim is logged and skipped so one bad record cannot
// abort the batch.
func (a *Aggregator) Recompute(ctx context.Context, orgID uuid.UUID, dryRun bool) (*RecomputeResult, error) {
	claimIDs, err := a.store.ListOrgClaimIDs(ctx, orgID)
	if err != nil {
		return nil, err
	}

	out := &RecomputeResult{
		OrgID:   orgID.String(),
		Claims:  len(claimIDs),
		DryRun:  dryRun,
		Results: []ClaimCoverage{},
	}

	for _, id := range claimIDs {
		var res coverage.Result
		if dryRun {
			res, err = a.computeOnly(ctx, id)
		} else {
			res, err = a.RefreshClaim(ctx, id)
		}
		if err != nil {
			a.logger.Error("recompute failed for claim", "claim_id", id, "error", err)
			out.Failed++
			continue
		}
		out.Results = append(out.Results, ClaimCoverage{ClaimID: id.String(), Coverage: res})
	}

	a.logger.Info("recompute completed",
		"org_id", orgID,
		"claims", out.Claims,
		"failed", out.Failed,
		"dry_run", dryRun,
	)
	return out, nil
}

func (a *Aggregator) computeOnly(ctx context.Context, claimID uuid.UUID) (coverage.Result, error) {
	claim, err := a.store.GetClaim(ctx, claimID)
	if err != nil {
		return coverage.Result{}, err
	}
	evidence, err := a.store.ListClaimEvidenceDates(ctx, claimID)
	if err != nil {
		return coverage.Result{}, err
	}
	return coverage.Compute(claim.Dates, evidence), nil
}
