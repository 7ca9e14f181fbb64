package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/impactkit/vouch/internal/aggregator"
	"github.com/impactkit/vouch/internal/coverage"
	"github.com/impactkit/vouch/internal/report"
	"github.com/impactkit/vouch/internal/store"
)

// CoverageServer extends the base server with claim and org coverage routes.
type CoverageServer struct {
	*Server
	store   *store.Store
	agg     *aggregator.Aggregator
	cache   *reportCache
	limiter *ipLimiter
}

// PublicOptions tunes the unauthenticated report surface.
type PublicOptions struct {
	CacheTTL   time.Duration
	RatePerSec float64
	RateBurst  int
}

// ClaimCoverageResponse is the payload of the claim coverage endpoint.
type ClaimCoverageResponse struct {
	ClaimID  string          `json:"claim_id"`
	Title    string          `json:"title"`
	Coverage coverage.Result `json:"coverage"`
}

// OrgCoverageResponse is the dashboard payload: the org rollup plus the
// per-claim snapshots it was derived from.
type OrgCoverageResponse struct {
	Summary report.OrgSummary   `json:"summary"`
	Claims  []SnapshotResponse  `json:"claims"`
}

type SnapshotResponse struct {
	ClaimID    string          `json:"claim_id"`
	Coverage   coverage.Result `json:"coverage"`
	ComputedAt time.Time       `json:"computed_at"`
}

// RecomputeRequest is the body of POST /api/v1/coverage/recompute.
type RecomputeRequest struct {
	OrgID  string `json:"org_id"`
	DryRun bool   `json:"dry_run"`
}

// NewCoverageServer creates a server with coverage routes mounted on the base.
func NewCoverageServer(port int, apiToken string, db *store.Store, agg *aggregator.Aggregator, pub PublicOptions) *CoverageServer {
	base := NewServer(port)
	cs := &CoverageServer{
		Server:  base,
		store:   db,
		agg:     agg,
		cache:   newReportCache(pub.CacheTTL),
		limiter: newIPLimiter(pub.RatePerSec, pub.RateBurst),
	}

	base.router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(BearerAuthMiddleware(apiToken))
			r.Get("/claims/{claimID}/coverage", cs.claimCoverage)
			r.Get("/orgs/{orgID}/coverage", cs.orgCoverage)
			r.Post("/coverage/recompute", cs.recompute)
		})

		r.Group(func(r chi.Router) {
			r.Use(cs.limiter.middleware)
			r.Get("/public/orgs/{orgID}/report", cs.publicReport)
		})
	})

	return cs
}

// claimCoverage handles GET /api/v1/claims/{claimID}/coverage.
// Coverage is computed fresh from the claim and its linked evidence, so the
// claim preview never shows a stale snapshot.
func (cs *CoverageServer) claimCoverage(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(chi.URLParam(r, "claimID"))
	if err != nil {
		http.Error(w, `{"error":"invalid claim id"}`, http.StatusBadRequest)
		return
	}

	claim, err := cs.store.GetClaim(r.Context(), claimID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, `{"error":"claim not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf(`{"error":"fetch claim: %v"}`, err), http.StatusInternalServerError)
		return
	}

	evidence, err := cs.store.ListClaimEvidenceDates(r.Context(), claimID)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"fetch evidence: %v"}`, err), http.StatusInternalServerError)
		return
	}

	resp := ClaimCoverageResponse{
		ClaimID:  claim.ID.String(),
		Title:    claim.Title,
		Coverage: coverage.Compute(claim.Dates, evidence),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// orgCoverage handles GET /api/v1/orgs/{orgID}/coverage.
// Dashboards read precomputed snapshots; the aggregator keeps them fresh.
func (cs *CoverageServer) orgCoverage(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		http.Error(w, `{"error":"invalid org id"}`, http.StatusBadRequest)
		return
	}

	snaps, err := cs.store.ListOrgSnapshots(r.Context(), orgID)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"list snapshots: %v"}`, err), http.StatusInternalServerError)
		return
	}

	results := make([]coverage.Result, 0, len(snaps))
	claims := make([]SnapshotResponse, 0, len(snaps))
	for _, snap := range snaps {
		results = append(results, snap.Result)
		claims = append(claims, SnapshotResponse{
			ClaimID:    snap.ClaimID.String(),
			Coverage:   snap.Result,
			ComputedAt: snap.ComputedAt,
		})
	}

	resp := OrgCoverageResponse{
		Summary: report.Summarize(orgID.String(), results),
		Claims:  claims,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// recompute handles POST /api/v1/coverage/recompute.
func (cs *CoverageServer) recompute(w http.ResponseWriter, r *http.Request) {
	var req RecomputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid JSON: %v"}`, err), http.StatusBadRequest)
		return
	}

	orgID, err := uuid.Parse(req.OrgID)
	if err != nil {
		http.Error(w, `{"error":"invalid org id"}`, http.StatusBadRequest)
		return
	}

	result, err := cs.agg.Recompute(r.Context(), orgID, req.DryRun)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"recompute failed: %v"}`, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
