package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/impactkit/vouch/internal/coverage"
	"github.com/impactkit/vouch/internal/report"
)

// reportCache holds rendered public report payloads. Public pages tolerate a
// short staleness window in exchange for not hitting the database on every
// anonymous view.
type reportCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

func newReportCache(ttl time.Duration) *reportCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &reportCache{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (c *reportCache) get(key string) ([]byte, bool) {
	if v, ok := c.cache.Get(key); ok {
		return v.([]byte), true
	}
	return nil, false
}

func (c *reportCache) set(key string, payload []byte) {
	c.cache.Set(key, payload, c.ttl)
}

// publicReport handles GET /api/v1/public/orgs/{orgID}/report.
// It serves the org summary only: public pages show the rollup, not the
// per-claim breakdown.
func (cs *CoverageServer) publicReport(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		http.Error(w, `{"error":"invalid org id"}`, http.StatusBadRequest)
		return
	}

	if payload, ok := cs.cache.get(orgID.String()); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
		return
	}

	snaps, err := cs.store.ListOrgSnapshots(r.Context(), orgID)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"list snapshots: %v"}`, err), http.StatusInternalServerError)
		return
	}

	results := make([]coverage.Result, 0, len(snaps))
	for _, snap := range snaps {
		results = append(results, snap.Result)
	}

	payload, err := json.Marshal(report.Summarize(orgID.String(), results))
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"render report: %v"}`, err), http.StatusInternalServerError)
		return
	}
	cs.cache.set(orgID.String(), payload)

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}
