// Package recommend ranks destination countries for a product category and
// origin. The live path fans out signal fetches per candidate, imputes gaps,
// and builds an explainable 0-100 point composite; when the live ranked-score
// list cannot be had, the last cached computation is served, and after that
// the bundled-catalog scorer. A request only ever fails on invalid input.
package recommend

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/exportdesk/advisor-cli/internal/altscore"
	"github.com/exportdesk/advisor-cli/internal/cache"
	"github.com/exportdesk/advisor-cli/internal/compliance"
	"github.com/exportdesk/advisor-cli/internal/confidence"
	"github.com/exportdesk/advisor-cli/internal/evidence"
	"github.com/exportdesk/advisor-cli/internal/model"
	"github.com/exportdesk/advisor-cli/internal/provider"
	"github.com/exportdesk/advisor-cli/internal/scoring"
)

// Result sources. The alternative tier's label lives in altscore.
const (
	SourceLive  = "live"
	SourceCache = "cache"
)

// GoalDiversify asks for markets the seller is not already in.
const GoalDiversify = "diversify"

const (
	// DefaultTopN is the ranking size when the caller does not ask for one.
	DefaultTopN = 5
	// MaxTopN matches the cache payload cap.
	MaxTopN = 20

	fetchLimit   = 5
	fetchTimeout = 8 * time.Second
)

// Request describes one recommendation query.
type Request struct {
	Category       string   `json:"category"` // HS code or prefix, 2+ chars
	Origin         string   `json:"origin"`   // ISO 3166-1 alpha-2
	CurrentMarkets []string `json:"current_markets,omitempty"`
	Goal           string   `json:"goal,omitempty"` // "" or "diversify"
	TopN           int      `json:"top_n,omitempty"`
}

func (r *Request) normalize() error {
	r.Category = strings.TrimSpace(r.Category)
	r.Origin = strings.ToUpper(strings.TrimSpace(r.Origin))
	r.Goal = strings.ToLower(strings.TrimSpace(r.Goal))

	if r.Category == "" {
		return eris.Wrap(model.ErrInvalidInput, "recommend: category is required")
	}
	if len(r.Category) < 2 {
		return eris.Wrap(model.ErrInvalidInput, "recommend: category must be at least an HS chapter (2 digits)")
	}
	if r.Origin == "" {
		return eris.Wrap(model.ErrInvalidInput, "recommend: origin country is required")
	}
	if r.TopN <= 0 {
		r.TopN = DefaultTopN
	}
	if r.TopN > MaxTopN {
		r.TopN = MaxTopN
	}
	for i, c := range r.CurrentMarkets {
		r.CurrentMarkets[i] = strings.ToUpper(strings.TrimSpace(c))
	}
	return nil
}

// currentSet returns the normalized current-market lookup, nil when the goal
// does not call for filtering.
func (r *Request) currentSet() map[string]bool {
	if r.Goal != GoalDiversify || len(r.CurrentMarkets) == 0 {
		return nil
	}
	set := make(map[string]bool, len(r.CurrentMarkets))
	for _, c := range r.CurrentMarkets {
		set[c] = true
	}
	return set
}

// Result is one completed recommendation.
type Result struct {
	RequestID   string               `json:"request_id"`
	Category    string               `json:"category"`
	Origin      string               `json:"origin"`
	Rankings    []model.CountryScore `json:"rankings"`
	Excluded    []model.Exclusion    `json:"excluded,omitempty"`
	Source      string               `json:"source"`
	Confidence  confidence.Report    `json:"confidence"`
	FetchLog    []string             `json:"fetch_log,omitempty"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Recommender wires the full recommendation pipeline. All dependencies are
// injected; two Recommenders never share mutable state beyond the cache they
// were handed.
type Recommender struct {
	provider provider.Interface
	gate     *compliance.Gate
	cache    *cache.Cache
	alt      *altscore.Scorer
	engine   *scoring.Engine
	evidence *evidence.Scorer
}

// New builds a Recommender. The economic scoring registry and the evidence
// calibration are fixed here; callers vary behavior through the provider,
// gate, and cache they pass in.
func New(p provider.Interface, gate *compliance.Gate, c *cache.Cache, alt *altscore.Scorer) *Recommender {
	return &Recommender{
		provider: p,
		gate:     gate,
		cache:    c,
		alt:      alt,
		engine:   scoring.NewEngine(scoring.EconomicFields()),
		evidence: evidence.NewScorer(evidence.DefaultParams()),
	}
}

// Recommend runs the three-tier ranking flow. The only error it returns for
// a well-formed request is the caller's own cancellation.
func (r *Recommender) Recommend(ctx context.Context, req Request) (*Result, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	log := zap.L().With(
		zap.String("category", req.Category),
		zap.String("origin", req.Origin),
	)

	result := &Result{
		RequestID:   uuid.NewString(),
		Category:    req.Category,
		Origin:      req.Origin,
		GeneratedAt: time.Now().UTC(),
	}

	// ----- Tier 1: live ranked scores -----
	scores, err := r.provider.RankedScores(ctx, req.Category, req.Origin)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("recommend: live ranked scores unavailable", zap.Error(err))
		result.FetchLog = append(result.FetchLog, "ranked scores: "+err.Error())
	}
	if len(scores) > 0 {
		return r.fromLive(ctx, req, result, scores, log)
	}

	// ----- Tier 2: last cached computation -----
	if entry, ok := r.cache.Get(ctx, req.Category, req.Origin); ok {
		return r.fromCache(req, result, entry, log), nil
	}

	// ----- Tier 3: bundled catalog -----
	return r.fromAlternative(req, result, log), nil
}

// finalize applies the diversify filter, reassigns contiguous ranks, and
// truncates to the requested size.
func finalize(rows []model.CountryScore, req Request) []model.CountryScore {
	current := req.currentSet()
	out := make([]model.CountryScore, 0, len(rows))
	for _, row := range rows {
		if current[row.Country] {
			continue
		}
		out = append(out, row)
	}
	if len(out) > req.TopN {
		out = out[:req.TopN]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// dedupe keeps the first occurrence of each value, preserving order.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func sortedLog(entries []string) []string {
	sort.Strings(entries)
	return entries
}
