package recommend

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/exportdesk/advisor-cli/internal/compliance"
	"github.com/exportdesk/advisor-cli/internal/confidence"
	"github.com/exportdesk/advisor-cli/internal/evidence"
	"github.com/exportdesk/advisor-cli/internal/impute"
	"github.com/exportdesk/advisor-cli/internal/model"
	"github.com/exportdesk/advisor-cli/internal/scoring"
)

// Composite point scale. Points sum on a 0-100 scale; the final score is
// clamp01(total/100).
const (
	exportPoints = 40.0
	econPoints   = 25.0
	trendBase    = 8.0
	trendPer     = 2.0
	trendCap     = 15.0
	newsSpan     = 15.0
)

// riskGradePoints maps the insurer grade to composite points. Grades the
// table does not know score like a C.
var riskGradePoints = map[string]float64{
	"A": 20, "B": 15, "C": 10, "D": 5, "E": 5,
}

func gradePoints(grade string) float64 {
	if p, ok := riskGradePoints[grade]; ok {
		return p
	}
	return riskGradePoints["C"]
}

// candidate is the per-country working state on the live path.
type candidate struct {
	country string
	name    string
	export  float64
	verdict compliance.Verdict
	signals model.MarketSignals
	fraud   []model.FraudCase

	fraudFailed bool

	// post-imputation values
	gdp        float64
	growth     float64
	grade      string
	trendCount int
}

// fromLive runs the full pipeline over the live ranked-score list.
func (r *Recommender) fromLive(ctx context.Context, req Request, result *Result, scores []model.RankedScore, log *zap.Logger) (*Result, error) {
	// ----- Compliance filter -----
	cands := make([]candidate, 0, len(scores))
	for _, s := range scores {
		v := r.gate.Check(s.Country)
		if v.Status == compliance.StatusBlocked {
			result.Excluded = append(result.Excluded, model.Exclusion{
				Country: v.Country,
				Reason:  v.Reason,
			})
			continue
		}
		cands = append(cands, candidate{
			country: v.Country,
			name:    s.Name,
			export:  s.Score,
			verdict: v,
		})
	}
	if len(cands) == 0 {
		log.Warn("recommend: every live candidate blocked by policy",
			zap.Int("excluded", len(result.Excluded)))
	}

	// ----- Enrichment fan-out -----
	var (
		logMu    sync.Mutex
		fetchLog []string
	)
	logFetch := func(format string, args ...any) {
		logMu.Lock()
		fetchLog = append(fetchLog, fmt.Sprintf(format, args...))
		logMu.Unlock()
	}

	sources := make([]sourceFlags, len(cands))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(fetchLimit)
	for i := range cands {
		g.Go(func() error {
			c := &cands[i]
			c.signals.ExportScore = &c.export

			fctx, cancel := context.WithTimeout(gCtx, fetchTimeout)
			info, err := r.provider.CountryIndicators(fctx, c.country)
			cancel()
			switch {
			case err != nil:
				logFetch("%s: indicators: %v", c.country, err)
			case info != nil:
				export := c.signals.ExportScore
				c.signals = *info
				c.signals.ExportScore = export
				sources[i].indicators = true
			}

			fctx, cancel = context.WithTimeout(gCtx, fetchTimeout)
			trends, err := r.provider.Trends(fctx, req.Category, c.country)
			cancel()
			if err != nil {
				logFetch("%s: trends: %v", c.country, err)
			} else {
				n := len(trends)
				c.signals.TrendCount = &n
				sources[i].trends = true
			}

			fctx, cancel = context.WithTimeout(gCtx, fetchTimeout)
			fraud, err := r.provider.FraudCases(fctx, c.country)
			cancel()
			if err != nil {
				logFetch("%s: fraud cases: %v", c.country, err)
				c.fraudFailed = true
			} else {
				c.fraud = fraud
				sources[i].fraud = true
			}
			return nil
		})
	}
	_ = g.Wait()
	if ctx.Err() != nil {
		// Caller gave up; a partially enriched ranking is worse than none.
		return nil, ctx.Err()
	}

	// ----- Imputation -----
	// One imputer per request: its record stream is the confidence input.
	im := impute.New()
	for i := range cands {
		c := &cands[i]
		im.Numeric(c.signals.ExportScore, "export_score", c.country, 0)
		c.gdp, _ = im.Numeric(c.signals.GDPUSD, "gdp_usd", c.country, 0)
		c.growth, _ = im.Numeric(c.signals.GrowthPct, "gdp_growth_pct", c.country, 0)
		c.grade, _ = im.Categorical(c.signals.RiskGrade, "risk_grade", c.country, "")

		var tc *float64
		if c.signals.TrendCount != nil {
			f := float64(*c.signals.TrendCount)
			tc = &f
		}
		n, _ := im.Numeric(tc, "trend_count", c.country, 0)
		c.trendCount = int(n)

		if c.fraudFailed {
			im.List(nil, "fraud_cases")
		}
	}

	// ----- Economic composite -----
	items := make([]scoring.Item, len(cands))
	for i, c := range cands {
		gdp, growth := c.gdp, c.growth
		items[i] = scoring.Item{
			ID: c.country,
			Bag: scoring.Bag{
				"gdp_usd":        &gdp,
				"gdp_growth_pct": &growth,
			},
		}
	}
	econ := r.engine.ScoreBatch(items)

	// ----- Composite points -----
	ranked := make([]model.Candidate, 0, len(cands))
	for i := range cands {
		c := &cands[i]
		if econ[i].Excluded {
			// An invalid required field excludes the candidate outright;
			// ranking it with a zero contribution would let it place.
			result.Excluded = append(result.Excluded, model.Exclusion{
				Country: c.country,
				Reason:  econ[i].ExclusionReason,
			})
			continue
		}
		b := model.Breakdown{}
		b = b.Add("export_prediction", model.Clamp01(c.export/5)*exportPoints)
		b = b.Add("economic_indicators", econ[i].Score*econPoints)
		b = b.Add("risk_grade", gradePoints(c.grade))
		b = b.Add("market_trends", math.Min(trendBase+trendPer*float64(c.trendCount), trendCap))
		b = b.Add("news_adjustment", newsAdjustment(c.signals.NewsSentiment))
		b = b.Add("fraud_penalty", evidence.CountPenalty(len(c.fraud)))
		b = b.Add("compliance_penalty", c.verdict.Penalty)

		cand := model.Candidate{
			ID:        c.country,
			Country:   c.country,
			Name:      c.name,
			Score:     model.Clamp01(b.Total() / 100),
			Breakdown: b,
			Source:    SourceLive,
		}
		if c.verdict.Warning != "" {
			cand.Warnings = append(cand.Warnings, c.verdict.Warning)
		}
		sig := c.signals
		sig.RiskGrade = c.grade
		cand.Signals = &sig
		ranked = append(ranked, cand)
	}
	model.SortCandidates(ranked)

	rows := make([]model.CountryScore, len(ranked))
	for i, cand := range ranked {
		rows[i] = model.CountryScore{
			Rank:       i + 1,
			Country:    cand.Country,
			Name:       cand.Name,
			Score:      model.Round2(cand.Score),
			Breakdown:  cand.Breakdown,
			Warnings:   cand.Warnings,
			Source:     SourceLive,
			RiskGrade:  cand.Signals.RiskGrade,
			MarketDesc: cand.Signals.MarketDesc,
		}
	}

	// The cache keeps the full unfiltered ranking: the key carries no goal,
	// so a later diversify request must be servable from the same entry.
	if len(rows) > 0 {
		r.cache.Set(ctx, req.Category, req.Origin, rows, 0)
	}

	result.Rankings = finalize(rows, req)
	result.Source = SourceLive
	result.FetchLog = sortedLog(append(result.FetchLog, fetchLog...))
	result.Confidence = confidence.Calculate(confidence.Input{
		Context:        confidence.ContextRecommend,
		MissingFields:  dedupe(im.MissingFields()),
		Methods:        im.Methods(),
		Sources:        collectSources(sources),
		FallbackUsed:   false,
		ProviderStatus: r.provider.Status(),
	})

	log.Info("recommend: live ranking complete",
		zap.Int("candidates", len(cands)),
		zap.Int("ranked", len(result.Rankings)),
		zap.Int("excluded", len(result.Excluded)),
		zap.Float64("confidence", result.Confidence.Score),
	)
	return result, nil
}

// sourceFlags tracks which signal families answered for one candidate.
type sourceFlags struct {
	indicators bool
	trends     bool
	fraud      bool
}

// collectSources names every signal family that answered at least once. The
// ranked-score list is always present on the live path.
func collectSources(flags []sourceFlags) []string {
	out := []string{"export_scores"}
	var indicators, trends, fraud bool
	for _, f := range flags {
		indicators = indicators || f.indicators
		trends = trends || f.trends
		fraud = fraud || f.fraud
	}
	if indicators {
		out = append(out, "country_indicators")
	}
	if trends {
		out = append(out, "market_trends")
	}
	if fraud {
		out = append(out, "fraud_archive")
	}
	return out
}

func newsAdjustment(sentiment *float64) float64 {
	if sentiment == nil {
		return 0
	}
	adj := *sentiment * newsSpan
	return math.Max(-newsSpan, math.Min(newsSpan, adj))
}
