// Package simulate projects export performance for one target market: a
// success probability from the weighted signal factors, a market-size
// estimate from a source ladder, and a revenue/breakeven projection bounded
// by the caller's production capacity.
package simulate

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/exportdesk/advisor-cli/internal/compliance"
	"github.com/exportdesk/advisor-cli/internal/confidence"
	"github.com/exportdesk/advisor-cli/internal/dataset"
	"github.com/exportdesk/advisor-cli/internal/impute"
	"github.com/exportdesk/advisor-cli/internal/model"
	"github.com/exportdesk/advisor-cli/internal/provider"
)

const (
	baseProbability = 0.30
	probabilitySpan = 0.65
	minProbability  = 0.05
	maxProbability  = 0.95

	weightExport = 0.40
	weightEcon   = 0.25
	weightNews   = 0.20
	weightTrends = 0.15

	// Mid-scale stand-in when no ranked row names the target country.
	defaultExportScore = 2.5

	floorMarketSizeUSD = 100e6
	capacityRevenueCap = 0.8
	lowRevenueShare    = 0.3
	maxBreakevenMonths = 36

	fetchTimeout = 8 * time.Second
)

// Market-size estimate provenance, most to least trusted.
const (
	SizeSourceCaller  = "caller_estimate"
	SizeSourceCatalog = "bundled_catalog"
	SizeSourceGDP     = "provider_gdp"
	SizeSourceFloor   = "default_floor"
)

// Request describes one simulation run.
type Request struct {
	Category       string  `json:"category"`
	Target         string  `json:"target"`
	UnitPrice      float64 `json:"unit_price"`
	MinOrderQty    int     `json:"min_order_qty"`
	AnnualCapacity int     `json:"annual_capacity"`
	// MarketSizeUSD is an optional caller-supplied market size; it
	// short-circuits the estimation ladder when positive.
	MarketSizeUSD float64 `json:"market_size_usd,omitempty"`
}

func (r *Request) normalize() error {
	r.Category = strings.TrimSpace(r.Category)
	r.Target = strings.ToUpper(strings.TrimSpace(r.Target))
	switch {
	case r.Category == "":
		return eris.Wrap(model.ErrInvalidInput, "simulate: category is required")
	case len(r.Category) < 2:
		return eris.Wrap(model.ErrInvalidInput, "simulate: category must be at least an HS chapter (2 digits)")
	case r.Target == "":
		return eris.Wrap(model.ErrInvalidInput, "simulate: target country is required")
	case r.UnitPrice <= 0:
		return eris.Wrap(model.ErrInvalidInput, "simulate: unit price must be positive")
	case r.MinOrderQty <= 0:
		return eris.Wrap(model.ErrInvalidInput, "simulate: minimum order quantity must be positive")
	case r.AnnualCapacity < r.MinOrderQty:
		return eris.Wrap(model.ErrInvalidInput, "simulate: annual capacity must cover the minimum order quantity")
	case r.MarketSizeUSD < 0:
		return eris.Wrap(model.ErrInvalidInput, "simulate: market size estimate cannot be negative")
	}
	return nil
}

// Projection is the simulation result. Breakdown components sum to the
// pre-clamp success probability, so the arithmetic is auditable.
type Projection struct {
	RequestID          string               `json:"request_id"`
	Target             string               `json:"target"`
	CountryName        string               `json:"country_name"`
	Category           string               `json:"category"`
	SuccessProbability float64              `json:"success_probability"`
	Breakdown          model.Breakdown      `json:"breakdown"`
	MarketSizeUSD      float64              `json:"market_size_usd"`
	MarketSizeSource   string               `json:"market_size_source"`
	MarketSharePct     float64              `json:"market_share_pct"`
	ExpectedRevenueUSD float64              `json:"expected_revenue_usd"`
	LowRevenueUSD      float64              `json:"low_revenue_usd"`
	ExpectedUnits      int                  `json:"expected_units"`
	BreakevenMonths    int                  `json:"breakeven_months,omitempty"`
	BreakevenReachable bool                 `json:"breakeven_reachable"`
	Warnings           []string             `json:"warnings,omitempty"`
	Economic           *model.MarketSignals `json:"economic_indicators,omitempty"`
	Confidence         confidence.Report    `json:"confidence"`
	FetchLog           []string             `json:"fetch_log,omitempty"`
	GeneratedAt        time.Time            `json:"generated_at"`
}

// Simulator runs performance simulations against the live provider, with
// the bundled catalog supplying market-size fundamentals.
type Simulator struct {
	provider provider.Interface
	gate     *compliance.Gate
	catalog  *dataset.Catalog
}

func New(p provider.Interface, gate *compliance.Gate, catalog *dataset.Catalog) *Simulator {
	return &Simulator{provider: p, gate: gate, catalog: catalog}
}

// Simulate projects first-year export performance for one target market.
// Fetch failures degrade to imputed signals; only invalid input, an
// embargoed target, or caller cancellation produce an error.
func (s *Simulator) Simulate(ctx context.Context, req Request) (*Projection, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	verdict := s.gate.Check(req.Target)
	if verdict.Status == compliance.StatusBlocked {
		return nil, eris.Wrapf(model.ErrInvalidInput,
			"simulate: target country %s is blocked: %s", req.Target, verdict.Reason)
	}

	log := zap.L().With(
		zap.String("category", req.Category),
		zap.String("target", req.Target),
	)

	// ----- Fetch -----

	var (
		mu        sync.Mutex
		fetchLog  []string
		exportPtr *float64
		signals   model.MarketSignals
		trendN    *int
		answered  sourceFlags
	)
	logFetch := func(line string) {
		mu.Lock()
		fetchLog = append(fetchLog, line)
		mu.Unlock()
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fCtx, cancel := context.WithTimeout(gCtx, fetchTimeout)
		defer cancel()
		rows, err := s.provider.RankedScores(fCtx, req.Category, "")
		if err != nil {
			logFetch("ranked scores: " + err.Error())
			return nil
		}
		answered.scores = true
		for _, row := range rows {
			if strings.EqualFold(row.Country, req.Target) {
				score := row.Score
				exportPtr = &score
				break
			}
		}
		return nil
	})
	g.Go(func() error {
		fCtx, cancel := context.WithTimeout(gCtx, fetchTimeout)
		defer cancel()
		info, err := s.provider.CountryIndicators(fCtx, req.Target)
		if err != nil {
			logFetch("country indicators: " + err.Error())
			return nil
		}
		answered.indicators = true
		if info != nil {
			signals = *info
		}
		return nil
	})
	g.Go(func() error {
		fCtx, cancel := context.WithTimeout(gCtx, fetchTimeout)
		defer cancel()
		trends, err := s.provider.Trends(fCtx, req.Category, req.Target)
		if err != nil {
			logFetch("trends: " + err.Error())
			return nil
		}
		answered.trends = true
		n := len(trends)
		trendN = &n
		return nil
	})
	_ = g.Wait()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// ----- Impute & weigh -----

	im := impute.New()
	export, _ := im.Numeric(exportPtr, "export_score", req.Target, defaultExportScore)
	gdp, _ := im.Numeric(signals.GDPUSD, "gdp_usd", req.Target, 0)
	growth, _ := im.Numeric(signals.GrowthPct, "gdp_growth_pct", req.Target, 0)
	grade, _ := im.Categorical(signals.RiskGrade, "risk_grade", req.Target, "")
	sentiment, _ := im.Numeric(signals.NewsSentiment, "news_sentiment", req.Target, 0)
	var tc *float64
	if trendN != nil {
		f := float64(*trendN)
		tc = &f
	}
	trendCount, _ := im.Numeric(tc, "trend_count", req.Target, 0)

	exportFactor := model.Clamp01(export / 5)
	econFactor := economicFactor(growth, grade)
	newsFactor := model.Clamp01(0.5 + sentiment/2)
	trendFactor := math.Min(1, 0.3+0.1*trendCount)

	var b model.Breakdown
	b = b.Add("base_probability", baseProbability)
	b = b.Add("export_prediction", probabilitySpan*weightExport*exportFactor)
	b = b.Add("economic_indicators", probabilitySpan*weightEcon*econFactor)
	b = b.Add("news_sentiment", probabilitySpan*weightNews*newsFactor)
	b = b.Add("market_trends", probabilitySpan*weightTrends*trendFactor)

	probability := b.Total()
	if probability < minProbability {
		probability = minProbability
	}
	if probability > maxProbability {
		probability = maxProbability
	}
	probability = math.Round(probability*1000) / 1000

	// ----- Project -----

	size, sizeSource := s.marketSize(req, signals.GDPUSD)
	share := shareForProbability(probability)
	capacityCeiling := float64(req.AnnualCapacity) * req.UnitPrice * capacityRevenueCap
	expected := math.Min(size*share, capacityCeiling)
	low := lowRevenueShare * expected
	units := int(math.Min(expected/req.UnitPrice, float64(req.AnnualCapacity)))

	months := 0
	reachable := expected > 0
	if reachable {
		months = int(math.Ceil(12 * float64(req.MinOrderQty) * req.UnitPrice / expected))
		if months > maxBreakevenMonths {
			months = maxBreakevenMonths
		}
	}

	name := req.Target
	if m, ok := s.catalog.Market(req.Target); ok {
		name = m.Name
	}

	var warnings []string
	if verdict.Warning != "" {
		warnings = append(warnings, verdict.Warning)
	}

	n := int(trendCount)
	economic := &model.MarketSignals{
		ExportScore:   &export,
		GDPUSD:        &gdp,
		GrowthPct:     &growth,
		InflationPct:  signals.InflationPct,
		RiskGrade:     grade,
		NewsSentiment: &sentiment,
		TrendCount:    &n,
	}

	proj := &Projection{
		RequestID:          uuid.NewString(),
		Target:             req.Target,
		CountryName:        name,
		Category:           req.Category,
		SuccessProbability: probability,
		Breakdown:          b,
		MarketSizeUSD:      size,
		MarketSizeSource:   sizeSource,
		MarketSharePct:     share * 100,
		ExpectedRevenueUSD: math.Round(expected),
		LowRevenueUSD:      math.Round(low),
		ExpectedUnits:      units,
		BreakevenMonths:    months,
		BreakevenReachable: reachable,
		Warnings:           warnings,
		Economic:           economic,
		FetchLog:           sortedLog(fetchLog),
		GeneratedAt:        time.Now().UTC(),
	}
	proj.Confidence = confidence.Calculate(confidence.Input{
		Context:        confidence.ContextSimulate,
		MissingFields:  dedupe(im.MissingFields()),
		Methods:        im.Methods(),
		Sources:        answered.list(),
		FallbackUsed:   false,
		ProviderStatus: s.provider.Status(),
	})

	log.Info("simulate: projection complete",
		zap.Float64("probability", probability),
		zap.String("market_size_source", sizeSource),
		zap.Float64("expected_revenue_usd", proj.ExpectedRevenueUSD),
		zap.Float64("confidence", proj.Confidence.Score),
	)
	return proj, nil
}

// marketSize walks the estimation ladder: caller estimate, bundled
// catalog, provider GDP at the default ratio, then the flat floor. The
// provider tier uses the raw fetched GDP, never an imputed one.
func (s *Simulator) marketSize(req Request, providerGDP *float64) (float64, string) {
	if req.MarketSizeUSD > 0 {
		return req.MarketSizeUSD, SizeSourceCaller
	}
	ind, _ := s.catalog.IndustryForHS(req.Category)
	if size, ok := s.catalog.MarketSizeUSD(req.Target, ind.Key); ok {
		return size, SizeSourceCatalog
	}
	if providerGDP != nil && *providerGDP > 0 {
		return *providerGDP * dataset.DefaultMarketRatio, SizeSourceGDP
	}
	return floorMarketSizeUSD, SizeSourceFloor
}

// economicFactor starts neutral and shifts on growth and the insurer risk
// grade, bounded to [0, 1].
func economicFactor(growthPct float64, grade string) float64 {
	f := 0.5
	switch {
	case growthPct > 5:
		f += 0.3
	case growthPct > 3:
		f += 0.2
	case growthPct > 1:
		f += 0.1
	case growthPct < 0:
		f -= 0.2
	}
	switch grade {
	case "A":
		f += 0.2
	case "B":
		f += 0.1
	case "D", "E":
		f -= 0.2
	}
	return model.Clamp01(f)
}

func shareForProbability(p float64) float64 {
	switch {
	case p >= 0.75:
		return 0.001
	case p >= 0.55:
		return 0.0005
	case p >= 0.35:
		return 0.0002
	default:
		return 0.0001
	}
}

type sourceFlags struct {
	scores     bool
	indicators bool
	trends     bool
}

func (f sourceFlags) list() []string {
	var out []string
	if f.scores {
		out = append(out, "export_scores")
	}
	if f.indicators {
		out = append(out, "country_indicators")
	}
	if f.trends {
		out = append(out, "market_trends")
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func sortedLog(lines []string) []string {
	sort.Strings(lines)
	return lines
}
