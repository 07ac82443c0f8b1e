package provider

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/exportdesk/advisor-cli/internal/model"
	"github.com/exportdesk/advisor-cli/internal/resilience"
	"github.com/exportdesk/advisor-cli/pkg/tradeapi"
)

// Operation names double as breaker keys, so one dead endpoint does not
// take down the others.
const (
	opScores     = "ranked_scores"
	opIndicators = "country_indicators"
	opTrends     = "trends"
	opFraud      = "fraud_cases"
	opSuccess    = "success_cases"
)

// Live fetches from the trade data API. The client below it already retries
// transient failures; Live adds a circuit breaker per operation and maps
// wire rows into model types.
type Live struct {
	api      tradeapi.Client
	breakers *resilience.ServiceBreakers
}

// NewLive wraps api with per-operation breakers. Only transient errors count
// toward the trip threshold: a 400 on a bad category says nothing about
// upstream health.
func NewLive(api tradeapi.Client, breaker resilience.CircuitBreakerConfig) *Live {
	breaker.ShouldTrip = resilience.IsTransient
	return &Live{
		api:      api,
		breakers: resilience.NewServiceBreakers(breaker),
	}
}

func (l *Live) RankedScores(ctx context.Context, category, origin string) ([]model.RankedScore, error) {
	rows, err := resilience.ExecuteVal(ctx, l.breakers.Get(opScores),
		func(ctx context.Context) ([]tradeapi.ScoreRow, error) {
			return l.api.RankedScores(ctx, category, origin)
		})
	if err != nil {
		return nil, eris.Wrap(err, "provider: ranked scores")
	}

	out := make([]model.RankedScore, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.RankedScore{
			Rank:    r.Rank,
			Country: strings.ToUpper(r.Country),
			Name:    r.Name,
			Score:   r.Score,
		})
	}
	return out, nil
}

func (l *Live) CountryIndicators(ctx context.Context, country string) (*model.MarketSignals, error) {
	info, err := resilience.ExecuteVal(ctx, l.breakers.Get(opIndicators),
		func(ctx context.Context) (*tradeapi.CountryInfo, error) {
			return l.api.CountryIndicators(ctx, country)
		})
	if err != nil {
		return nil, eris.Wrap(err, "provider: country indicators")
	}
	if info == nil {
		return nil, nil
	}

	return &model.MarketSignals{
		GDPUSD:         info.GDPUSD,
		GDPYear:        info.GDPYear,
		GrowthPct:      info.GDPGrowthPct,
		GrowthYear:     info.GrowthYear,
		InflationPct:   info.InflationPct,
		RiskGrade:      strings.ToUpper(strings.TrimSpace(info.RiskGrade)),
		MarketDesc:     strings.Join(info.MarketTraits, "; "),
		PromisingItems: info.PromisingGoods,
		NewsSentiment:  info.NewsSentiment,
	}, nil
}

func (l *Live) Trends(ctx context.Context, category, country string) ([]model.Trend, error) {
	rows, err := resilience.ExecuteVal(ctx, l.breakers.Get(opTrends),
		func(ctx context.Context) ([]tradeapi.TrendRow, error) {
			return l.api.Trends(ctx, category, country)
		})
	if err != nil {
		return nil, eris.Wrap(err, "provider: trends")
	}

	out := make([]model.Trend, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Trend{Topic: r.Topic, Rank: r.Rank})
	}
	return out, nil
}

func (l *Live) FraudCases(ctx context.Context, country string) ([]model.FraudCase, error) {
	rows, err := resilience.ExecuteVal(ctx, l.breakers.Get(opFraud),
		func(ctx context.Context) ([]tradeapi.FraudRow, error) {
			return l.api.FraudCases(ctx, country)
		})
	if err != nil {
		return nil, eris.Wrap(err, "provider: fraud cases")
	}

	out := make([]model.FraudCase, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.FraudCase{
			ID:        r.ID,
			Country:   strings.ToUpper(r.Country),
			Type:      r.Type,
			DamageUSD: r.DamageUSD,
			Year:      r.Year,
			Summary:   r.Summary,
		})
	}
	return out, nil
}

func (l *Live) SuccessCases(ctx context.Context, country, industry string) ([]model.SuccessCase, error) {
	rows, err := resilience.ExecuteVal(ctx, l.breakers.Get(opSuccess),
		func(ctx context.Context) ([]tradeapi.SuccessRow, error) {
			return l.api.SuccessCases(ctx, country, industry)
		})
	if err != nil {
		return nil, eris.Wrap(err, "provider: success cases")
	}

	out := make([]model.SuccessCase, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.SuccessCase{
			ID:       r.ID,
			Country:  strings.ToUpper(r.Country),
			Industry: r.Industry,
			Year:     r.Year,
			Summary:  r.Summary,
		})
	}
	return out, nil
}

// Status derives upstream health from the breaker states: every tracked
// operation open means unavailable, any open or probing means degraded.
func (l *Live) Status() model.ProviderStatus {
	states := l.breakers.States()
	if len(states) == 0 {
		return model.ProviderOK
	}

	open, notClosed := 0, 0
	for _, s := range states {
		if s == resilience.CircuitOpen {
			open++
		}
		if s != resilience.CircuitClosed {
			notClosed++
		}
	}
	switch {
	case open == len(states):
		return model.ProviderUnavailable
	case notClosed > 0:
		return model.ProviderDegraded
	default:
		return model.ProviderOK
	}
}
