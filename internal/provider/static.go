package provider

import (
	"context"
	"strings"

	"github.com/exportdesk/advisor-cli/internal/dataset"
	"github.com/exportdesk/advisor-cli/internal/model"
)

// Static answers every call from the bundled catalog. It never touches the
// network and never returns an error, which makes it the terminal fallback
// when the live tier and the cache both come up empty.
type Static struct {
	catalog *dataset.Catalog
}

func NewStatic(catalog *dataset.Catalog) *Static {
	return &Static{catalog: catalog}
}

// RankedScores always reports no signal: the catalog carries market
// fundamentals, not ML propensity scores. The orchestrator falls through to
// the alternative scorer instead.
func (s *Static) RankedScores(ctx context.Context, category, origin string) ([]model.RankedScore, error) {
	return nil, nil
}

func (s *Static) CountryIndicators(ctx context.Context, country string) (*model.MarketSignals, error) {
	m, ok := s.catalog.Market(strings.ToUpper(strings.TrimSpace(country)))
	if !ok {
		return nil, nil
	}

	gdp := m.GDPUSD
	growth := m.ImportGrowthPct
	return &model.MarketSignals{
		GDPUSD:    &gdp,
		GrowthPct: &growth,
		RiskGrade: m.RiskGrade,
	}, nil
}

func (s *Static) Trends(ctx context.Context, category, country string) ([]model.Trend, error) {
	return s.catalog.TrendTopics(category), nil
}

func (s *Static) FraudCases(ctx context.Context, country string) ([]model.FraudCase, error) {
	return s.catalog.FraudCases(strings.ToUpper(strings.TrimSpace(country))), nil
}

func (s *Static) SuccessCases(ctx context.Context, country, industry string) ([]model.SuccessCase, error) {
	cases := s.catalog.SuccessCases(strings.ToUpper(strings.TrimSpace(country)))
	if industry == "" {
		return cases, nil
	}

	out := make([]model.SuccessCase, 0, len(cases))
	for _, c := range cases {
		if strings.EqualFold(c.Industry, industry) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Status is always ok: bundled data cannot be unavailable.
func (s *Static) Status() model.ProviderStatus {
	return model.ProviderOK
}
