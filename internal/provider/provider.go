// Package provider is the single doorway to upstream market data. Interface
// has exactly two implementations: Live speaks to the trade data API through
// the resilience layer, Static serves the bundled catalog. Callers treat an
// empty result and an error the same way, as an absent signal; neither ever
// aborts a scoring request.
package provider

import (
	"context"

	"github.com/exportdesk/advisor-cli/internal/model"
)

// Interface is the provider contract shared by every orchestrator.
type Interface interface {
	// RankedScores returns ML export scores (0-5) for category goods from
	// origin, best market first.
	RankedScores(ctx context.Context, category, origin string) ([]model.RankedScore, error)
	// CountryIndicators returns the indicator bag for one country, nil when
	// the country is unknown upstream.
	CountryIndicators(ctx context.Context, country string) (*model.MarketSignals, error)
	// Trends returns trending product topics for category in country.
	Trends(ctx context.Context, category, country string) ([]model.Trend, error)
	// FraudCases returns the fraud archive for country, most recent first.
	FraudCases(ctx context.Context, country string) ([]model.FraudCase, error)
	// SuccessCases returns market-entry success cases for country, optionally
	// narrowed to an industry key.
	SuccessCases(ctx context.Context, country, industry string) ([]model.SuccessCase, error)
	// Status reports upstream health for confidence scoring and /health.
	Status() model.ProviderStatus
}
