package recommend

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/exportdesk/advisor-cli/internal/altscore"
	"github.com/exportdesk/advisor-cli/internal/cache"
	"github.com/exportdesk/advisor-cli/internal/compliance"
	"github.com/exportdesk/advisor-cli/internal/confidence"
	"github.com/exportdesk/advisor-cli/internal/model"
)

// fromCache serves the last good computation. Scores are not recomputed, but
// the current policy still applies: a destination blocked since the entry
// was written never leaves the cache.
func (r *Recommender) fromCache(req Request, result *Result, entry *cache.Entry, log *zap.Logger) *Result {
	rows := make([]model.CountryScore, 0, len(entry.Payload))
	for _, row := range entry.Payload {
		v := r.gate.Check(row.Country)
		if v.Status == compliance.StatusBlocked {
			result.Excluded = append(result.Excluded, model.Exclusion{
				Country: v.Country,
				Reason:  v.Reason,
			})
			continue
		}
		row.Source = SourceCache
		rows = append(rows, row)
	}

	result.Rankings = finalize(rows, req)
	result.Source = SourceCache
	result.FetchLog = append(result.FetchLog,
		fmt.Sprintf("served cached ranking from %s", entry.CreatedAt.Format("2006-01-02 15:04 UTC")))
	result.Confidence = confidence.Calculate(confidence.Input{
		Context:        confidence.ContextRecommend,
		Sources:        []string{"result_cache"},
		FallbackUsed:   true,
		ProviderStatus: r.provider.Status(),
	})

	log.Info("recommend: served from cache",
		zap.Int("ranked", len(result.Rankings)),
		zap.Time("cached_at", entry.CreatedAt),
		zap.Float64("confidence", result.Confidence.Score),
	)
	return result
}

// fromAlternative recomputes an approximate ranking from the bundled market
// parameters. The alternative scorer already excludes blocked destinations.
func (r *Recommender) fromAlternative(req Request, result *Result, log *zap.Logger) *Result {
	rows := r.alt.Rank(0)

	result.Rankings = finalize(rows, req)
	result.Source = altscore.Source
	result.FetchLog = append(result.FetchLog,
		"live data and cache unavailable; ranked from bundled market parameters")

	// The bundled tier has none of the live-only signals; say so rather than
	// pretending a complete computation happened.
	result.Confidence = confidence.Calculate(confidence.Input{
		Context:        confidence.ContextRecommend,
		MissingFields:  []string{"export_score", "trend_count", "fraud_cases"},
		Sources:        []string{"bundled_catalog"},
		FallbackUsed:   true,
		ProviderStatus: r.provider.Status(),
	})

	log.Warn("recommend: alternative scorer engaged",
		zap.Int("ranked", len(result.Rankings)),
		zap.Float64("confidence", result.Confidence.Score),
	)
	return result
}
