// Package confidence grades how much a scoring result should be trusted,
// from data completeness, source diversity, and provider reliability.
package confidence

import (
	"github.com/exportdesk/advisor-cli/internal/model"
)

// Context selects which signal set counts as required for completeness.
type Context string

const (
	ContextRecommend Context = "recommend"
	ContextSimulate  Context = "simulate"
	ContextMatch     Context = "match"
)

// requiredFields lists the signals each decision context needs at full
// strength. Fields outside the context's list lower coverage reporting but
// never the confidence score.
var requiredFields = map[Context][]string{
	ContextRecommend: {"export_score", "gdp_usd", "gdp_growth_pct", "trend_count", "fraud_cases"},
	ContextSimulate:  {"export_score", "gdp_usd", "news_sentiment", "trend_count"},
	ContextMatch:     {"hs_code", "price_range", "order_qty"},
}

const (
	weightCompleteness = 0.5
	weightDiversity    = 0.3
	weightReliability  = 0.2

	diversityTarget = 4
	diversityFloor  = 0.2

	fallbackFactor    = 0.5
	unavailableFactor = 0.7

	minScore = 0.1
	maxScore = 1.0
)

// Input carries everything the calculator needs about one request.
type Input struct {
	Context        Context
	MissingFields  []string
	Methods        map[string]string
	Sources        []string
	FallbackUsed   bool
	ProviderStatus model.ProviderStatus
}

// Report is the self-assessment attached to every scoring result.
type Report struct {
	Score          float64              `json:"score"`
	Level          string               `json:"level"`
	Interpretation string               `json:"interpretation"`
	Warning        string               `json:"warning,omitempty"`
	MissingFields  []string             `json:"missing_fields,omitempty"`
	Methods        map[string]string    `json:"imputation_methods,omitempty"`
	FallbackUsed   bool                 `json:"fallback_used"`
	ProviderStatus model.ProviderStatus `json:"provider_status"`
	Sources        []string             `json:"sources,omitempty"`
}

// Calculate is pure and deterministic: the same input always yields the
// same report.
func Calculate(in Input) Report {
	required := requiredFields[in.Context]

	completeness := 1.0
	if len(required) > 0 {
		missing := 0
		for _, f := range required {
			if contains(in.MissingFields, f) {
				missing++
			}
		}
		completeness = 1.0 - float64(missing)/float64(len(required))
	}

	diversity := diversityFloor
	if n := len(in.Sources); n > 0 {
		diversity = float64(n) / diversityTarget
		if diversity > 1 {
			diversity = 1
		}
	}

	reliability := 1.0
	if in.FallbackUsed {
		reliability *= fallbackFactor
	}
	if in.ProviderStatus == model.ProviderUnavailable {
		reliability *= unavailableFactor
	}

	score := weightCompleteness*completeness +
		weightDiversity*diversity +
		weightReliability*reliability
	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}
	score = model.Round2(score)

	level, interp := band(score)

	r := Report{
		Score:          score,
		Level:          level,
		Interpretation: interp,
		MissingFields:  in.MissingFields,
		Methods:        in.Methods,
		FallbackUsed:   in.FallbackUsed,
		ProviderStatus: in.ProviderStatus,
		Sources:        in.Sources,
	}
	switch {
	case score < 0.3:
		r.Warning = "confidence very low: do not act on this result without manual review"
	case score < 0.5:
		r.Warning = "confidence below 0.5: verify key figures before acting"
	}
	return r
}

// RequiredFields exposes a context's required-signal list for coverage
// reporting.
func RequiredFields(ctx Context) []string {
	fields := requiredFields[ctx]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

func band(score float64) (level, interpretation string) {
	switch {
	case score >= 0.9:
		return "very_high", "high-quality data from multiple sources"
	case score >= 0.7:
		return "high", "reliable data with minor gaps"
	case score >= 0.5:
		return "moderate", "usable, but verify key figures independently"
	case score >= 0.3:
		return "low", "significant data gaps; treat as directional only"
	default:
		return "very_low", "insufficient data; manual review required"
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
