package model

import (
	"math"
	"sort"
)

// MarketSignals is the raw indicator bag fetched for one candidate country.
// Absent signals are nil pointers, never zero values: the scoring pipeline
// distinguishes "not reported" from "reported as zero".
type MarketSignals struct {
	ExportScore    *float64 `json:"export_score,omitempty"` // ML propensity, 0-5 scale
	GDPUSD         *float64 `json:"gdp_usd,omitempty"`
	GDPYear        int      `json:"gdp_year,omitempty"`
	GrowthPct      *float64 `json:"growth_pct,omitempty"`
	GrowthYear     int      `json:"growth_year,omitempty"`
	InflationPct   *float64 `json:"inflation_pct,omitempty"`
	RiskGrade      string   `json:"risk_grade,omitempty"` // A-E, "" when absent
	MarketDesc     string   `json:"market_desc,omitempty"`
	PromisingItems []string `json:"promising_items,omitempty"`
	TrendCount     *int     `json:"trend_count,omitempty"`
	NewsSentiment  *float64 `json:"news_sentiment,omitempty"` // -1..1
}

// Candidate is one entity flowing through a scoring request. It is built
// per request, scored once, and discarded (or written into the cache as a
// CountryScore). Excluded candidates keep their reason and are never ranked.
type Candidate struct {
	ID              string         `json:"id"`
	Country         string         `json:"country"` // ISO 3166-1 alpha-2
	Name            string         `json:"name"`
	Signals         *MarketSignals `json:"signals,omitempty"`
	Score           float64        `json:"score"`
	Breakdown       Breakdown      `json:"breakdown,omitempty"`
	Excluded        bool           `json:"excluded,omitempty"`
	ExclusionReason string         `json:"exclusion_reason,omitempty"`
	Warnings        []string       `json:"warnings,omitempty"`
	Source          string         `json:"source,omitempty"` // live | cache | alternative
}

// Contribution is one signed component of a composite score.
type Contribution struct {
	Component string  `json:"component"`
	Points    float64 `json:"points"`
}

// Breakdown is the ordered list of score contributions. Order is the order
// components were applied, so reports read the same way the score was built.
type Breakdown []Contribution

// Add appends a contribution and returns the extended breakdown.
func (b Breakdown) Add(component string, points float64) Breakdown {
	return append(b, Contribution{Component: component, Points: points})
}

// Total sums all contributions.
func (b Breakdown) Total() float64 {
	var t float64
	for _, c := range b {
		t += c.Points
	}
	return t
}

// Get returns the points for a named component and whether it is present.
func (b Breakdown) Get(component string) (float64, bool) {
	for _, c := range b {
		if c.Component == component {
			return c.Points, true
		}
	}
	return 0, false
}

// CountryScore is the serializable ranked-output row, also the cache payload
// element. Kept flat so a cache round-trip is loss-free.
type CountryScore struct {
	Rank       int       `json:"rank"`
	Country    string    `json:"country"`
	Name       string    `json:"name"`
	Score      float64   `json:"score"` // 0..1
	Breakdown  Breakdown `json:"breakdown,omitempty"`
	Warnings   []string  `json:"warnings,omitempty"`
	Source     string    `json:"source"`
	RiskGrade  string    `json:"risk_grade,omitempty"`
	MarketDesc string    `json:"market_desc,omitempty"`
}

// Exclusion records one candidate removed before or during scoring.
type Exclusion struct {
	Country string `json:"country"`
	Reason  string `json:"reason"`
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Round2 rounds to 2 decimal places for reported scores.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SortCandidates orders by descending score with the country code as the
// tie-breaker, so a fixed input snapshot always ranks identically no matter
// how the fetch fan-out interleaved.
func SortCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].Country < cands[j].Country
	})
}
