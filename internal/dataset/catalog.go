// Package dataset bundles the static market catalogs the engine falls back
// to when live data is unavailable: per-country market parameters, the
// industry/HS-chapter map, partner profiles, and recorded fraud and success
// cases. Snapshot files written by `advisor datasets sync` overlay the
// bundled tables section by section at load time.
package dataset

import (
	"sort"
	"strings"

	"github.com/exportdesk/advisor-cli/internal/model"
)

// DefaultMarketRatio approximates an addressable import market as a share
// of GDP when no industry-specific ratio is known.
const DefaultMarketRatio = 0.001

// MarketParams are the per-country fundamentals the alternative scorer and
// the static provider run on.
type MarketParams struct {
	Country         string  `json:"country"`
	Name            string  `json:"name"`
	GDPUSD          float64 `json:"gdp_usd"`
	ImportGrowthPct float64 `json:"import_growth_pct"`
	RiskGrade       string  `json:"risk_grade"`
}

// Industry ties an industry key to its HS chapters, its addressable-market
// ratio, and the trend topics reported for it.
type Industry struct {
	Key         string   `json:"key"`
	HSChapters  []string `json:"hs_chapters"`
	MarketRatio float64  `json:"market_ratio"`
	Trends      []string `json:"trends,omitempty"`
}

// Catalog is an immutable snapshot of all bundled tables. Safe for
// concurrent readers.
type Catalog struct {
	markets    map[string]MarketParams
	industries map[string]Industry
	chapters   map[string]string // HS chapter → industry key
	sellers    []model.SellerProfile
	buyers     []model.BuyerProfile
	fraud      map[string][]model.FraudCase
	success    []model.SuccessCase
}

func newCatalog(
	markets []MarketParams,
	industries []Industry,
	sellers []model.SellerProfile,
	buyers []model.BuyerProfile,
	fraud []model.FraudCase,
	success []model.SuccessCase,
) *Catalog {
	c := &Catalog{
		markets:    make(map[string]MarketParams, len(markets)),
		industries: make(map[string]Industry, len(industries)),
		chapters:   make(map[string]string),
		sellers:    sellers,
		buyers:     buyers,
		fraud:      make(map[string][]model.FraudCase),
		success:    success,
	}
	for _, m := range markets {
		c.markets[strings.ToUpper(m.Country)] = m
	}
	for _, ind := range industries {
		c.industries[ind.Key] = ind
		for _, ch := range ind.HSChapters {
			c.chapters[ch] = ind.Key
		}
	}
	for _, fc := range fraud {
		key := strings.ToUpper(fc.Country)
		c.fraud[key] = append(c.fraud[key], fc)
	}
	return c
}

// Market looks up one country's parameters by ISO code.
func (c *Catalog) Market(country string) (MarketParams, bool) {
	m, ok := c.markets[strings.ToUpper(strings.TrimSpace(country))]
	return m, ok
}

// Markets returns all countries sorted by code.
func (c *Catalog) Markets() []MarketParams {
	out := make([]MarketParams, 0, len(c.markets))
	for _, m := range c.markets {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out
}

// IndustryByKey looks up an industry by its key.
func (c *Catalog) IndustryByKey(key string) (Industry, bool) {
	ind, ok := c.industries[strings.ToLower(strings.TrimSpace(key))]
	return ind, ok
}

// IndustryForHS resolves an HS code (any length ≥ 2) to its industry via
// the chapter prefix.
func (c *Catalog) IndustryForHS(hsCode string) (Industry, bool) {
	code := strings.TrimSpace(hsCode)
	if len(code) < 2 {
		return Industry{}, false
	}
	key, ok := c.chapters[code[:2]]
	if !ok {
		return Industry{}, false
	}
	return c.industries[key], true
}

// MarketSizeUSD estimates the addressable import market for an industry in
// a country as GDP × the industry's market ratio. The industry key may be
// empty or unknown, in which case the default ratio applies. Returns false
// only when the country itself is unknown.
func (c *Catalog) MarketSizeUSD(country, industryKey string) (float64, bool) {
	m, ok := c.Market(country)
	if !ok {
		return 0, false
	}
	ratio := DefaultMarketRatio
	if ind, ok := c.IndustryByKey(industryKey); ok && ind.MarketRatio > 0 {
		ratio = ind.MarketRatio
	}
	return m.GDPUSD * ratio, true
}

// Sellers returns a copy of the seller catalog.
func (c *Catalog) Sellers() []model.SellerProfile {
	out := make([]model.SellerProfile, len(c.sellers))
	copy(out, c.sellers)
	return out
}

// Buyers returns a copy of the buyer catalog.
func (c *Catalog) Buyers() []model.BuyerProfile {
	out := make([]model.BuyerProfile, len(c.buyers))
	copy(out, c.buyers)
	return out
}

// FraudCases returns the recorded incidents for a country, most recent
// first. Unknown countries yield an empty slice.
func (c *Catalog) FraudCases(country string) []model.FraudCase {
	cases := c.fraud[strings.ToUpper(strings.TrimSpace(country))]
	out := make([]model.FraudCase, len(cases))
	copy(out, cases)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

// SuccessCases returns recorded successes for a country. Industry
// relevance is graded downstream, so no industry filter is applied here.
func (c *Catalog) SuccessCases(country string) []model.SuccessCase {
	var out []model.SuccessCase
	for _, sc := range c.success {
		if strings.EqualFold(sc.Country, country) {
			out = append(out, sc)
		}
	}
	return out
}

// TrendTopics returns the trend topics for an HS code's industry.
func (c *Catalog) TrendTopics(hsCode string) []model.Trend {
	ind, ok := c.IndustryForHS(hsCode)
	if !ok || len(ind.Trends) == 0 {
		return nil
	}
	out := make([]model.Trend, len(ind.Trends))
	for i, topic := range ind.Trends {
		out[i] = model.Trend{Topic: topic, Rank: i + 1}
	}
	return out
}
