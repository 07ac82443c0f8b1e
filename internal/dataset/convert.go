package dataset

import (
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/exportdesk/advisor-cli/internal/fetcher"
)

// Snapshot sync accepts the formats reference publishers actually ship:
// JSON documents matching the snapshot normal form directly, and tabular
// CSV/XLSX/XML feeds for the market-parameter table, converted here.

// marketXML mirrors one <market> element of an XML market feed.
type marketXML struct {
	Country         string  `xml:"country"`
	Name            string  `xml:"name"`
	GDPUSD          float64 `xml:"gdp_usd"`
	ImportGrowthPct float64 `xml:"import_growth_pct"`
	RiskGrade       string  `xml:"risk_grade"`
}

// MarketsFromTable converts a header-keyed table (columns country, name,
// gdp_usd, import_growth_pct, risk_grade) into market parameter rows. Rows
// with a missing country or an unparseable GDP are skipped with an error
// naming the row, never silently.
func MarketsFromTable(t fetcher.Table) ([]MarketParams, error) {
	out := make([]MarketParams, 0, len(t))
	for i, row := range t {
		country := strings.ToUpper(row.Get("country"))
		if country == "" {
			return nil, eris.Errorf("dataset: markets row %d has no country", i+1)
		}
		gdp, err := strconv.ParseFloat(row.Get("gdp_usd"), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: markets row %d (%s) gdp_usd", i+1, country)
		}
		growth := 0.0
		if g := row.Get("import_growth_pct"); g != "" {
			growth, err = strconv.ParseFloat(g, 64)
			if err != nil {
				return nil, eris.Wrapf(err, "dataset: markets row %d (%s) import_growth_pct", i+1, country)
			}
		}
		out = append(out, MarketParams{
			Country:         country,
			Name:            row.Get("name"),
			GDPUSD:          gdp,
			ImportGrowthPct: growth,
			RiskGrade:       strings.ToUpper(row.Get("risk_grade")),
		})
	}
	return out, nil
}

// MarketsFromXML converts an XML market feed (<market> elements) into
// market parameter rows.
func MarketsFromXML(items []marketXML) []MarketParams {
	out := make([]MarketParams, 0, len(items))
	for _, m := range items {
		out = append(out, MarketParams{
			Country:         strings.ToUpper(strings.TrimSpace(m.Country)),
			Name:            strings.TrimSpace(m.Name),
			GDPUSD:          m.GDPUSD,
			ImportGrowthPct: m.ImportGrowthPct,
			RiskGrade:       strings.ToUpper(strings.TrimSpace(m.RiskGrade)),
		})
	}
	return out
}

// DecodeMarketsXML reads a full XML market feed.
func DecodeMarketsXML(r io.Reader) ([]MarketParams, error) {
	items, err := fetcher.DecodeXML[marketXML](r, "market")
	if err != nil {
		return nil, err
	}
	return MarketsFromXML(items), nil
}

// marketYAML mirrors one row of a YAML market feed.
type marketYAML struct {
	Country         string  `yaml:"country"`
	Name            string  `yaml:"name"`
	GDPUSD          float64 `yaml:"gdp_usd"`
	ImportGrowthPct float64 `yaml:"import_growth_pct"`
	RiskGrade       string  `yaml:"risk_grade"`
}

// DecodeMarketsYAML reads a YAML market feed: a sequence of market rows.
func DecodeMarketsYAML(r io.Reader) ([]MarketParams, error) {
	var items []marketYAML
	if err := yaml.NewDecoder(r).Decode(&items); err != nil {
		return nil, eris.Wrap(err, "dataset: decode yaml markets")
	}

	out := make([]MarketParams, 0, len(items))
	for _, m := range items {
		out = append(out, MarketParams{
			Country:         strings.ToUpper(strings.TrimSpace(m.Country)),
			Name:            strings.TrimSpace(m.Name),
			GDPUSD:          m.GDPUSD,
			ImportGrowthPct: m.ImportGrowthPct,
			RiskGrade:       strings.ToUpper(strings.TrimSpace(m.RiskGrade)),
		})
	}
	return out, nil
}
