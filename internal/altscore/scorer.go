// Package altscore ranks destinations from the bundled market parameters.
// It is the last tier of the degradation ladder: always available, clearly
// labeled, and deliberately simple.
package altscore

import (
	"strings"

	"go.uber.org/zap"

	"github.com/exportdesk/advisor-cli/internal/compliance"
	"github.com/exportdesk/advisor-cli/internal/dataset"
	"github.com/exportdesk/advisor-cli/internal/model"
	"github.com/exportdesk/advisor-cli/internal/scoring"
)

// Source labels every ranking produced here so downstream consumers and
// reports can tell fallback data from live data.
const Source = "alternative"

// Scorer ranks the bundled catalog. Stateless between calls.
type Scorer struct {
	catalog *dataset.Catalog
	gate    *compliance.Gate
	engine  *scoring.Engine
}

func New(catalog *dataset.Catalog, gate *compliance.Gate) *Scorer {
	return &Scorer{
		catalog: catalog,
		gate:    gate,
		engine:  scoring.NewEngine(scoring.MarketParamFields()),
	}
}

// Rank scores every non-blocked country in the catalog and returns the top
// rows, best first. A non-positive limit returns all. Deterministic for a
// fixed catalog.
func (s *Scorer) Rank(limit int) []model.CountryScore {
	markets := s.catalog.Markets()

	items := make([]scoring.Item, 0, len(markets))
	kept := make([]dataset.MarketParams, 0, len(markets))
	warnings := make(map[string]string, len(markets))
	for _, m := range markets {
		verdict := s.gate.Check(m.Country)
		if verdict.Status == compliance.StatusBlocked {
			zap.L().Debug("altscore: destination blocked",
				zap.String("country", m.Country),
				zap.String("reason", verdict.Reason))
			continue
		}
		if verdict.Warning != "" {
			warnings[m.Country] = verdict.Warning
		}

		gdp := m.GDPUSD
		growth := m.ImportGrowthPct
		tier := riskTier(m.RiskGrade)
		items = append(items, scoring.Item{
			ID: m.Country,
			Bag: scoring.Bag{
				"market_size_usd":   &gdp,
				"import_growth_pct": &growth,
				"risk_tier":         &tier,
			},
		})
		kept = append(kept, m)
	}

	scored := s.engine.ScoreBatch(items)

	out := make([]model.CountryScore, 0, len(scored))
	for i, sc := range scored {
		if sc.Excluded {
			zap.L().Debug("altscore: destination excluded",
				zap.String("country", sc.ID),
				zap.String("reason", sc.ExclusionReason))
			continue
		}
		row := model.CountryScore{
			Country:   kept[i].Country,
			Name:      kept[i].Name,
			Score:     model.Round2(sc.Score),
			Breakdown: sc.Components,
			Source:    Source,
			RiskGrade: kept[i].RiskGrade,
		}
		if w, ok := warnings[kept[i].Country]; ok {
			row.Warnings = append(row.Warnings, w)
		}
		out = append(out, row)
	}

	sortRows(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func sortRows(rows []model.CountryScore) {
	// Simple insertion sort is fine for catalog-sized result sets.
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && rowLess(rows[j], rows[j-1]); j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
}

func rowLess(a, b model.CountryScore) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Country < b.Country
}

// riskTier maps an insurer grade to its scoring weight.
func riskTier(grade string) float64 {
	switch strings.ToUpper(strings.TrimSpace(grade)) {
	case "A":
		return 1.0
	case "B":
		return 0.75
	case "C":
		return 0.5
	case "D":
		return 0.25
	case "E":
		return 0.1
	default:
		return 0.5
	}
}
