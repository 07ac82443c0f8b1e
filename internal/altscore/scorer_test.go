package altscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportdesk/advisor-cli/internal/compliance"
	"github.com/exportdesk/advisor-cli/internal/dataset"
	"github.com/exportdesk/advisor-cli/internal/model"
)

// snapshotCatalog opens a catalog whose market table is replaced by the given
// rows, leaving every other bundled section in place.
func snapshotCatalog(t *testing.T, markets []dataset.MarketParams) *dataset.Catalog {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, dataset.WriteSnapshot(dir, dataset.MarketsFile, markets))
	return dataset.Open(dir)
}

func defaultGate() *compliance.Gate {
	return compliance.NewGateFromPolicy(compliance.DefaultPolicy())
}

func findRow(t *testing.T, rows []model.CountryScore, country string) model.CountryScore {
	t.Helper()
	for _, r := range rows {
		if r.Country == country {
			return r
		}
	}
	t.Fatalf("no row for %s", country)
	return model.CountryScore{}
}

func TestRank_Deterministic(t *testing.T) {
	t.Parallel()

	s := New(dataset.Default(), defaultGate())
	first := s.Rank(0)
	second := s.Rank(0)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestRank_SortedWithContiguousRanks(t *testing.T) {
	t.Parallel()

	rows := New(dataset.Default(), defaultGate()).Rank(0)
	require.Len(t, rows, len(dataset.Default().Markets()))

	for i, r := range rows {
		assert.Equal(t, i+1, r.Rank)
		assert.Equal(t, Source, r.Source)
		assert.NotEmpty(t, r.Breakdown)
		if i > 0 {
			assert.LessOrEqual(t, r.Score, rows[i-1].Score)
		}
	}
}

func TestRank_BlockedCountryNeverRanked(t *testing.T) {
	t.Parallel()

	catalog := snapshotCatalog(t, []dataset.MarketParams{
		{Country: "IR", Name: "Iran", GDPUSD: 0.40e12, ImportGrowthPct: 3.0, RiskGrade: "E"},
		{Country: "US", Name: "United States", GDPUSD: 27.4e12, ImportGrowthPct: 3.0, RiskGrade: "A"},
		{Country: "VN", Name: "Vietnam", GDPUSD: 0.43e12, ImportGrowthPct: 8.5, RiskGrade: "C"},
	})

	rows := New(catalog, defaultGate()).Rank(0)

	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.NotEqual(t, "IR", r.Country)
	}
}

func TestRank_RestrictedAndHighRiskCarryWarnings(t *testing.T) {
	t.Parallel()

	catalog := snapshotCatalog(t, []dataset.MarketParams{
		{Country: "RU", Name: "Russia", GDPUSD: 2.0e12, ImportGrowthPct: 1.0, RiskGrade: "D"},
		{Country: "NG", Name: "Nigeria", GDPUSD: 0.48e12, ImportGrowthPct: 3.1, RiskGrade: "D"},
		{Country: "JP", Name: "Japan", GDPUSD: 4.2e12, ImportGrowthPct: 1.2, RiskGrade: "A"},
	})

	rows := New(catalog, defaultGate()).Rank(0)
	require.Len(t, rows, 3)

	ru := findRow(t, rows, "RU")
	require.Len(t, ru.Warnings, 1)
	assert.Contains(t, ru.Warnings[0], "restricted destination")

	ng := findRow(t, rows, "NG")
	require.Len(t, ng.Warnings, 1)
	assert.Contains(t, ng.Warnings[0], "high-risk destination")

	assert.Empty(t, findRow(t, rows, "JP").Warnings)
}

func TestRank_RiskGradeSeparatesEqualMarkets(t *testing.T) {
	t.Parallel()

	catalog := snapshotCatalog(t, []dataset.MarketParams{
		{Country: "EE", Name: "Echo", GDPUSD: 1.0e12, ImportGrowthPct: 5.0, RiskGrade: "E"},
		{Country: "AA", Name: "Alpha", GDPUSD: 1.0e12, ImportGrowthPct: 5.0, RiskGrade: "A"},
	})

	rows := New(catalog, defaultGate()).Rank(0)
	require.Len(t, rows, 2)

	// Identical size and growth collapse to the same norms, so the risk tier
	// term alone separates them: 0.25*1.0 versus 0.25*0.1.
	assert.Equal(t, "AA", rows[0].Country)
	assert.Equal(t, "EE", rows[1].Country)
	assert.InDelta(t, 0.225, rows[0].Score-rows[1].Score, 0.011)

	tier, ok := rows[0].Breakdown.Get("risk_tier")
	require.True(t, ok)
	assert.InDelta(t, 0.25, tier, 0.0001)
}

func TestRank_TieBreaksOnCountryCode(t *testing.T) {
	t.Parallel()

	catalog := snapshotCatalog(t, []dataset.MarketParams{
		{Country: "CC", Name: "Gamma", GDPUSD: 1.0e12, ImportGrowthPct: 4.0, RiskGrade: "B"},
		{Country: "AA", Name: "Alpha", GDPUSD: 1.0e12, ImportGrowthPct: 4.0, RiskGrade: "B"},
		{Country: "BB", Name: "Beta", GDPUSD: 1.0e12, ImportGrowthPct: 4.0, RiskGrade: "B"},
	})

	rows := New(catalog, defaultGate()).Rank(0)
	require.Len(t, rows, 3)

	assert.Equal(t, "AA", rows[0].Country)
	assert.Equal(t, "BB", rows[1].Country)
	assert.Equal(t, "CC", rows[2].Country)
}

func TestRank_ZeroGDPExcluded(t *testing.T) {
	t.Parallel()

	catalog := snapshotCatalog(t, []dataset.MarketParams{
		{Country: "US", Name: "United States", GDPUSD: 27.4e12, ImportGrowthPct: 3.0, RiskGrade: "A"},
		{Country: "XX", Name: "Nowhere", GDPUSD: 0, ImportGrowthPct: 2.0, RiskGrade: "B"},
		{Country: "JP", Name: "Japan", GDPUSD: 4.2e12, ImportGrowthPct: 1.2, RiskGrade: "A"},
	})

	rows := New(catalog, defaultGate()).Rank(0)

	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.NotEqual(t, "XX", r.Country)
	}
}

func TestRank_LimitTruncates(t *testing.T) {
	t.Parallel()

	s := New(dataset.Default(), defaultGate())
	full := s.Rank(0)
	top := s.Rank(5)

	require.Len(t, top, 5)
	assert.Equal(t, full[:5], top)
}

func TestRiskTier(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"A":   1.0,
		"b":   0.75,
		" C ": 0.5,
		"d":   0.25,
		"E":   0.1,
		"":    0.5,
		"Z":   0.5,
	}
	for grade, want := range cases {
		assert.InDelta(t, want, riskTier(grade), 0.0001, "grade %q", grade)
	}
}
