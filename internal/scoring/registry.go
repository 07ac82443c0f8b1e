package scoring

// FieldSpec declares how one indicator participates in a composite. The
// registry below is the single place the required-vs-optional split lives;
// orchestrators and the imputer both consult it rather than re-deriving the
// split per use case.
type FieldSpec struct {
	Name     string
	Required bool
	Strategy Strategy
	Weight   float64
	ClipLo   float64
	ClipHi   float64
	// Inverted flips a clip-linear norm (lower raw value = better).
	Inverted bool
}

// EconomicFields is the registry for the macro-indicator composite used by
// country recommendation: economic output dominates at 0.70, growth adds
// 0.30. Output is required and hard-excluding; growth soft-zeros.
func EconomicFields() []FieldSpec {
	return []FieldSpec{
		{
			Name:     "gdp_usd",
			Required: true,
			Strategy: StrategyLogMinMax,
			Weight:   0.70,
		},
		{
			Name:     "gdp_growth_pct",
			Strategy: StrategyClipLinear,
			Weight:   0.30,
			ClipLo:   -5,
			ClipHi:   10,
		},
	}
}

// MarketParamFields is the registry the alternative scorer applies to the
// bundled per-country market parameters when the provider and cache are
// both unavailable.
func MarketParamFields() []FieldSpec {
	return []FieldSpec{
		{
			Name:     "market_size_usd",
			Required: true,
			Strategy: StrategyLogMinMax,
			Weight:   0.45,
		},
		{
			Name:     "import_growth_pct",
			Strategy: StrategyClipLinear,
			Weight:   0.30,
			ClipLo:   -5,
			ClipHi:   15,
		},
		{
			Name:     "risk_tier",
			Strategy: StrategyClipLinear,
			Weight:   0.25,
			ClipLo:   0,
			ClipHi:   1,
		},
	}
}

// SimulationImputable lists the indicators the performance simulation may
// backfill from region averages before computing its factors. The batch
// composite above never imputes: soft-zeroing absent optional fields is
// what keeps partial data from outscoring complete data. A simulation
// scores one candidate in isolation, so soft-zeroing there would leave
// nothing to project from; the imputation is recorded and debited from
// confidence instead.
func SimulationImputable() []string {
	return []string{"gdp_usd", "gdp_growth_pct", "inflation_pct", "risk_grade"}
}

// RequiredFields returns the hard-excluding field names of a registry.
func RequiredFields(specs []FieldSpec) []string {
	var out []string
	for _, s := range specs {
		if s.Required {
			out = append(out, s.Name)
		}
	}
	return out
}
