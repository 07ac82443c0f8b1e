package impute

import "strings"

// countryRegions maps ISO 3166-1 alpha-2 codes to the statistical region
// whose averages stand in for missing indicators. Not exhaustive; unmapped
// codes use the "default" row.
var countryRegions = map[string]string{
	// asia
	"CN": "asia", "JP": "asia", "KR": "asia", "IN": "asia", "VN": "asia",
	"TH": "asia", "ID": "asia", "MY": "asia", "PH": "asia", "SG": "asia",
	"TW": "asia", "HK": "asia", "BD": "asia", "PK": "asia", "LK": "asia",
	"KH": "asia", "MM": "asia",

	// europe
	"DE": "europe", "GB": "europe", "FR": "europe", "IT": "europe",
	"ES": "europe", "NL": "europe", "PL": "europe", "SE": "europe",
	"CH": "europe", "BE": "europe", "AT": "europe", "CZ": "europe",
	"PT": "europe", "GR": "europe", "HU": "europe", "RO": "europe",
	"DK": "europe", "FI": "europe", "NO": "europe", "IE": "europe",
	"RU": "europe", "TR": "europe", "UA": "europe",

	// americas
	"US": "americas", "CA": "americas", "MX": "americas", "BR": "americas",
	"AR": "americas", "CL": "americas", "CO": "americas", "PE": "americas",

	// middle_east
	"AE": "middle_east", "SA": "middle_east", "IL": "middle_east",
	"QA": "middle_east", "KW": "middle_east", "JO": "middle_east",
	"EG": "middle_east",

	// africa
	"ZA": "africa", "NG": "africa", "KE": "africa", "GH": "africa",
	"MA": "africa", "ET": "africa", "TZ": "africa",

	// oceania
	"AU": "oceania", "NZ": "oceania",
}

// RegionOf returns the statistical region for a country code, "default"
// when unmapped.
func RegionOf(countryCode string) string {
	if r, ok := countryRegions[strings.ToUpper(strings.TrimSpace(countryCode))]; ok {
		return r
	}
	return "default"
}

// regionNumerics holds per-region averages for the indicators the scoring
// pipeline consumes. Values are coarse multi-year averages; they only need
// to be plausible, the confidence report carries the caveat.
var regionNumerics = map[string]map[string]float64{
	"asia": {
		"gdp_usd":        1.2e12,
		"gdp_growth_pct": 4.2,
		"inflation_pct":  3.1,
	},
	"europe": {
		"gdp_usd":        9.0e11,
		"gdp_growth_pct": 1.8,
		"inflation_pct":  2.4,
	},
	"americas": {
		"gdp_usd":        1.1e12,
		"gdp_growth_pct": 2.1,
		"inflation_pct":  4.0,
	},
	"middle_east": {
		"gdp_usd":        4.5e11,
		"gdp_growth_pct": 2.8,
		"inflation_pct":  5.5,
	},
	"africa": {
		"gdp_usd":        2.2e11,
		"gdp_growth_pct": 3.5,
		"inflation_pct":  7.2,
	},
	"oceania": {
		"gdp_usd":        8.0e11,
		"gdp_growth_pct": 2.3,
		"inflation_pct":  2.9,
	},
	"default": {
		"gdp_usd":        5.0e11,
		"gdp_growth_pct": 2.5,
		"inflation_pct":  4.0,
	},
}

var regionCategoricals = map[string]map[string]string{
	"asia":        {"risk_grade": "C"},
	"europe":      {"risk_grade": "B"},
	"americas":    {"risk_grade": "B"},
	"middle_east": {"risk_grade": "C"},
	"africa":      {"risk_grade": "D"},
	"oceania":     {"risk_grade": "A"},
	"default":     {"risk_grade": "C"},
}

func regionNumericDefault(region, field string) (float64, bool) {
	if m, ok := regionNumerics[region]; ok {
		if v, ok := m[field]; ok {
			return v, true
		}
	}
	if m, ok := regionNumerics["default"]; ok {
		v, ok := m[field]
		return v, ok
	}
	return 0, false
}

func regionCategoricalDefault(region, field string) (string, bool) {
	if m, ok := regionCategoricals[region]; ok {
		if v, ok := m[field]; ok {
			return v, true
		}
	}
	if m, ok := regionCategoricals["default"]; ok {
		v, ok := m[field]
		return v, ok
	}
	return "", false
}
