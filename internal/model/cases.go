package model

// RankedScore is one row of a provider's export-propensity ranking.
// Score is the upstream ML score on a 0–5 scale.
type RankedScore struct {
	Rank    int     `json:"rank"`
	Country string  `json:"country"`
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
}

// Trend is a single market-trend topic reported for a category/country pair.
type Trend struct {
	Topic string `json:"topic"`
	Rank  int    `json:"rank"`
}

// FraudCase is one recorded trade-fraud incident tied to a destination
// country. Type uses snake_case keys (email_hacking, advance_fee, ...);
// unrecognized types are treated as "other".
type FraudCase struct {
	ID        string  `json:"id"`
	Country   string  `json:"country"`
	Type      string  `json:"type"`
	DamageUSD float64 `json:"damage_usd"`
	Year      int     `json:"year"`
	Summary   string  `json:"summary"`
}

// SuccessCase is a documented prior export success in a country/industry.
type SuccessCase struct {
	ID       string `json:"id"`
	Country  string `json:"country"`
	Industry string `json:"industry"`
	Year     int    `json:"year"`
	Summary  string `json:"summary"`
}
