// Package evidence converts fraud history and prior success cases into
// bounded score adjustments. Fraud contributes a capped penalty per
// destination; success cases contribute a best-single-case bonus, never a
// sum, so one strong precedent cannot be stacked into certainty.
package evidence

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/exportdesk/advisor-cli/internal/model"
)

// Params holds every tunable constant of the evidence scorer. Callers
// needing a different calibration build their own; DefaultParams is the
// shipped one.
type Params struct {
	// Damping divides a type's base severity before multiplying by the
	// case count, so repeated minor incidents accumulate slowly.
	Damping float64
	// Floor is the most negative total fraud penalty.
	Floor float64
	// MajorDamageUSD marks a single case as high-damage; each such case
	// adds MajorDamagePts on top of the type contribution.
	MajorDamageUSD float64
	MajorDamagePts float64
	// SuccessBase is the bonus for a perfect success-case match;
	// SuccessCap bounds the final bonus.
	SuccessBase float64
	SuccessCap  float64
	// TopCases limits how many of the most recent success cases are
	// considered.
	TopCases int
	// Severities maps fraud type keys to base penalties (negative).
	Severities map[string]float64
}

// DefaultParams returns the shipped calibration.
func DefaultParams() Params {
	return Params{
		Damping:        5,
		Floor:          -25,
		MajorDamageUSD: 100_000,
		MajorDamagePts: -5,
		SuccessBase:    15,
		SuccessCap:     15,
		TopCases:       5,
		Severities: map[string]float64{
			"email_hacking":   -20,
			"advance_fee":     -18,
			"forged_docs":     -15,
			"impersonation":   -15,
			"quality_dispute": -12,
			"logistics":       -12,
			"forged_certs":    -10,
			"other":           -8,
		},
	}
}

// Scorer computes fraud penalties and success bonuses. Stateless between
// calls; safe for concurrent use.
type Scorer struct {
	params Params
	now    func() time.Time
}

func NewScorer(params Params) *Scorer {
	if params.Damping == 0 {
		params.Damping = 1
	}
	return &Scorer{params: params, now: time.Now}
}

// FraudPenalty returns a value in [Floor, 0]. Cases are grouped by type;
// each group contributes severity/damping × count, and every case at or
// above the damage threshold adds the major-damage penalty.
func (s *Scorer) FraudPenalty(cases []model.FraudCase) float64 {
	if len(cases) == 0 {
		return 0
	}

	counts := make(map[string]int, len(cases))
	total := 0.0
	for _, c := range cases {
		counts[typeKey(c.Type)]++
		if c.DamageUSD >= s.params.MajorDamageUSD {
			total += s.params.MajorDamagePts
		}
	}
	for typ, n := range counts {
		sev, ok := s.params.Severities[typ]
		if !ok {
			sev = s.params.Severities["other"]
		}
		total += sev / s.params.Damping * float64(n)
	}

	if total < s.params.Floor {
		zap.L().Debug("fraud penalty floored",
			zap.Float64("raw", total),
			zap.Int("cases", len(cases)))
		total = s.params.Floor
	}
	return total
}

// SuccessBonus returns the bonus in [0, SuccessCap] plus the summary of the
// case that produced it ("" when no case matched). Only the TopCases most
// recent cases are considered; a case in a different country contributes
// nothing.
func (s *Scorer) SuccessBonus(cases []model.SuccessCase, country, industry string) (float64, string) {
	if len(cases) == 0 {
		return 0, ""
	}

	sorted := make([]model.SuccessCase, len(cases))
	copy(sorted, cases)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year > sorted[j].Year })
	if len(sorted) > s.params.TopCases {
		sorted = sorted[:s.params.TopCases]
	}

	year := s.now().Year()
	best, note := 0.0, ""
	for _, c := range sorted {
		if !strings.EqualFold(c.Country, country) {
			continue
		}
		v := s.params.SuccessBase * topicSimilarity(c.Industry, industry) * recencyFactor(year-c.Year)
		if v > best {
			best, note = v, c.Summary
		}
	}
	if best > s.params.SuccessCap {
		best = s.params.SuccessCap
	}
	return best, note
}

// Fraud risk levels for reporting; tiers follow the recommendation
// penalty schedule.
const (
	RiskSafe   = "safe"
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// RiskLevel buckets a destination's total fraud-case count.
func RiskLevel(count int) string {
	switch {
	case count < 5:
		return RiskSafe
	case count < 10:
		return RiskLow
	case count < 20:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// CountPenalty is the flat recommendation penalty for a destination's
// fraud-case count.
func CountPenalty(count int) float64 {
	switch {
	case count < 5:
		return 0
	case count < 10:
		return -3
	case count < 20:
		return -7
	default:
		return -15
	}
}

func typeKey(t string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(t)), " ", "_")
}

// topicSimilarity grades how close two industry labels are: identical 1.0,
// overlapping 0.8, unrelated 0.6. Unknown labels count as unrelated rather
// than zero so an undocumented case still carries some weight.
func topicSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	switch {
	case a == "" || b == "":
		return 0.6
	case a == b:
		return 1.0
	case strings.Contains(a, b) || strings.Contains(b, a) || shareToken(a, b):
		return 0.8
	default:
		return 0.6
	}
}

func shareToken(a, b string) bool {
	seen := make(map[string]bool)
	for _, t := range strings.FieldsFunc(a, tokenSep) {
		seen[t] = true
	}
	for _, t := range strings.FieldsFunc(b, tokenSep) {
		if seen[t] {
			return true
		}
	}
	return false
}

func tokenSep(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '/'
}

func recencyFactor(ageYears int) float64 {
	switch {
	case ageYears <= 5:
		return 1.0
	case ageYears <= 10:
		return 0.6
	default:
		return 0.3
	}
}
