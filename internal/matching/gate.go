package matching

import (
	"fmt"
	"math"
	"strings"
)

// Soft quantity-fit tiers. Deviation is the absolute difference over the
// mean of the two quantities, so the tiers read: within ~20% → 1.0, within
// ~2/3 → 0.7, within 3× → 0.4, beyond → 0.2.
const (
	devTight = 0.20
	devNear  = 0.50
	devFar   = 1.00
)

// gateReport is the outcome of the hard gates and the certification check
// for one candidate pair.
type gateReport struct {
	failures      []string
	missingCerts  []string
	softQty       float64
	requiredRatio float64
	preferredHits int
}

func (g gateReport) passed() bool {
	return len(g.failures) == 0 && len(g.missingCerts) == 0
}

// evaluateGates runs the hard pass/fail checks and the continuous
// compatibility sub-scores for one pair. Absent fields never fail a gate;
// only a declared constraint can.
func evaluateGates(p pair) gateReport {
	r := gateReport{
		softQty:       softQuantityScore(p.buyerQty, p.sellerMOQ),
		requiredRatio: 1,
	}

	if p.buyerQty > 0 && p.sellerCapacity > 0 && p.buyerQty > p.sellerCapacity {
		r.failures = append(r.failures, fmt.Sprintf(
			"requested quantity %d exceeds capacity %d", p.buyerQty, p.sellerCapacity))
	}
	if p.sellerMOV > 0 && p.buyerQty > 0 && p.sellerMidpoint > 0 {
		value := float64(p.buyerQty) * p.sellerMidpoint
		if value < p.sellerMOV {
			r.failures = append(r.failures, fmt.Sprintf(
				"order value $%.0f below the declared minimum $%.0f", value, p.sellerMOV))
		}
	}

	held := make(map[string]struct{}, len(p.sellerCerts))
	for _, c := range p.sellerCerts {
		held[certKey(c)] = struct{}{}
	}
	if n := len(p.requiredCerts); n > 0 {
		matched := 0
		for _, c := range p.requiredCerts {
			if _, ok := held[certKey(c)]; ok {
				matched++
				continue
			}
			r.missingCerts = append(r.missingCerts, c)
		}
		r.requiredRatio = float64(matched) / float64(n)
	}
	for _, c := range p.preferredCerts {
		if _, ok := held[certKey(c)]; ok {
			r.preferredHits++
		}
	}
	return r
}

// softQuantityScore grades how close the two sides' preferred quantities
// are. Either side missing yields the neutral 0.5.
func softQuantityScore(a, b int) float64 {
	if a <= 0 || b <= 0 {
		return 0.5
	}
	fa, fb := float64(a), float64(b)
	dev := math.Abs(fa-fb) / ((fa + fb) / 2)
	switch {
	case dev <= devTight:
		return 1.0
	case dev <= devNear:
		return 0.7
	case dev <= devFar:
		return 0.4
	default:
		return 0.2
	}
}

func certKey(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}
