// Package scoring converts heterogeneous raw indicators into bounded [0,1]
// sub-scores and combines them under a fixed weight vector. The two-tier
// missing-data policy is the load-bearing invariant here: candidates
// missing a required field are excluded outright with a reason, candidates
// missing an optional field lose that field's contribution with no weight
// redistribution, so partial data can never outscore complete data.
package scoring

import "math"

// Strategy selects how a raw indicator maps onto [0,1].
type Strategy string

const (
	// StrategyLogMinMax rescales ln(x) across the valid values observed in
	// the current batch. Suits magnitudes spanning orders of magnitude.
	StrategyLogMinMax Strategy = "log_minmax"
	// StrategyClipLinear clips into a fixed per-indicator range and maps
	// linearly. Suits rates with natural bounds.
	StrategyClipLinear Strategy = "clip_linear"
)

// ClipLinear maps x into [0,1] linearly after clipping to [lo, hi].
func ClipLinear(x, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	if x < lo {
		x = lo
	}
	if x > hi {
		x = hi
	}
	return (x - lo) / (hi - lo)
}

// LogRange holds the batch-wide ln-scale bounds for one log-min-max field.
// Zero-valued LogRange (no valid observations) normalizes everything to 0.5.
type LogRange struct {
	lnMin float64
	lnMax float64
	valid bool
}

// NewLogRange computes ln-scale bounds over the positive values in the
// batch. Values <= 0 are invalid on a log scale and never influence the
// bounds.
func NewLogRange(values []float64) LogRange {
	var r LogRange
	for _, v := range values {
		if v <= 0 {
			continue
		}
		ln := math.Log(v)
		if !r.valid {
			r.lnMin, r.lnMax = ln, ln
			r.valid = true
			continue
		}
		if ln < r.lnMin {
			r.lnMin = ln
		}
		if ln > r.lnMax {
			r.lnMax = ln
		}
	}
	return r
}

// Norm maps one value onto [0,1] against the batch bounds. A degenerate
// batch (min == max, or no valid observations) normalizes to 0.5 so a
// single-candidate batch still scores mid-scale rather than at an extreme.
func (r LogRange) Norm(x float64) float64 {
	if x <= 0 {
		return 0
	}
	denom := r.lnMax - r.lnMin
	if !r.valid || denom == 0 {
		return 0.5
	}
	n := (math.Log(x) - r.lnMin) / denom
	return clamp01(n)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
