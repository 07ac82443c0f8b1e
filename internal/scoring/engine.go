package scoring

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/exportdesk/advisor-cli/internal/model"
)

// Bag is the raw indicator bag for one candidate: field name → value, nil
// when the upstream signal was absent.
type Bag map[string]*float64

// Item pairs a candidate identifier with its indicator bag.
type Item struct {
	ID  string
	Bag Bag
}

// Scored is the engine output for one item, in input order. Excluded items
// carry a reason and no score.
type Scored struct {
	ID              string
	Score           float64
	Components      model.Breakdown
	Norms           map[string]float64
	Excluded        bool
	ExclusionReason string
	Warnings        []string
}

// Engine scores batches of indicator bags against a field registry.
type Engine struct {
	specs []FieldSpec
}

// NewEngine builds an engine over the given field specs. The specs are the
// single source of truth for which fields are required (hard-excluding)
// versus optional (soft-zero).
func NewEngine(specs []FieldSpec) *Engine {
	return &Engine{specs: specs}
}

// ScoreBatch normalizes and weights every item's indicators.
//
// Pass 1 validates required fields and collects the valid observations that
// define each log-min-max range: excluded candidates never influence the
// batch bounds. Pass 2 normalizes, weights, and sums. A missing or invalid
// optional field contributes nothing — its weight is not redistributed.
// Results come back in input order; ranking is the caller's concern.
func (e *Engine) ScoreBatch(items []Item) []Scored {
	out := make([]Scored, len(items))

	for i, it := range items {
		out[i] = Scored{ID: it.ID}
		if reason := e.checkRequired(it.Bag); reason != "" {
			out[i].Excluded = true
			out[i].ExclusionReason = reason
		}
	}

	ranges := make(map[string]LogRange, len(e.specs))
	for _, spec := range e.specs {
		if spec.Strategy != StrategyLogMinMax {
			continue
		}
		var vals []float64
		for i, it := range items {
			if out[i].Excluded {
				continue
			}
			if v := it.Bag[spec.Name]; v != nil && *v > 0 {
				vals = append(vals, *v)
			}
		}
		ranges[spec.Name] = NewLogRange(vals)
	}

	excluded := 0
	for i, it := range items {
		if out[i].Excluded {
			excluded++
			continue
		}
		e.scoreOne(it, &out[i], ranges)
	}

	if excluded > 0 {
		zap.L().Debug("scoring: batch had exclusions",
			zap.Int("items", len(items)),
			zap.Int("excluded", excluded),
		)
	}
	return out
}

// scoreOne fills in the score and breakdown for a single non-excluded item.
func (e *Engine) scoreOne(it Item, s *Scored, ranges map[string]LogRange) {
	s.Norms = make(map[string]float64, len(e.specs))
	var sum float64
	for _, spec := range e.specs {
		v := it.Bag[spec.Name]
		if v == nil {
			// Soft-zero: the field simply does not contribute.
			continue
		}
		var norm float64
		switch spec.Strategy {
		case StrategyLogMinMax:
			if *v <= 0 {
				// Invalid on a log scale; optional fields degrade to absent.
				s.Warnings = append(s.Warnings,
					fmt.Sprintf("%s invalid for log scale (%g), ignored", spec.Name, *v))
				continue
			}
			norm = ranges[spec.Name].Norm(*v)
		case StrategyClipLinear:
			norm = ClipLinear(*v, spec.ClipLo, spec.ClipHi)
			if spec.Inverted {
				norm = 1 - norm
			}
		default:
			continue
		}
		s.Norms[spec.Name] = norm
		contribution := spec.Weight * norm
		s.Components = s.Components.Add(spec.Name, contribution)
		sum += contribution
	}
	s.Score = math.Max(0, sum)
}

// checkRequired returns a machine-readable exclusion reason, or "" when all
// required fields are present and valid.
func (e *Engine) checkRequired(bag Bag) string {
	for _, spec := range e.specs {
		if !spec.Required {
			continue
		}
		v := bag[spec.Name]
		if v == nil {
			return spec.Name + " missing"
		}
		if spec.Strategy == StrategyLogMinMax && *v <= 0 {
			return fmt.Sprintf("%s anomaly (%g)", spec.Name, *v)
		}
	}
	return ""
}
