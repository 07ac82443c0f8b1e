package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClipLinear(t *testing.T) {
	t.Parallel()

	// (5.1 - (-5)) / (10 - (-5)) = 10.1/15 = 0.6733
	assert.InDelta(t, 0.6733, ClipLinear(5.1, -5, 10), 0.0001)

	// Above the upper bound clips to 1.0, never out of range.
	assert.InDelta(t, 1.0, ClipLinear(15, -5, 10), 0.0001)

	// Below the lower bound clips to 0.
	assert.InDelta(t, 0.0, ClipLinear(-9, -5, 10), 0.0001)

	// Degenerate range is neutral.
	assert.InDelta(t, 0.5, ClipLinear(3, 7, 7), 0.0001)
}

func TestLogRange_Norm(t *testing.T) {
	t.Parallel()

	r := NewLogRange([]float64{10, 100, 1000})

	// 100 sits at the geometric midpoint of [10, 1000].
	assert.InDelta(t, 0.5, r.Norm(100), 0.0001)
	assert.InDelta(t, 0.0, r.Norm(10), 0.0001)
	assert.InDelta(t, 1.0, r.Norm(1000), 0.0001)

	// Out-of-batch values clamp to the unit interval.
	assert.InDelta(t, 0.0, r.Norm(1), 0.0001)
	assert.InDelta(t, 1.0, r.Norm(5000), 0.0001)
}

func TestLogRange_IgnoresNonPositive(t *testing.T) {
	t.Parallel()

	// -50 and 0 are invalid on a log scale and must not define the bounds.
	r := NewLogRange([]float64{-50, 0, 10, 1000})
	assert.InDelta(t, 0.5, r.Norm(100), 0.0001)
	assert.InDelta(t, 0.0, r.Norm(-3), 0.0001)
}

func TestLogRange_DegenerateBatch(t *testing.T) {
	t.Parallel()

	// A single distinct valid value: everything normalizes to 0.5.
	r := NewLogRange([]float64{430e9, 430e9})
	assert.InDelta(t, 0.5, r.Norm(430e9), 0.0001)
	assert.InDelta(t, 0.5, r.Norm(1e6), 0.0001)

	// No valid values at all behaves the same.
	empty := NewLogRange(nil)
	assert.InDelta(t, 0.5, empty.Norm(7), 0.0001)
}
