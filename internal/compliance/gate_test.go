package compliance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_CheckDefaults(t *testing.T) {
	t.Parallel()

	g := NewGateFromPolicy(DefaultPolicy())

	v := g.Check("KP")
	assert.Equal(t, StatusBlocked, v.Status)
	assert.NotEmpty(t, v.Reason)

	v = g.Check("RU")
	assert.Equal(t, StatusRestricted, v.Status)
	assert.Negative(t, v.Penalty)
	assert.NotEmpty(t, v.Warning)

	// High-risk stays ok but carries penalty and warning.
	v = g.Check("NG")
	assert.Equal(t, StatusOK, v.Status)
	assert.InDelta(t, -10, v.Penalty, 0.0001)
	assert.NotEmpty(t, v.Warning)

	// Unknown codes are ok with no penalty.
	v = g.Check("US")
	assert.Equal(t, StatusOK, v.Status)
	assert.Zero(t, v.Penalty)
	assert.Empty(t, v.Warning)
}

func TestGate_CheckNormalizesCode(t *testing.T) {
	t.Parallel()

	g := NewGateFromPolicy(DefaultPolicy())
	v := g.Check(" kp ")
	assert.Equal(t, "KP", v.Country)
	assert.Equal(t, StatusBlocked, v.Status)
}

func TestGate_FilterCandidates(t *testing.T) {
	t.Parallel()

	g := NewGateFromPolicy(DefaultPolicy())
	allowed, excluded := g.FilterCandidates([]string{"US", "KP", "VN", "IR", "RU"})

	// Blocked codes are removed, restricted ones survive.
	assert.Equal(t, []string{"US", "VN", "RU"}, allowed)
	require.Len(t, excluded, 2)
	assert.Equal(t, "KP", excluded[0].Country)
	assert.NotEmpty(t, excluded[0].Reason)
	assert.Equal(t, "IR", excluded[1].Country)
}

func TestNewGate_MissingFileFallsBack(t *testing.T) {
	t.Parallel()

	g := NewGate(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, StatusBlocked, g.Check("KP").Status)
}

func TestNewGate_LoadsFileAndDefaultsPenalties(t *testing.T) {
	t.Parallel()

	doc := `
hard_block:
  XX: {reason: "test embargo"}
restricted:
  YY: {reason: "test restriction"}
high_risk_warning:
  ZZ: {reason: "test warning", penalty: -4}
`
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	g := NewGate(path)

	assert.Equal(t, StatusBlocked, g.Check("XX").Status)

	// Restricted entry without an explicit penalty gets the section default.
	v := g.Check("YY")
	assert.Equal(t, StatusRestricted, v.Status)
	assert.InDelta(t, -20, v.Penalty, 0.0001)

	v = g.Check("ZZ")
	assert.Equal(t, StatusOK, v.Status)
	assert.InDelta(t, -4, v.Penalty, 0.0001)

	// A loaded file replaces the defaults entirely.
	assert.Equal(t, StatusOK, g.Check("KP").Status)
}

func TestNewGate_CorruptFileFallsBack(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	g := NewGate(path)
	assert.Equal(t, StatusBlocked, g.Check("IR").Status)
}

func TestGate_Reload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hard_block:\n  AA: {reason: one}\n"), 0o644))

	g := NewGate(path)
	assert.Equal(t, StatusBlocked, g.Check("AA").Status)
	assert.Equal(t, StatusOK, g.Check("BB").Status)

	require.NoError(t, os.WriteFile(path, []byte("hard_block:\n  BB: {reason: two}\n"), 0o644))
	g.Reload()

	assert.Equal(t, StatusOK, g.Check("AA").Status)
	assert.Equal(t, StatusBlocked, g.Check("BB").Status)

	// A reload that fails keeps the active policy.
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	g.Reload()
	assert.Equal(t, StatusBlocked, g.Check("BB").Status)
}
