package compliance

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Entry is one policy row for a country code.
type Entry struct {
	Reason  string  `yaml:"reason"`
	Penalty float64 `yaml:"penalty"`
}

// Policy is the three-section compliance document, keyed by upper-case
// ISO 3166-1 alpha-2 code.
type Policy struct {
	HardBlock  map[string]Entry `yaml:"hard_block"`
	Restricted map[string]Entry `yaml:"restricted"`
	HighRisk   map[string]Entry `yaml:"high_risk_warning"`
}

const (
	defaultRestrictedPenalty = -20
	defaultHighRiskPenalty   = -10
)

// DefaultPolicy is the built-in conservative list used whenever no policy
// file is available. It errs toward blocking: a stale hardcoded sanction
// list is safer than an empty one.
func DefaultPolicy() Policy {
	return Policy{
		HardBlock: map[string]Entry{
			"KP": {Reason: "comprehensive sanctions (UN Security Council)"},
			"SY": {Reason: "comprehensive sanctions"},
			"IR": {Reason: "comprehensive sanctions"},
			"CU": {Reason: "comprehensive embargo"},
		},
		Restricted: map[string]Entry{
			"RU": {Reason: "sectoral sanctions", Penalty: defaultRestrictedPenalty},
			"BY": {Reason: "sectoral sanctions", Penalty: defaultRestrictedPenalty},
			"VE": {Reason: "financial sanctions", Penalty: defaultRestrictedPenalty},
			"MM": {Reason: "arms embargo and targeted sanctions", Penalty: defaultRestrictedPenalty},
			"AF": {Reason: "targeted sanctions and payment risk", Penalty: defaultRestrictedPenalty},
		},
		HighRisk: map[string]Entry{
			"PK": {Reason: "elevated payment default risk", Penalty: defaultHighRiskPenalty},
			"NG": {Reason: "elevated trade fraud reports", Penalty: defaultHighRiskPenalty},
			"BD": {Reason: "currency transfer restrictions", Penalty: defaultHighRiskPenalty},
		},
	}
}

// loadPolicy reads the document at path, falling back to DefaultPolicy on
// any failure. The fallback is logged as a warning, never surfaced as an
// error (ConfigurationMissing is recoverable).
func loadPolicy(path string) Policy {
	if path == "" {
		zap.L().Warn("compliance: no policy file configured, using built-in defaults")
		return DefaultPolicy()
	}
	p, err := readPolicy(path)
	if err != nil {
		zap.L().Warn("compliance: policy file unusable, using built-in defaults",
			zap.String("path", path),
			zap.Error(err),
		)
		return DefaultPolicy()
	}
	return p
}

// readPolicy parses the YAML document and normalizes it: codes upper-cased,
// zero penalties raised to the section default (a restricted entry with no
// penalty would otherwise be indistinguishable from ok in scoring).
func readPolicy(path string) (Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, eris.Wrap(err, "compliance: read policy")
	}
	var p Policy
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Policy{}, eris.Wrap(err, "compliance: parse policy")
	}
	if len(p.HardBlock) == 0 && len(p.Restricted) == 0 && len(p.HighRisk) == 0 {
		return Policy{}, eris.New("compliance: policy has no entries")
	}
	p.HardBlock = normalizeSection(p.HardBlock, 0)
	p.Restricted = normalizeSection(p.Restricted, defaultRestrictedPenalty)
	p.HighRisk = normalizeSection(p.HighRisk, defaultHighRiskPenalty)
	return p, nil
}

func normalizeSection(in map[string]Entry, defaultPenalty float64) map[string]Entry {
	out := make(map[string]Entry, len(in))
	for code, e := range in {
		if e.Penalty == 0 {
			e.Penalty = defaultPenalty
		}
		out[strings.ToUpper(strings.TrimSpace(code))] = e
	}
	return out
}
