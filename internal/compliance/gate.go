// Package compliance classifies destination countries against export-control
// policy before any scoring happens. Blocked countries never reach a ranked
// output; restricted ones are scored with a penalty and a warning attached.
package compliance

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Status is the compliance classification of a country code.
type Status string

const (
	StatusOK         Status = "ok"
	StatusRestricted Status = "restricted"
	StatusBlocked    Status = "blocked"
)

// Verdict is the result of checking one country code.
type Verdict struct {
	Country string  `json:"country"`
	Status  Status  `json:"status"`
	Reason  string  `json:"reason,omitempty"`
	Penalty float64 `json:"penalty,omitempty"`
	Warning string  `json:"warning,omitempty"`
}

// Exclusion records a country removed by FilterCandidates.
type Exclusion struct {
	Country string `json:"country"`
	Reason  string `json:"reason"`
}

// Gate evaluates country codes against the loaded policy. Safe for
// concurrent Check/FilterCandidates with Reload.
type Gate struct {
	mu     sync.RWMutex
	policy Policy
	path   string
}

// NewGate loads the policy document at path. A missing or unreadable file
// falls back to the built-in conservative defaults: classification must
// fail safe, not fail open.
func NewGate(path string) *Gate {
	g := &Gate{path: path}
	g.policy = loadPolicy(path)
	return g
}

// NewGateFromPolicy builds a gate around an already-constructed policy.
// Used by tests and by callers that manage policy documents themselves.
func NewGateFromPolicy(p Policy) *Gate {
	return &Gate{policy: p}
}

// Reload re-reads the policy file. On failure the previous policy stays
// active.
func (g *Gate) Reload() {
	if g.path == "" {
		return
	}
	p, err := readPolicy(g.path)
	if err != nil {
		zap.L().Warn("compliance: reload failed, keeping active policy",
			zap.String("path", g.path),
			zap.Error(err),
		)
		return
	}
	g.mu.Lock()
	g.policy = p
	g.mu.Unlock()
	zap.L().Info("compliance: policy reloaded",
		zap.Int("blocked", len(p.HardBlock)),
		zap.Int("restricted", len(p.Restricted)),
	)
}

// Check classifies a single country code. Unknown codes are ok: the gate
// only ever narrows the candidate set, it never invents risk.
func (g *Gate) Check(countryCode string) Verdict {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	v := Verdict{Country: code, Status: StatusOK}
	if code == "" {
		return v
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if e, ok := g.policy.HardBlock[code]; ok {
		v.Status = StatusBlocked
		v.Reason = e.Reason
		return v
	}
	if e, ok := g.policy.Restricted[code]; ok {
		v.Status = StatusRestricted
		v.Reason = e.Reason
		v.Penalty = e.Penalty
		v.Warning = "restricted destination: " + e.Reason
		return v
	}
	if e, ok := g.policy.HighRisk[code]; ok {
		// Status stays ok; the candidate is scored with a penalty and a
		// warning rather than being set aside.
		v.Penalty = e.Penalty
		v.Warning = "high-risk destination: " + e.Reason
	}
	return v
}

// FilterCandidates removes blocked codes and returns the surviving list in
// input order plus one Exclusion per removed code.
func (g *Gate) FilterCandidates(codes []string) ([]string, []Exclusion) {
	allowed := make([]string, 0, len(codes))
	var excluded []Exclusion
	for _, c := range codes {
		v := g.Check(c)
		if v.Status == StatusBlocked {
			excluded = append(excluded, Exclusion{Country: v.Country, Reason: v.Reason})
			continue
		}
		allowed = append(allowed, v.Country)
	}
	return allowed, excluded
}
