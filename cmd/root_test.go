package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportdesk/advisor-cli/internal/confidence"
	"github.com/exportdesk/advisor-cli/internal/matching"
	"github.com/exportdesk/advisor-cli/internal/model"
	"github.com/exportdesk/advisor-cli/internal/recommend"
)

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{
		"recommend", "simulate", "match", "serve",
		"cache", "datasets", "brief", "publish", "leads",
	}

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, w := range want {
		assert.True(t, names[w], "missing subcommand %q", w)
	}
}

func TestBuildMatchRequestFromFlags(t *testing.T) {
	t.Cleanup(resetMatchFlags)

	matchType = "seller"
	matchHSCode = "8471"
	matchCountry = "KR"
	matchIndustry = "electronics"
	matchOrderQty = 500
	matchTopN = 3

	req, err := buildMatchRequest()
	require.NoError(t, err)
	assert.Equal(t, "seller", req.ProfileType)
	assert.Equal(t, "8471", req.Profile.HSCode)
	assert.Equal(t, "KR", req.Profile.Country)
	assert.Equal(t, "electronics", req.Profile.Industry)
	assert.Equal(t, 500, req.Profile.OrderQty)
	assert.Equal(t, 3, req.TopN)
}

func TestBuildMatchRequestFromProfileFile(t *testing.T) {
	t.Cleanup(resetMatchFlags)

	profile := matching.Profile{
		HSCode:      "6204",
		Country:     "VN",
		MinOrderQty: 100,
	}
	data, err := json.Marshal(profile)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	matchType = "buyer"
	matchProfile = path
	matchCountry = "TH" // inline flag overrides the file

	req, err := buildMatchRequest()
	require.NoError(t, err)
	assert.Equal(t, "6204", req.Profile.HSCode)
	assert.Equal(t, "TH", req.Profile.Country)
	assert.Equal(t, 100, req.Profile.MinOrderQty)
}

func TestBuildMatchRequestFileErrors(t *testing.T) {
	t.Cleanup(resetMatchFlags)

	matchProfile = filepath.Join(t.TempDir(), "missing.json")
	_, err := buildMatchRequest()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read profile file")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	matchProfile = bad
	_, err = buildMatchRequest()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse profile file")
}

func resetMatchFlags() {
	matchType = ""
	matchProfile = ""
	matchHSCode = ""
	matchCountry = ""
	matchIndustry = ""
	matchOrderQty = 0
	matchTopN = 0
}

func TestReportFromResult(t *testing.T) {
	res := &recommend.Result{
		Category: "8471",
		Origin:   "KR",
		Source:   "live",
		Rankings: []model.CountryScore{
			{Rank: 1, Country: "US", Name: "United States", Score: 0.82, RiskGrade: "A"},
			{Rank: 2, Country: "VN", Name: "Vietnam", Score: 0.64,
				Warnings: []string{"restricted market: heightened due diligence"}},
		},
		Excluded:    []model.Exclusion{{Country: "KP", Reason: "sanctioned destination"}},
		Confidence:  confidence.Report{Score: 0.74, Level: "high", Interpretation: "most signals present"},
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	rep := reportFromResult(res)
	assert.Equal(t, "8471 from KR", rep.Title)
	assert.Equal(t, "live", rep.Source)
	assert.InDelta(t, 0.74, rep.Confidence, 1e-9)

	// 2 rankings + 1 warning + 1 exclusion + 1 confidence line
	require.Len(t, rep.Lines, 5)
	assert.Equal(t, "1. United States (US) score 0.820, risk A", rep.Lines[0])
	assert.Contains(t, rep.Lines[2], "restricted market")
	assert.Equal(t, "excluded KP: sanctioned destination", rep.Lines[3])
	assert.Contains(t, rep.Lines[4], "confidence 0.74 (high)")
}

func TestLeadsFromMatches(t *testing.T) {
	matches := []matching.Match{
		{Rank: 1, Name: "Hanoi Components Ltd", Country: "VN", PartnerType: "seller", FitScore: 0.82, FraudRisk: "low"},
		{Rank: 2, Name: "Busan Trading Co", Country: "KR", PartnerType: "seller", FitScore: 0.71, FraudRisk: "medium"},
	}

	leads := leadsFromMatches("8471", matches)
	require.Len(t, leads, 2)
	assert.Equal(t, "Hanoi Components Ltd", leads[0].Company)
	assert.Equal(t, "8471", leads[0].HSCode)
	assert.Equal(t, "medium", leads[1].FraudRisk)
}
