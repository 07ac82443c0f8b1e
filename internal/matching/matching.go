// Package matching ranks counterparty profiles for one side of a trade.
// The pool is the opposite-side partner catalog; hard gates force
// incompatible pairs to a zero fit score without dropping them, and fraud
// history and prior successes in the counterparty's country shift the fit
// inside bounded ranges.
package matching

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/exportdesk/advisor-cli/internal/compliance"
	"github.com/exportdesk/advisor-cli/internal/confidence"
	"github.com/exportdesk/advisor-cli/internal/dataset"
	"github.com/exportdesk/advisor-cli/internal/evidence"
	"github.com/exportdesk/advisor-cli/internal/model"
	"github.com/exportdesk/advisor-cli/internal/provider"
)

const (
	ProfileSeller = "seller"
	ProfileBuyer  = "buyer"

	DefaultTopN = 5
	MaxTopN     = 20

	fetchLimit   = 5
	fetchTimeout = 8 * time.Second
)

// Fit-score points. The running total starts at basePoints and is clamped
// to [0, 100] before the /100 normalization.
const (
	basePoints      = 50
	hsMatchPoints   = 20
	priceOverlapPts = 15
	quantityScale   = 10
	requiredScale   = 10
	preferredPer    = 5
	preferredCap    = 15
)

// Profile is the requesting side's trade profile. Seller-side fields
// (capacity, MOQ, minimum order value, held certifications) and buyer-side
// fields (order quantity, required/preferred certifications) coexist;
// whichever half matches ProfileType is read.
type Profile struct {
	HSCode         string   `json:"hs_code"`
	Country        string   `json:"country,omitempty"`
	Industry       string   `json:"industry,omitempty"`
	OrderQty       int      `json:"order_qty,omitempty"`
	MinOrderQty    int      `json:"min_order_qty,omitempty"`
	AnnualCapacity int      `json:"annual_capacity,omitempty"`
	MinOrderValue  float64  `json:"min_order_value,omitempty"`
	PriceMinUSD    float64  `json:"price_min_usd,omitempty"`
	PriceMaxUSD    float64  `json:"price_max_usd,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	RequiredCerts  []string `json:"required_certs,omitempty"`
	PreferredCerts []string `json:"preferred_certs,omitempty"`
}

// Request describes one matching run.
type Request struct {
	ProfileType string  `json:"profile_type"`
	Profile     Profile `json:"profile"`
	TopN        int     `json:"top_n,omitempty"`
}

func (r *Request) normalize() error {
	r.ProfileType = strings.ToLower(strings.TrimSpace(r.ProfileType))
	r.Profile.HSCode = strings.TrimSpace(r.Profile.HSCode)
	switch {
	case r.ProfileType != ProfileSeller && r.ProfileType != ProfileBuyer:
		return eris.Wrap(model.ErrInvalidInput, `matching: profile type must be "seller" or "buyer"`)
	case r.Profile.HSCode == "":
		return eris.Wrap(model.ErrInvalidInput, "matching: hs code is required")
	case len(r.Profile.HSCode) < 2:
		return eris.Wrap(model.ErrInvalidInput, "matching: hs code must be at least an HS chapter (2 digits)")
	case r.Profile.OrderQty < 0 || r.Profile.MinOrderQty < 0 || r.Profile.AnnualCapacity < 0:
		return eris.Wrap(model.ErrInvalidInput, "matching: quantities cannot be negative")
	case r.Profile.PriceMinUSD > 0 && r.Profile.PriceMaxUSD > 0 &&
		r.Profile.PriceMinUSD > r.Profile.PriceMaxUSD:
		return eris.Wrap(model.ErrInvalidInput, "matching: price range is inverted")
	}
	if r.TopN <= 0 {
		r.TopN = DefaultTopN
	}
	if r.TopN > MaxTopN {
		r.TopN = MaxTopN
	}
	return nil
}

// Match is one ranked counterparty. A gate failure or an unmet required
// certification forces FitScore to 0; the breakdown still shows what the
// pair would have earned.
type Match struct {
	Rank         int             `json:"rank"`
	PartnerID    string          `json:"partner_id"`
	PartnerType  string          `json:"partner_type"`
	Name         string          `json:"name"`
	Country      string          `json:"country"`
	FitScore     float64         `json:"fit_score"`
	Breakdown    model.Breakdown `json:"breakdown"`
	GateFailures []string        `json:"gate_failures,omitempty"`
	MissingCerts []string        `json:"missing_certs,omitempty"`
	Warnings     []string        `json:"warnings,omitempty"`
	FraudRisk    string          `json:"fraud_risk"`
	SuccessNote  string          `json:"success_note,omitempty"`
}

// Result is the ranked match list for one request.
type Result struct {
	RequestID   string            `json:"request_id"`
	ProfileType string            `json:"profile_type"`
	Matches     []Match           `json:"matches"`
	Excluded    []model.Exclusion `json:"excluded,omitempty"`
	Confidence  confidence.Report `json:"confidence"`
	FetchLog    []string          `json:"fetch_log,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// pair is the direction-normalized view of requester + candidate: buyer
// quantities on one side, seller constraints on the other, whichever way
// the request points.
type pair struct {
	partnerID      string
	partnerName    string
	country        string
	partnerHS      string
	buyerQty       int
	sellerMOQ      int
	sellerCapacity int
	sellerMOV      float64
	sellerMidpoint float64
	sellerMin      float64
	sellerMax      float64
	buyerMin       float64
	buyerMax       float64
	sellerCerts    []string
	requiredCerts  []string
	preferredCerts []string
}

// Matcher ranks counterparties from the bundled partner catalog.
type Matcher struct {
	provider provider.Interface
	gate     *compliance.Gate
	catalog  *dataset.Catalog
	evidence *evidence.Scorer
}

func New(p provider.Interface, gate *compliance.Gate, catalog *dataset.Catalog) *Matcher {
	return &Matcher{
		provider: p,
		gate:     gate,
		catalog:  catalog,
		evidence: evidence.NewScorer(evidence.DefaultParams()),
	}
}

// Match scores every opposite-side profile against the request and returns
// the ranked list. Partner-country fraud and success fetches degrade to
// empty evidence on failure; only invalid input or caller cancellation
// produce an error.
func (m *Matcher) Match(ctx context.Context, req Request) (*Result, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	log := zap.L().With(
		zap.String("profile_type", req.ProfileType),
		zap.String("hs_code", req.Profile.HSCode),
	)
	result := &Result{
		RequestID:   uuid.NewString(),
		ProfileType: req.ProfileType,
		GeneratedAt: time.Now().UTC(),
	}

	// ----- Pool & compliance -----

	var pairs []pair
	partnerType := ProfileBuyer
	if req.ProfileType == ProfileSeller {
		for _, b := range m.catalog.Buyers() {
			pairs = append(pairs, pairForBuyer(req.Profile, b))
		}
	} else {
		partnerType = ProfileSeller
		for _, s := range m.catalog.Sellers() {
			pairs = append(pairs, pairForSeller(req.Profile, s))
		}
	}

	verdicts := make(map[string]compliance.Verdict)
	excluded := make(map[string]struct{})
	kept := pairs[:0]
	for _, p := range pairs {
		v, ok := verdicts[p.country]
		if !ok {
			v = m.gate.Check(p.country)
			verdicts[p.country] = v
		}
		if v.Status == compliance.StatusBlocked {
			if _, dup := excluded[p.country]; !dup {
				excluded[p.country] = struct{}{}
				result.Excluded = append(result.Excluded, model.Exclusion{
					Country: p.country,
					Reason:  v.Reason,
				})
			}
			continue
		}
		kept = append(kept, p)
	}
	pairs = kept

	// ----- Evidence fetch per partner country -----

	fraudByCountry, successByCountry, fetchLog := m.fetchEvidence(ctx, pairs, req.Profile.Industry)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	result.FetchLog = fetchLog

	// ----- Score -----

	sourcesSeen := map[string]bool{"partner_catalog": true}
	for _, p := range pairs {
		gates := evaluateGates(p)
		verdict := verdicts[p.country]
		fraud, fraudAnswered := fraudByCountry[p.country]
		success, successAnswered := successByCountry[p.country]
		if fraudAnswered {
			sourcesSeen["fraud_archive"] = true
		}
		if successAnswered {
			sourcesSeen["success_archive"] = true
		}

		var b model.Breakdown
		b = b.Add("base", basePoints)
		if model.HS4(req.Profile.HSCode) == model.HS4(p.partnerHS) {
			b = b.Add("hs_code_match", hsMatchPoints)
		} else {
			b = b.Add("hs_code_match", 0)
		}
		if model.PriceRangesOverlap(p.sellerMin, p.sellerMax, p.buyerMin, p.buyerMax) {
			b = b.Add("price_overlap", priceOverlapPts)
		} else {
			b = b.Add("price_overlap", 0)
		}
		b = b.Add("quantity_fit", quantityScale*gates.softQty)
		b = b.Add("required_certs", requiredScale*gates.requiredRatio)
		b = b.Add("preferred_certs", preferredBonus(gates.preferredHits))
		b = b.Add("fraud_penalty", m.evidence.FraudPenalty(fraud))
		bonus, note := m.evidence.SuccessBonus(success, p.country, req.Profile.Industry)
		b = b.Add("success_bonus", bonus)
		b = b.Add("compliance_penalty", verdict.Penalty)

		fit := model.Round2(model.Clamp01(b.Total() / 100))
		if !gates.passed() {
			fit = 0
		}

		row := Match{
			PartnerID:    p.partnerID,
			PartnerType:  partnerType,
			Name:         p.partnerName,
			Country:      p.country,
			FitScore:     fit,
			Breakdown:    b,
			GateFailures: gates.failures,
			MissingCerts: gates.missingCerts,
			FraudRisk:    evidence.RiskLevel(len(fraud)),
			SuccessNote:  note,
		}
		if verdict.Warning != "" {
			row.Warnings = append(row.Warnings, verdict.Warning)
		}
		result.Matches = append(result.Matches, row)
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		if result.Matches[i].FitScore != result.Matches[j].FitScore {
			return result.Matches[i].FitScore > result.Matches[j].FitScore
		}
		return result.Matches[i].PartnerID < result.Matches[j].PartnerID
	})
	if len(result.Matches) > req.TopN {
		result.Matches = result.Matches[:req.TopN]
	}
	for i := range result.Matches {
		result.Matches[i].Rank = i + 1
	}

	result.Confidence = confidence.Calculate(confidence.Input{
		Context:        confidence.ContextMatch,
		MissingFields:  profileGaps(req),
		Sources:        sourceList(sourcesSeen),
		FallbackUsed:   false,
		ProviderStatus: m.provider.Status(),
	})

	log.Info("match: partners ranked",
		zap.Int("pool", len(pairs)),
		zap.Int("matched", len(result.Matches)),
		zap.Int("excluded", len(result.Excluded)),
		zap.Float64("confidence", result.Confidence.Score),
	)
	return result, nil
}

// fetchEvidence pulls fraud and success history for every distinct partner
// country. A failed fetch leaves the country's entry nil and logs the
// reason; the batch never fails.
func (m *Matcher) fetchEvidence(ctx context.Context, pairs []pair, industry string) (map[string][]model.FraudCase, map[string][]model.SuccessCase, []string) {
	countries := make([]string, 0, len(pairs))
	seen := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		if _, ok := seen[p.country]; ok {
			continue
		}
		seen[p.country] = struct{}{}
		countries = append(countries, p.country)
	}

	var (
		mu       sync.Mutex
		fraud    = make(map[string][]model.FraudCase, len(countries))
		success  = make(map[string][]model.SuccessCase, len(countries))
		fetchLog []string
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(fetchLimit)
	for _, country := range countries {
		g.Go(func() error {
			fCtx, cancel := context.WithTimeout(gCtx, fetchTimeout)
			cases, err := m.provider.FraudCases(fCtx, country)
			cancel()
			mu.Lock()
			if err != nil {
				fetchLog = append(fetchLog, "fraud cases "+country+": "+err.Error())
			} else {
				fraud[country] = cases
			}
			mu.Unlock()

			fCtx, cancel = context.WithTimeout(gCtx, fetchTimeout)
			wins, err := m.provider.SuccessCases(fCtx, country, industry)
			cancel()
			mu.Lock()
			if err != nil {
				fetchLog = append(fetchLog, "success cases "+country+": "+err.Error())
			} else {
				success[country] = wins
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(fetchLog)
	return fraud, success, fetchLog
}

// pairForBuyer views a buyer candidate against a seller request.
func pairForBuyer(p Profile, b model.BuyerProfile) pair {
	seller := model.SellerProfile{PriceMinUSD: p.PriceMinUSD, PriceMaxUSD: p.PriceMaxUSD}
	return pair{
		partnerID:      b.ID,
		partnerName:    b.Company,
		country:        strings.ToUpper(b.Country),
		partnerHS:      b.HSCode,
		buyerQty:       b.OrderQty,
		sellerMOQ:      p.MinOrderQty,
		sellerCapacity: p.AnnualCapacity,
		sellerMOV:      p.MinOrderValue,
		sellerMidpoint: seller.PriceMidpoint(),
		sellerMin:      p.PriceMinUSD,
		sellerMax:      p.PriceMaxUSD,
		buyerMin:       b.TargetPriceMin,
		buyerMax:       b.TargetPriceMax,
		sellerCerts:    p.Certifications,
		requiredCerts:  b.RequiredCerts,
		preferredCerts: b.PreferredCerts,
	}
}

// pairForSeller views a seller candidate against a buyer request.
func pairForSeller(p Profile, s model.SellerProfile) pair {
	return pair{
		partnerID:      s.ID,
		partnerName:    s.Name,
		country:        strings.ToUpper(s.Country),
		partnerHS:      s.HSCode,
		buyerQty:       p.OrderQty,
		sellerMOQ:      s.MinOrderQty,
		sellerCapacity: s.AnnualCapacity,
		sellerMOV:      s.MinOrderValue,
		sellerMidpoint: s.PriceMidpoint(),
		sellerMin:      s.PriceMinUSD,
		sellerMax:      s.PriceMaxUSD,
		buyerMin:       p.PriceMinUSD,
		buyerMax:       p.PriceMaxUSD,
		sellerCerts:    s.Certifications,
		requiredCerts:  p.RequiredCerts,
		preferredCerts: p.PreferredCerts,
	}
}

func preferredBonus(hits int) float64 {
	bonus := float64(hits * preferredPer)
	if bonus > preferredCap {
		bonus = preferredCap
	}
	return bonus
}

// profileGaps lists the match-context required fields the requester left
// blank. Nothing is imputed; the gaps only lower confidence.
func profileGaps(req Request) []string {
	var gaps []string
	if req.Profile.PriceMinUSD <= 0 && req.Profile.PriceMaxUSD <= 0 {
		gaps = append(gaps, "price_range")
	}
	qty := req.Profile.OrderQty
	if req.ProfileType == ProfileSeller {
		qty = req.Profile.MinOrderQty
	}
	if qty <= 0 {
		gaps = append(gaps, "order_qty")
	}
	return gaps
}

func sourceList(seen map[string]bool) []string {
	out := make([]string, 0, len(seen))
	for s, ok := range seen {
		if ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
