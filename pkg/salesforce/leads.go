package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// leadSource tags every record we create so they can be filtered in SF.
const leadSource = "Export Advisor"

// Lead is a matched counterparty to push into Salesforce. Company is the
// only required field; the rest land in custom fields on the Lead object.
type Lead struct {
	Company     string
	Country     string
	HSCode      string
	PartnerType string
	FitScore    float64
	FraudRisk   string
}

func (l Lead) record() map[string]any {
	return map[string]any{
		"Company":         l.Company,
		"LastName":        l.Company, // SF requires LastName; mirror the company
		"Country":         l.Country,
		"LeadSource":      leadSource,
		"HS_Code__c":      l.HSCode,
		"Partner_Type__c": l.PartnerType,
		"Fit_Score__c":    l.FitScore,
		"Fraud_Risk__c":   l.FraudRisk,
	}
}

// PushResult summarizes one lead-push run.
type PushResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	IDs     []string `json:"ids,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// PushLeads creates Lead records for the given matches, skipping companies
// that already exist as advisor-sourced leads. Partial failures within a
// batch are reported in the result, not as an error.
func PushLeads(ctx context.Context, c Client, leads []Lead) (*PushResult, error) {
	for i, l := range leads {
		if strings.TrimSpace(l.Company) == "" {
			return nil, eris.New(fmt.Sprintf("sf: lead %d has no company name", i))
		}
	}
	if len(leads) == 0 {
		return &PushResult{}, nil
	}

	existing, err := existingLeadCompanies(ctx, c, leads)
	if err != nil {
		return nil, err
	}

	res := &PushResult{}
	var records []map[string]any
	for _, l := range leads {
		if existing[strings.ToLower(l.Company)] {
			zap.L().Debug("lead already exists, skipping", zap.String("company", l.Company))
			res.Skipped++
			continue
		}
		records = append(records, l.record())
	}
	if len(records) == 0 {
		return res, nil
	}

	results, err := c.InsertCollection(ctx, "Lead", records)
	if err != nil {
		return nil, eris.Wrap(err, "sf: push leads")
	}
	for _, r := range results {
		if r.Success {
			res.Created++
			res.IDs = append(res.IDs, r.ID)
			continue
		}
		res.Failed++
		res.Errors = append(res.Errors, strings.Join(r.Errors, "; "))
	}
	return res, nil
}

// existingLeadCompanies returns the set of company names (lowercased) that
// already have an advisor-sourced lead.
func existingLeadCompanies(ctx context.Context, c Client, leads []Lead) (map[string]bool, error) {
	names := make([]string, 0, len(leads))
	for _, l := range leads {
		names = append(names, "'"+escapeSoql(l.Company)+"'")
	}
	soql := fmt.Sprintf(
		"SELECT Company FROM Lead WHERE LeadSource = '%s' AND Company IN (%s)",
		leadSource, strings.Join(names, ", "),
	)

	var rows []struct {
		Company string `json:"Company" salesforce:"Company"`
	}
	if err := c.Query(ctx, soql, &rows); err != nil {
		return nil, eris.Wrap(err, "sf: check existing leads")
	}

	existing := make(map[string]bool, len(rows))
	for _, r := range rows {
		existing[strings.ToLower(r.Company)] = true
	}
	return existing, nil
}

// escapeSoql escapes single quotes in SOQL string literals to prevent injection.
func escapeSoql(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
