package salesforce

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLeads() []Lead {
	return []Lead{
		{Company: "Hanoi Components Ltd", Country: "VN", HSCode: "8471", PartnerType: "seller", FitScore: 0.82, FraudRisk: "low"},
		{Company: "Busan Trading Co", Country: "KR", HSCode: "8471", PartnerType: "seller", FitScore: 0.71, FraudRisk: "medium"},
	}
}

func TestPushLeads(t *testing.T) {
	t.Parallel()

	var gotSoql string
	var gotRecords []map[string]any
	mc := &mockClient{
		queryFn: func(ctx context.Context, soql string, out any) error {
			gotSoql = soql
			return nil
		},
		insertCollectionFn: func(ctx context.Context, sObjectName string, records []map[string]any) ([]CollectionResult, error) {
			assert.Equal(t, "Lead", sObjectName)
			gotRecords = records
			return []CollectionResult{
				{ID: "00Qaa", Success: true},
				{ID: "", Success: false, Errors: []string{"required field missing"}},
			}, nil
		},
	}

	res, err := PushLeads(context.Background(), mc, sampleLeads())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"00Qaa"}, res.IDs)
	assert.Equal(t, []string{"required field missing"}, res.Errors)

	assert.Contains(t, gotSoql, "LeadSource = 'Export Advisor'")
	assert.Contains(t, gotSoql, "'Hanoi Components Ltd'")

	require.Len(t, gotRecords, 2)
	assert.Equal(t, "Hanoi Components Ltd", gotRecords[0]["Company"])
	assert.Equal(t, "Hanoi Components Ltd", gotRecords[0]["LastName"])
	assert.Equal(t, "Export Advisor", gotRecords[0]["LeadSource"])
	assert.Equal(t, 0.82, gotRecords[0]["Fit_Score__c"])
}

func TestPushLeadsSkipsExisting(t *testing.T) {
	t.Parallel()

	mc := &mockClient{
		queryFn: func(ctx context.Context, soql string, out any) error {
			rows := out.(*[]struct {
				Company string `json:"Company" salesforce:"Company"`
			})
			*rows = append(*rows, struct {
				Company string `json:"Company" salesforce:"Company"`
			}{Company: "HANOI COMPONENTS LTD"}) // match is case-insensitive
			return nil
		},
		insertCollectionFn: func(ctx context.Context, sObjectName string, records []map[string]any) ([]CollectionResult, error) {
			require.Len(t, records, 1)
			assert.Equal(t, "Busan Trading Co", records[0]["Company"])
			return []CollectionResult{{ID: "00Qbb", Success: true}}, nil
		},
	}

	res, err := PushLeads(context.Background(), mc, sampleLeads())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 0, res.Failed)
}

func TestPushLeadsAllExisting(t *testing.T) {
	t.Parallel()

	inserted := false
	mc := &mockClient{
		queryFn: func(ctx context.Context, soql string, out any) error {
			rows := out.(*[]struct {
				Company string `json:"Company" salesforce:"Company"`
			})
			for _, l := range sampleLeads() {
				*rows = append(*rows, struct {
					Company string `json:"Company" salesforce:"Company"`
				}{Company: l.Company})
			}
			return nil
		},
		insertCollectionFn: func(ctx context.Context, sObjectName string, records []map[string]any) ([]CollectionResult, error) {
			inserted = true
			return nil, nil
		},
	}

	res, err := PushLeads(context.Background(), mc, sampleLeads())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped)
	assert.False(t, inserted)
}

func TestPushLeadsValidation(t *testing.T) {
	t.Parallel()

	mc := &mockClient{}
	_, err := PushLeads(context.Background(), mc, []Lead{{Company: "  "}})
	assert.Error(t, err)

	res, err := PushLeads(context.Background(), mc, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Created+res.Skipped+res.Failed)
}

func TestPushLeadsQueryError(t *testing.T) {
	t.Parallel()

	mc := &mockClient{
		queryFn: func(ctx context.Context, soql string, out any) error {
			return assert.AnError
		},
	}
	_, err := PushLeads(context.Background(), mc, sampleLeads())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check existing leads")
}

func TestEscapeSoql(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `O\'Hare Exports`, escapeSoql("O'Hare Exports"))
}
