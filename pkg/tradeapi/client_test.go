package tradeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportdesk/advisor-cli/internal/resilience"
)

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestRankedScores_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/export-scores", r.URL.Path)
		assert.Equal(t, "3304", r.URL.Query().Get("category"))
		assert.Equal(t, "KR", r.URL.Query().Get("origin"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"scores": []ScoreRow{
				{Rank: 1, Country: "VN", Name: "Vietnam", Score: 4.1},
				{Rank: 2, Country: "US", Name: "United States", Score: 3.8},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	rows, err := client.RankedScores(context.Background(), "3304", "KR")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "VN", rows[0].Country)
	assert.InDelta(t, 4.1, rows[0].Score, 0.0001)
}

func TestRankedScores_NotFoundIsEmpty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	rows, err := client.RankedScores(context.Background(), "9999", "KR")

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCountryIndicators_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/countries/VN", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"country_code": "VN",
			"gdp_usd": 430000000000,
			"gdp_growth_pct": 6.5,
			"inflation_pct": null,
			"risk_grade": "C",
			"news_sentiment": 0.3,
			"market_traits": ["young population"],
			"promising_goods": ["cosmetics", "food"]
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	info, err := client.CountryIndicators(context.Background(), "VN")

	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "VN", info.Country)
	require.NotNil(t, info.GDPUSD)
	assert.InDelta(t, 4.3e11, *info.GDPUSD, 1)
	assert.Nil(t, info.InflationPct)
	require.NotNil(t, info.NewsSentiment)
	assert.InDelta(t, 0.3, *info.NewsSentiment, 0.0001)
	assert.Equal(t, "C", info.RiskGrade)
}

func TestCountryIndicators_UnknownCountry(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	info, err := client.CountryIndicators(context.Background(), "ZZ")

	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestTrends_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/trends", r.URL.Path)
		assert.Equal(t, "3304", r.URL.Query().Get("category"))
		assert.Equal(t, "VN", r.URL.Query().Get("country"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"trends": []TrendRow{
				{Topic: "vegan skincare", Rank: 1},
				{Topic: "sun care", Rank: 2},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	trends, err := client.Trends(context.Background(), "3304", "VN")

	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, "vegan skincare", trends[0].Topic)
}

func TestFraudCases_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/fraud-cases", r.URL.Path)
		assert.Equal(t, "NG", r.URL.Query().Get("country"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"cases": []FraudRow{
				{ID: "F-1", Country: "NG", Type: "advance_fee", DamageUSD: 42000, Year: 2023, Summary: "fake LC"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	cases, err := client.FraudCases(context.Background(), "NG")

	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "advance_fee", cases[0].Type)
	assert.InDelta(t, 42000, cases[0].DamageUSD, 0.01)
}

func TestSuccessCases_IndustryParam(t *testing.T) {
	t.Parallel()

	var sawIndustry atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawIndustry.Store(r.URL.Query().Has("industry"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"cases": []SuccessRow{}})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	_, err := client.SuccessCases(context.Background(), "VN", "cosmetics")
	require.NoError(t, err)
	assert.Equal(t, true, sawIndustry.Load())

	_, err = client.SuccessCases(context.Background(), "VN", "")
	require.NoError(t, err)
	assert.Equal(t, false, sawIndustry.Load())
}

func TestGetJSON_RetriesTransient(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"trends": []TrendRow{{Topic: "halal beauty", Rank: 1}}})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRetry(fastRetry()))
	trends, err := client.Trends(context.Background(), "3304", "AE")

	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetJSON_PermanentStatusNoRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad category"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRetry(fastRetry()))
	_, err := client.RankedScores(context.Background(), "bad", "KR")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetJSON_MalformedJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.FraudCases(context.Background(), "NG")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestPing(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient("", WithBaseURL(srv.URL))
	require.NoError(t, client.Ping(context.Background()))
}

func TestGetJSON_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Trends(ctx, "3304", "VN")

	require.Error(t, err)
}

func TestNoAuthHeaderWithoutKey(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient("", WithBaseURL(srv.URL))
	require.NoError(t, client.Ping(context.Background()))
}
