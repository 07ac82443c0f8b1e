// Package tradeapi provides a client for the upstream trade data API: ML
// export scores, country indicators, product trends, and fraud/success case
// archives. Responses use the API's wire types; callers map them into their
// own domain.
package tradeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/exportdesk/advisor-cli/internal/resilience"
)

// Client defines the trade data API operations.
type Client interface {
	// RankedScores returns the ML export scores for category goods from
	// origin, best market first.
	RankedScores(ctx context.Context, category, origin string) ([]ScoreRow, error)
	// CountryIndicators returns the economic and news indicators for one
	// country. A country the API does not know yields (nil, nil).
	CountryIndicators(ctx context.Context, country string) (*CountryInfo, error)
	// Trends returns trending product topics for category in country.
	Trends(ctx context.Context, category, country string) ([]TrendRow, error)
	// FraudCases returns the trade fraud archive for country.
	FraudCases(ctx context.Context, country string) ([]FraudRow, error)
	// SuccessCases returns market-entry success cases for country, optionally
	// narrowed to an industry.
	SuccessCases(ctx context.Context, country, industry string) ([]SuccessRow, error)
	// Ping checks API reachability.
	Ping(ctx context.Context) error
}

// ScoreRow is one country in the ranked export-score response. Score is on
// the API's 0-5 scale.
type ScoreRow struct {
	Rank    int     `json:"rank"`
	Country string  `json:"country_code"`
	Name    string  `json:"country_name"`
	Score   float64 `json:"export_score"`
}

// CountryInfo carries per-country indicators. Pointer fields are null on the
// wire when the upstream has no figure.
type CountryInfo struct {
	Country        string   `json:"country_code"`
	GDPUSD         *float64 `json:"gdp_usd"`
	GDPYear        int      `json:"gdp_year"`
	GDPGrowthPct   *float64 `json:"gdp_growth_pct"`
	GrowthYear     int      `json:"growth_year"`
	InflationPct   *float64 `json:"inflation_pct"`
	RiskGrade      string   `json:"risk_grade"`
	NewsSentiment  *float64 `json:"news_sentiment"`
	MarketTraits   []string `json:"market_traits"`
	PromisingGoods []string `json:"promising_goods"`
}

// TrendRow is one trending product topic.
type TrendRow struct {
	Topic string `json:"topic"`
	Rank  int    `json:"rank"`
}

// FraudRow is one archived trade fraud case.
type FraudRow struct {
	ID        string  `json:"id"`
	Country   string  `json:"country_code"`
	Type      string  `json:"type"`
	DamageUSD float64 `json:"damage_usd"`
	Year      int     `json:"year"`
	Summary   string  `json:"summary"`
}

// SuccessRow is one archived market-entry success case.
type SuccessRow struct {
	ID       string `json:"id"`
	Country  string `json:"country_code"`
	Industry string `json:"industry"`
	Year     int    `json:"year"`
	Summary  string `json:"summary"`
}

// ErrNotFound marks a 404 from the API. Public methods translate it to an
// empty result before it reaches a caller.
var ErrNotFound = eris.New("tradeapi: not found")

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the request budget against the API.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry overrides the per-call retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a trade data API client. The defaults stay inside the
// API's published request budget (10 req/s).
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.exportdesk.io",
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(10, 10),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) RankedScores(ctx context.Context, category, origin string) ([]ScoreRow, error) {
	q := url.Values{}
	q.Set("category", category)
	q.Set("origin", origin)

	var out struct {
		Scores []ScoreRow `json:"scores"`
	}
	if err := c.getJSON(ctx, "/v1/export-scores", q, &out); err != nil {
		if eris.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return out.Scores, nil
}

func (c *httpClient) CountryIndicators(ctx context.Context, country string) (*CountryInfo, error) {
	var out CountryInfo
	err := c.getJSON(ctx, "/v1/countries/"+url.PathEscape(country), nil, &out)
	if err != nil {
		if eris.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) Trends(ctx context.Context, category, country string) ([]TrendRow, error) {
	q := url.Values{}
	q.Set("category", category)
	q.Set("country", country)

	var out struct {
		Trends []TrendRow `json:"trends"`
	}
	if err := c.getJSON(ctx, "/v1/trends", q, &out); err != nil {
		if eris.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return out.Trends, nil
}

func (c *httpClient) FraudCases(ctx context.Context, country string) ([]FraudRow, error) {
	q := url.Values{}
	q.Set("country", country)

	var out struct {
		Cases []FraudRow `json:"cases"`
	}
	if err := c.getJSON(ctx, "/v1/fraud-cases", q, &out); err != nil {
		if eris.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return out.Cases, nil
}

func (c *httpClient) SuccessCases(ctx context.Context, country, industry string) ([]SuccessRow, error) {
	q := url.Values{}
	q.Set("country", country)
	if industry != "" {
		q.Set("industry", industry)
	}

	var out struct {
		Cases []SuccessRow `json:"cases"`
	}
	if err := c.getJSON(ctx, "/v1/success-cases", q, &out); err != nil {
		if eris.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return out.Cases, nil
}

func (c *httpClient) Ping(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	return c.getJSON(ctx, "/v1/health", nil, &out)
}

// getJSON performs a rate-limited GET with retries on transient failures and
// decodes the body into out. 429 and 5xx classify as transient; 404 maps to
// ErrNotFound so callers can treat it as an empty result.
func (c *httpClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "tradeapi: rate limiter wait")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return eris.Wrap(err, "tradeapi: create request")
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return eris.Wrap(err, "tradeapi: request")
		}
		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return eris.Wrap(readErr, "tradeapi: read response body")
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return ErrNotFound
		case resilience.IsTransientHTTPStatus(resp.StatusCode):
			return resilience.NewTransientError(
				eris.Errorf("tradeapi: status %d: %s", resp.StatusCode, snippet(body)),
				resp.StatusCode,
			)
		case resp.StatusCode != http.StatusOK:
			return eris.Errorf("tradeapi: unexpected status %d: %s", resp.StatusCode, snippet(body))
		}

		if err := json.Unmarshal(body, out); err != nil {
			return eris.Wrap(err, "tradeapi: unmarshal response")
		}
		return nil
	})
}

// snippet truncates an error body for log-safe messages.
func snippet(body []byte) string {
	const max = 200
	if len(body) <= max {
		return string(body)
	}
	return fmt.Sprintf("%s... (%d bytes)", body[:max], len(body))
}
