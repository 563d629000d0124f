package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stockmarket/internal/apperrors"
)

// DefaultBaseURL is the production Yahoo Finance chart API endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// validRanges are the chart API range values accepted for historical queries.
var validRanges = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true,
	"1y": true, "2y": true, "5y": true, "10y": true, "ytd": true, "max": true,
}

// IsValidRange reports whether period is a supported chart API range.
func IsValidRange(period string) bool {
	return validRanges[period]
}

// Client is the interface services depend on for quote data. It is satisfied
// by FinanceClient and by test mocks.
type Client interface {
	QueryTwoDaySymbol(ctx context.Context, symbol string) (Response, error)
	QueryRangeSymbol(ctx context.Context, symbol, period string) (Response, error)
	ParseChart(yahooResult Response) (PriceChart, error)
}

// FinanceClient provides methods for fetching financial data from Yahoo
// Finance API. It wraps an HTTP client and provides convenient methods for
// querying daily price bars and historical series.
type FinanceClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewFinanceClient creates a Yahoo Finance client against the given base URL.
// An empty baseURL selects the production endpoint; tests pass an httptest
// server URL instead.
func NewFinanceClient(baseURL string) *FinanceClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &FinanceClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// QueryTwoDaySymbol fetches the last 2 daily bars for a symbol. Two bars are
// enough to compute the day-over-day change percent; when the market has only
// produced one bar so far, callers fall back to that bar's open price.
func (c *FinanceClient) QueryTwoDaySymbol(ctx context.Context, symbol string) (Response, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=2d", c.baseURL, symbol)
	return c.queryYahoo(ctx, url, symbol)
}

// QueryRangeSymbol fetches daily bars for a symbol over a named period
// (1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max).
func (c *FinanceClient) QueryRangeSymbol(ctx context.Context, symbol, period string) (Response, error) {
	if !IsValidRange(period) {
		return Response{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidPeriod, period)
	}
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s", c.baseURL, symbol, period)
	return c.queryYahoo(ctx, url, symbol)
}

// ParseChart converts a raw Yahoo Finance API response into a structured
// price chart. Bars with a null close are dropped; a response with no usable
// timestamps is reported as absence of data, and structural problems
// (missing quote arrays, mismatched lengths) as a parse failure.
func (c *FinanceClient) ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, apperrors.ErrNoQuoteData
	}

	result := yahooResult.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("%w: no timestamps returned", apperrors.ErrNoQuoteData)
	}
	if len(result.Indicators.Quote) == 0 {
		return PriceChart{}, fmt.Errorf("%w: no quote arrays returned", apperrors.ErrQuoteParse)
	}

	quote := result.Indicators.Quote[0]
	if len(quote.Close) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("%w: mismatched data lengths", apperrors.ErrQuoteParse)
	}

	bars := make([]Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if quote.Close[i] == nil {
			continue
		}
		bar := Bar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	return PriceChart{
		Currency:  result.Meta.Currency,
		Symbol:    result.Meta.Symbol,
		LongName:  result.Meta.LongName,
		Shortname: result.Meta.Shortname,
		Bars:      bars,
	}, nil
}

// queryYahoo executes one HTTP request to the chart API. Network and HTTP
// status failures surface as transport errors, bad JSON as parse errors, and
// an explicit API error or empty result set as absence of data.
func (c *FinanceClient) queryYahoo(ctx context.Context, url, symbol string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrQuoteTransport, err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrQuoteTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrQuoteTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("%w: status %d for symbol %s", apperrors.ErrQuoteTransport, resp.StatusCode, symbol)
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrQuoteParse, err)
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("%w: yahoo error: %s", apperrors.ErrNoQuoteData, *response.Chart.Error)
	}
	if len(response.Chart.Result) == 0 {
		return response, fmt.Errorf("%w: no results returned for symbol %s", apperrors.ErrNoQuoteData, symbol)
	}

	return response, nil
}
