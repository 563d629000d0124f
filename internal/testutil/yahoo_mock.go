package testutil

import (
	"context"
	"time"

	"stockmarket/internal/yahoo"
)

// MockYahooClient is a mock implementation of yahoo.Client for testing.
// It returns predefined test data instead of making actual API calls.
// Responses can be scripted per symbol; unscripted symbols fall back to
// MockResponse/MockError.
type MockYahooClient struct {
	// MockResponse is the default response returned by query methods
	MockResponse yahoo.Response
	// MockError is the default error returned by query methods
	MockError error
	// Responses overrides MockResponse for specific symbols
	Responses map[string]yahoo.Response
	// Errors overrides MockError for specific symbols
	Errors map[string]error
	// QueryCount tracks how many times a query method was called
	QueryCount int
}

// NewMockYahooClient creates a new mock Yahoo client with default test data:
// two daily bars closing at 100 and 102 (a +2% move), ending yesterday.
func NewMockYahooClient() *MockYahooClient {
	return &MockYahooClient{
		MockResponse: CreateMockChartResponse("TEST", Yesterday(), []float64{99, 100}, []float64{100, 102}, 1000000),
		Responses:    map[string]yahoo.Response{},
		Errors:       map[string]error{},
	}
}

func (m *MockYahooClient) respond(symbol string) (yahoo.Response, error) {
	m.QueryCount++
	if err, ok := m.Errors[symbol]; ok {
		return yahoo.Response{}, err
	}
	if m.MockError != nil {
		return yahoo.Response{}, m.MockError
	}
	if resp, ok := m.Responses[symbol]; ok {
		return resp, nil
	}
	return m.MockResponse, nil
}

// QueryTwoDaySymbol mocks the 2-day chart query with predefined test data.
func (m *MockYahooClient) QueryTwoDaySymbol(_ context.Context, symbol string) (yahoo.Response, error) {
	return m.respond(symbol)
}

// QueryRangeSymbol mocks the historical range query with predefined test data.
func (m *MockYahooClient) QueryRangeSymbol(_ context.Context, symbol, _ string) (yahoo.Response, error) {
	return m.respond(symbol)
}

// ParseChart delegates to the real ParseChart method since it's pure logic with no side effects.
func (m *MockYahooClient) ParseChart(yahooResult yahoo.Response) (yahoo.PriceChart, error) {
	client := yahoo.NewFinanceClient("")
	return client.ParseChart(yahooResult)
}

// WithError configures the mock to return the specified error for all symbols.
func (m *MockYahooClient) WithError(err error) *MockYahooClient {
	m.MockError = err
	return m
}

// WithResponse configures the mock to return the specified response for all symbols.
func (m *MockYahooClient) WithResponse(resp yahoo.Response) *MockYahooClient {
	m.MockResponse = resp
	return m
}

// WithSymbolError configures the mock to fail for one specific symbol.
func (m *MockYahooClient) WithSymbolError(symbol string, err error) *MockYahooClient {
	m.Errors[symbol] = err
	return m
}

// WithSymbolResponse configures the mock response for one specific symbol.
func (m *MockYahooClient) WithSymbolResponse(symbol string, resp yahoo.Response) *MockYahooClient {
	m.Responses[symbol] = resp
	return m
}

// Yesterday returns yesterday's date at midnight UTC.
func Yesterday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)
}

// CreateMockChartResponse creates a mock Yahoo chart response with one daily
// bar per element of opens/closes, ending on endDate. opens and closes must
// have the same length.
func CreateMockChartResponse(symbol string, endDate time.Time, opens, closes []float64, volume int64) yahoo.Response {
	days := len(closes)

	timestamps := make([]int64, days)
	openPtrs := make([]*float64, days)
	highPtrs := make([]*float64, days)
	lowPtrs := make([]*float64, days)
	closePtrs := make([]*float64, days)
	volumePtrs := make([]*int64, days)

	for i := 0; i < days; i++ {
		date := endDate.AddDate(0, 0, -days+i+1)
		timestamps[i] = date.Unix()

		open := opens[i]
		closePrice := closes[i]
		high := closePrice + 1.0
		low := open - 1.0
		vol := volume

		openPtrs[i] = &open
		highPtrs[i] = &high
		lowPtrs[i] = &low
		closePtrs[i] = &closePrice
		volumePtrs[i] = &vol
	}

	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{
				{
					Meta: yahoo.Meta{
						Symbol:    symbol,
						Currency:  "USD",
						LongName:  symbol + " Inc.",
						Shortname: symbol,
					},
					Timestamp: timestamps,
					Indicators: yahoo.IndicatorsContainer{
						Quote: []yahoo.QuoteArrays{
							{
								Open:   openPtrs,
								High:   highPtrs,
								Low:    lowPtrs,
								Close:  closePtrs,
								Volume: volumePtrs,
							},
						},
					},
				},
			},
		},
	}
}

// CreateMockEmptyResponse creates a mock Yahoo response with no results.
// Useful for testing the no-data path.
func CreateMockEmptyResponse() yahoo.Response {
	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{},
		},
	}
}
