package yahoo

import "time"

// Response represents the raw JSON response structure from Yahoo Finance API.
// This type maps directly to the Yahoo Finance chart API response format,
// containing nested structures for metadata, timestamps, and price indicators.
//
// Price arrays use pointer elements because Yahoo reports missing points
// (holidays, in-progress sessions) as JSON nulls.
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the top-level chart payload: results plus an optional API error.
type Chart struct {
	Result []Result `json:"result"`
	Error  *string  `json:"error"`
}

// Result holds one symbol's metadata, timestamps, and price indicators.
type Result struct {
	Meta       Meta                `json:"meta"`
	Timestamp  []int64             `json:"timestamp"`
	Indicators IndicatorsContainer `json:"indicators"`
}

// Meta holds symbol metadata (name, currency, exchange).
type Meta struct {
	Currency         string `json:"currency"`
	Symbol           string `json:"symbol"`
	ExchangeName     string `json:"exchangeName"`
	FullExchangeName string `json:"fullExchangeName"`
	LongName         string `json:"longName"`
	Shortname        string `json:"shortName"`
}

// IndicatorsContainer wraps the quote arrays.
type IndicatorsContainer struct {
	Quote []QuoteArrays `json:"quote"`
}

// QuoteArrays holds the parallel OHLCV arrays, one element per timestamp.
type QuoteArrays struct {
	Open   []*float64 `json:"open"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
}

// PriceChart is the application's internal representation after parsing the
// raw Response: symbol metadata plus a time-ordered series of daily bars.
type PriceChart struct {
	Currency  string `json:"currency"`
	Symbol    string `json:"symbol"`
	LongName  string `json:"longName"`
	Shortname string `json:"shortName"`
	Bars      []Bar  `json:"bars"`
}

// Bar represents a single trading day's OHLCV data.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}
