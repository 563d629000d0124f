package model

// Stock represents one persisted row of the stock table. There is exactly one
// row per symbol; every successful fetch overwrites all fields in place.
type Stock struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	CurrentPrice  float64 `json:"current_price"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	MarketCap     float64 `json:"market_cap"`
	Sector        string  `json:"sector"`
	IsActive      bool    `json:"is_active"`
	LastUpdated   string  `json:"last_updated"` // YYYY-MM-DD
}

// Quote is the normalized result of one fetch from the quote provider.
// MarketCap is approximated as price times volume, not a true market cap.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	CurrentPrice  float64 `json:"current_price"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	MarketCap     float64 `json:"market_cap"`
	Sector        string  `json:"sector"`
	IsActive      bool    `json:"is_active"`
	LastUpdated   string  `json:"last_updated"` // YYYY-MM-DD
}
