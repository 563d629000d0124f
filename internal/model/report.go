package model

// SymbolFailure records why one symbol in a batch could not be updated.
type SymbolFailure struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// BatchReport tallies the outcome of one batch update cycle. The batch is
// best-effort: a failure on one symbol never aborts processing of the rest,
// so Succeeded+Failed always equals Attempted.
type BatchReport struct {
	Attempted int             `json:"attempted"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Failures  []SymbolFailure `json:"failures,omitempty"`
	Updated   bool            `json:"updated"`
	Message   string          `json:"message"`
}

// MarketMovers holds the top gaining and losing stocks for one read.
type MarketMovers struct {
	Gainers []Stock `json:"gainers"`
	Losers  []Stock `json:"losers"`
}
