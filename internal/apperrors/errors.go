package apperrors

import "errors"

// Quote provider errors classify why a fetch produced no record.
// Callers treat all three as "no record produced"; the distinction exists
// for logging and for mapping to HTTP status codes at the API boundary.
var (
	// ErrQuoteTransport indicates the HTTP request to the quote provider failed
	// (network error or non-2xx response).
	ErrQuoteTransport = errors.New("quote provider request failed")

	// ErrQuoteParse indicates the provider payload was missing its expected shape.
	ErrQuoteParse = errors.New("quote provider payload malformed")

	// ErrNoQuoteData indicates the provider returned zero usable data points.
	ErrNoQuoteData = errors.New("no quote data available")
)

// Persistence and domain errors.
var (
	// ErrStockNotFound indicates that a stock with the given symbol does not exist.
	ErrStockNotFound = errors.New("stock not found")

	// ErrPersistence indicates that a database transaction failed and was rolled back.
	ErrPersistence = errors.New("persistence failure")

	// ErrInvalidPeriod indicates an unsupported historical data period.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidLimit indicates a non-positive or unparseable limit parameter.
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)

// Scheduler lifecycle errors.
var (
	// ErrAlreadyRunning indicates a start request for a scheduler that is already running.
	ErrAlreadyRunning = errors.New("scheduler already running")

	// ErrNotRunning indicates a stop request for a scheduler that is not running.
	ErrNotRunning = errors.New("scheduler not running")
)
