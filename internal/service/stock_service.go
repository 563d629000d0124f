package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"stockmarket/internal/apperrors"
	"stockmarket/internal/cache"
	"stockmarket/internal/model"
	"stockmarket/internal/repository"
	"stockmarket/internal/yahoo"
)

// StockService handles quote fetching, reconciliation against the stock
// table, and ranked reads.
type StockService struct {
	db          *sql.DB
	stockRepo   *repository.StockRepository
	yahooClient yahoo.Client
	histCache   *cache.TTL[[]model.HistoricalBar]
	logger      *logrus.Logger

	symbols []string
	pacing  time.Duration
	loc     *time.Location
}

// NewStockService creates a new StockService.
//
// symbols is the fixed list refreshed by PopulateStocks, pacing the delay
// between per-symbol provider requests, and loc the exchange's local time
// zone used to decide what "today" means for the freshness check.
func NewStockService(
	db *sql.DB,
	stockRepo *repository.StockRepository,
	yahooClient yahoo.Client,
	histCache *cache.TTL[[]model.HistoricalBar],
	logger *logrus.Logger,
	symbols []string,
	pacing time.Duration,
	loc *time.Location,
) *StockService {
	return &StockService{
		db:          db,
		stockRepo:   stockRepo,
		yahooClient: yahooClient,
		histCache:   histCache,
		logger:      logger,
		symbols:     symbols,
		pacing:      pacing,
		loc:         loc,
	}
}

// Symbols returns the fixed batch symbol list.
func (s *StockService) Symbols() []string {
	return s.symbols
}

// FetchQuote fetches the last two daily bars for a symbol and normalizes them
// into a Quote.
//
// Change percent is (latest_close - prev_close) / prev_close * 100. When only
// one bar exists, that bar's open price stands in for the previous close;
// when the fallback is zero, change percent is 0.0. The zero result is a
// deliberate degenerate-case policy, not an error.
//
// All failure modes surface as wrapped apperrors sentinels
// (ErrQuoteTransport, ErrQuoteParse, ErrNoQuoteData); the method never
// panics past its boundary.
func (s *StockService) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	raw, err := s.yahooClient.QueryTwoDaySymbol(ctx, symbol)
	if err != nil {
		return model.Quote{}, err
	}

	chart, err := s.yahooClient.ParseChart(raw)
	if err != nil {
		return model.Quote{}, err
	}

	if len(chart.Bars) == 0 {
		return model.Quote{}, fmt.Errorf("%w: no usable bars for symbol %s", apperrors.ErrNoQuoteData, symbol)
	}

	latest := chart.Bars[len(chart.Bars)-1]

	prevClose := latest.Open
	if len(chart.Bars) > 1 {
		prevClose = chart.Bars[len(chart.Bars)-2].Close
	}

	changePercent := 0.0
	if prevClose != 0 {
		changePercent = (latest.Close - prevClose) / prevClose * 100
	}

	name := chart.LongName
	if name == "" {
		name = chart.Shortname
	}
	if name == "" {
		name = symbol
	}

	return model.Quote{
		Symbol:        strings.ToUpper(symbol),
		Name:          name,
		CurrentPrice:  latest.Close,
		ChangePercent: changePercent,
		Volume:        latest.Volume,
		MarketCap:     latest.Close * float64(latest.Volume),
		Sector:        "",
		IsActive:      true,
		LastUpdated:   latest.Date.Format("2006-01-02"),
	}, nil
}

// UpsertStock reconciles one fetched quote against the stock table inside a
// transaction: insert if the symbol is absent, explicit field-by-field
// overwrite if present. The transaction commits or rolls back as a unit;
// failures are wrapped in apperrors.ErrPersistence.
//
// Concurrent writers racing on the same symbol resolve last-write-wins; each
// upsert is one serialized transaction, so the one-row-per-symbol invariant
// holds either way.
func (s *StockService) UpsertStock(ctx context.Context, quote model.Quote) (model.Stock, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Stock{}, fmt.Errorf("%w: failed to begin transaction: %v", apperrors.ErrPersistence, err)
	}

	repo := s.stockRepo.WithTx(tx)

	stock, err := repo.GetBySymbol(ctx, quote.Symbol)
	switch {
	case errors.Is(err, apperrors.ErrStockNotFound):
		stock = model.Stock{ID: uuid.New().String()}
		copyQuote(&stock, quote)
		err = repo.Insert(ctx, stock)
	case err != nil:
		// lookup failure, fall through to rollback
	default:
		copyQuote(&stock, quote)
		err = repo.Update(ctx, stock)
	}

	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.WithError(rbErr).Error("failed to roll back upsert transaction")
		}
		return model.Stock{}, fmt.Errorf("%w: upsert %s: %v", apperrors.ErrPersistence, quote.Symbol, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Stock{}, fmt.Errorf("%w: commit %s: %v", apperrors.ErrPersistence, quote.Symbol, err)
	}

	return stock, nil
}

// copyQuote overwrites every quote-sourced field of a stock row. The copy is
// explicit so the full-replace contract is checkable at compile time.
func copyQuote(stock *model.Stock, quote model.Quote) {
	stock.Symbol = quote.Symbol
	stock.Name = quote.Name
	stock.CurrentPrice = quote.CurrentPrice
	stock.ChangePercent = quote.ChangePercent
	stock.Volume = quote.Volume
	stock.MarketCap = quote.MarketCap
	stock.Sector = quote.Sector
	stock.IsActive = quote.IsActive
	stock.LastUpdated = quote.LastUpdated
}

// UpdateStock fetches fresh quote data for one symbol and upserts it.
// This is the on-demand path behind GET /stocks/stock/{symbol} and
// POST /stocks/update/{symbol}; it bypasses the freshness gate.
func (s *StockService) UpdateStock(ctx context.Context, symbol string) (model.Stock, error) {
	quote, err := s.FetchQuote(ctx, strings.ToUpper(symbol))
	if err != nil {
		return model.Stock{}, err
	}
	return s.UpsertStock(ctx, quote)
}

// IsFresh reports whether the most recently updated row across the entire
// store carries today's date. The check is global, not per-symbol: all
// symbols are assumed to refresh together, so one fresh row means the whole
// batch already ran today. An empty store is never fresh.
func (s *StockService) IsFresh(ctx context.Context, today string) (bool, error) {
	latest, err := s.stockRepo.LatestUpdated(ctx)
	if errors.Is(err, apperrors.ErrStockNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return latest.LastUpdated == today, nil
}

// Today returns the current calendar date in the exchange's local time zone.
func (s *StockService) Today() string {
	return time.Now().In(s.loc).Format("2006-01-02")
}

// PopulateStocks runs the freshness-gate-guarded batch update over the fixed
// symbol list.
//
// If the store already holds today's data the batch is skipped entirely and
// the report says so. Otherwise each symbol is fetched and upserted with its
// own committed transaction: a failure on one symbol is recorded in the
// report and processing continues with the next. A pacing delay between
// per-symbol fetches respects upstream rate limits.
func (s *StockService) PopulateStocks(ctx context.Context) (model.BatchReport, error) {
	today := s.Today()

	fresh, err := s.IsFresh(ctx, today)
	if err != nil {
		return model.BatchReport{}, err
	}
	if fresh {
		s.logger.Info("stock data already up to date for today")
		return model.BatchReport{
			Updated: false,
			Message: "stock data already up to date for today",
		}, nil
	}

	report := model.BatchReport{}

	for i, symbol := range s.symbols {
		report.Attempted++

		if err := s.updateOne(ctx, symbol); err != nil {
			s.logger.WithError(err).WithField("symbol", symbol).Error("failed to update stock")
			report.Failed++
			report.Failures = append(report.Failures, model.SymbolFailure{
				Symbol: symbol,
				Reason: err.Error(),
			})
		} else {
			report.Succeeded++
		}

		if i < len(s.symbols)-1 && s.pacing > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(s.pacing):
			}
		}
	}

	report.Updated = report.Succeeded > 0
	report.Message = fmt.Sprintf("updated %d of %d stocks", report.Succeeded, report.Attempted)

	s.logger.WithFields(logrus.Fields{
		"attempted": report.Attempted,
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
	}).Info("batch stock update completed")

	return report, nil
}

func (s *StockService) updateOne(ctx context.Context, symbol string) error {
	quote, err := s.FetchQuote(ctx, symbol)
	if err != nil {
		return err
	}
	_, err = s.UpsertStock(ctx, quote)
	return err
}

// GetStock retrieves the stored row for a symbol without touching the provider.
func (s *StockService) GetStock(ctx context.Context, symbol string) (model.Stock, error) {
	return s.stockRepo.GetBySymbol(ctx, strings.ToUpper(symbol))
}

// GetAllStocks retrieves all active stocks ordered by symbol.
func (s *StockService) GetAllStocks(ctx context.Context) ([]model.Stock, error) {
	return s.stockRepo.GetAll(ctx)
}

// TopGainers retrieves the limit stocks with the highest change percent, descending.
func (s *StockService) TopGainers(ctx context.Context, limit int) ([]model.Stock, error) {
	return s.stockRepo.TopMovers(ctx, limit, true)
}

// TopLosers retrieves the limit stocks with the lowest change percent, ascending.
func (s *StockService) TopLosers(ctx context.Context, limit int) ([]model.Stock, error) {
	return s.stockRepo.TopMovers(ctx, limit, false)
}

// MarketMovers retrieves the top ten gainers and losers in one read.
func (s *StockService) MarketMovers(ctx context.Context) (model.MarketMovers, error) {
	gainers, err := s.TopGainers(ctx, 10)
	if err != nil {
		return model.MarketMovers{}, err
	}
	losers, err := s.TopLosers(ctx, 10)
	if err != nil {
		return model.MarketMovers{}, err
	}
	return model.MarketMovers{Gainers: gainers, Losers: losers}, nil
}

// HistoricalSeries proxies the provider's historical daily series for a
// symbol over a named period (1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd,
// max). Results are cached per symbol and period for the configured TTL.
// An empty series surfaces as apperrors.ErrNoQuoteData.
func (s *StockService) HistoricalSeries(ctx context.Context, symbol, period string) ([]model.HistoricalBar, error) {
	if !yahoo.IsValidRange(period) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidPeriod, period)
	}

	symbol = strings.ToUpper(symbol)
	cacheKey := symbol + ":" + period

	if bars, ok := s.histCache.Get(cacheKey); ok {
		return bars, nil
	}

	raw, err := s.yahooClient.QueryRangeSymbol(ctx, symbol, period)
	if err != nil {
		return nil, err
	}

	chart, err := s.yahooClient.ParseChart(raw)
	if err != nil {
		return nil, err
	}

	if len(chart.Bars) == 0 {
		return nil, fmt.Errorf("%w: no historical bars for symbol %s", apperrors.ErrNoQuoteData, symbol)
	}

	bars := make([]model.HistoricalBar, len(chart.Bars))
	for i, bar := range chart.Bars {
		bars[i] = model.HistoricalBar{
			Date:   bar.Date.Format("2006-01-02"),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		}
	}

	s.histCache.Set(cacheKey, bars)

	return bars, nil
}
