package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"stockmarket/internal/api/handlers"
	"stockmarket/internal/apperrors"
	"stockmarket/internal/model"
	"stockmarket/internal/repository"
	"stockmarket/internal/testutil"
)

func seedStock(t *testing.T, repo *repository.StockRepository, symbol string, changePercent float64) {
	t.Helper()

	stock := model.Stock{
		ID:            uuid.New().String(),
		Symbol:        symbol,
		Name:          symbol + " Inc.",
		CurrentPrice:  100.0,
		ChangePercent: changePercent,
		Volume:        1000,
		MarketCap:     100000.0,
		IsActive:      true,
		LastUpdated:   "2026-08-28",
	}
	if err := repo.Insert(context.Background(), stock); err != nil {
		t.Fatalf("Failed to seed stock %s: %v", symbol, err)
	}
}

func TestStockHandler_GetStock(t *testing.T) {
	t.Run("returns the updated stock", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockYahooClient()
		handler := handlers.NewStockHandler(testutil.NewTestStockService(t, db, mock))

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/v1/stocks/stock/AAPL",
			map[string]string{"symbol": "AAPL"},
		)
		w := httptest.NewRecorder()
		handler.GetStock(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var stock model.Stock
		if err := json.NewDecoder(w.Body).Decode(&stock); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if stock.Symbol != "AAPL" {
			t.Errorf("Expected symbol AAPL, got %s", stock.Symbol)
		}
		if stock.CurrentPrice == 0 {
			t.Error("Expected a non-zero current price")
		}
	})

	t.Run("lowercase path symbol is uppercased", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockYahooClient()
		handler := handlers.NewStockHandler(testutil.NewTestStockService(t, db, mock))

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/v1/stocks/stock/aapl",
			map[string]string{"symbol": "aapl"},
		)
		w := httptest.NewRecorder()
		handler.GetStock(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var stock model.Stock
		if err := json.NewDecoder(w.Body).Decode(&stock); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if stock.Symbol != "AAPL" {
			t.Errorf("Expected symbol AAPL, got %s", stock.Symbol)
		}
	})

	t.Run("returns 404 when no data exists", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockYahooClient().WithError(apperrors.ErrNoQuoteData)
		handler := handlers.NewStockHandler(testutil.NewTestStockService(t, db, mock))

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/v1/stocks/stock/NOPE",
			map[string]string{"symbol": "NOPE"},
		)
		w := httptest.NewRecorder()
		handler.GetStock(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("returns 404 when the provider is unreachable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockYahooClient().WithError(fmt.Errorf("%w: connection refused", apperrors.ErrQuoteTransport))
		handler := handlers.NewStockHandler(testutil.NewTestStockService(t, db, mock))

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/v1/stocks/stock/AAPL",
			map[string]string{"symbol": "AAPL"},
		)
		w := httptest.NewRecorder()
		handler.GetStock(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("returns 400 without a symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewStockHandler(testutil.NewTestStockService(t, db, testutil.NewMockYahooClient()))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/stocks/stock/", nil)
		w := httptest.NewRecorder()
		handler.GetStock(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestStockHandler_GetAllStocks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewStockRepository(db)
	seedStock(t, repo, "AAPL", 1.0)
	seedStock(t, repo, "MSFT", -2.0)

	handler := handlers.NewStockHandler(testutil.NewTestStockService(t, db, testutil.NewMockYahooClient()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stocks/", nil)
	w := httptest.NewRecorder()
	handler.GetAllStocks(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var stocks []model.Stock
	if err := json.NewDecoder(w.Body).Decode(&stocks); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(stocks) != 2 {
		t.Errorf("Expected 2 stocks, got %d", len(stocks))
	}
}

func TestStockHandler_TopGainers(t *testing.T) {
	setup := func(t *testing.T) *handlers.StockHandler {
		t.Helper()
		db := testutil.SetupTestDB(t)
		repo := repository.NewStockRepository(db)
		for i, change := range []float64{5.0, -3.0, 12.5, 0.5, -8.0, 2.0, 7.0} {
			seedStock(t, repo, fmt.Sprintf("SYM%d", i), change)
		}
		return handlers.NewStockHandler(testutil.NewTestStockService(t, db, testutil.NewMockYahooClient()))
	}

	t.Run("uses default limit of 5", func(t *testing.T) {
		handler := setup(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/stocks/gainers", nil)
		w := httptest.NewRecorder()
		handler.TopGainers(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var stocks []model.Stock
		if err := json.NewDecoder(w.Body).Decode(&stocks); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(stocks) != 5 {
			t.Fatalf("Expected 5 gainers, got %d", len(stocks))
		}
		if stocks[0].ChangePercent != 12.5 {
			t.Errorf("Expected biggest gainer first, got %f", stocks[0].ChangePercent)
		}
	})

	t.Run("honors an explicit limit", func(t *testing.T) {
		handler := setup(t)

		req := testutil.NewRequestWithQueryParams(
			http.MethodGet,
			"/api/v1/stocks/gainers",
			map[string]string{"limit": "2"},
		)
		w := httptest.NewRecorder()
		handler.TopGainers(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var stocks []model.Stock
		if err := json.NewDecoder(w.Body).Decode(&stocks); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(stocks) != 2 {
			t.Errorf("Expected 2 gainers, got %d", len(stocks))
		}
	})

	t.Run("rejects a non-numeric limit", func(t *testing.T) {
		handler := setup(t)

		req := testutil.NewRequestWithQueryParams(
			http.MethodGet,
			"/api/v1/stocks/gainers",
			map[string]string{"limit": "lots"},
		)
		w := httptest.NewRecorder()
		handler.TopGainers(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("rejects a non-positive limit", func(t *testing.T) {
		handler := setup(t)

		req := testutil.NewRequestWithQueryParams(
			http.MethodGet,
			"/api/v1/stocks/losers",
			map[string]string{"limit": "0"},
		)
		w := httptest.NewRecorder()
		handler.TopLosers(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestStockHandler_TopLosers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewStockRepository(db)
	for i, change := range []float64{5.0, -3.0, -8.0} {
		seedStock(t, repo, fmt.Sprintf("SYM%d", i), change)
	}
	handler := handlers.NewStockHandler(testutil.NewTestStockService(t, db, testutil.NewMockYahooClient()))

	req := testutil.NewRequestWithQueryParams(
		http.MethodGet,
		"/api/v1/stocks/losers",
		map[string]string{"limit": "2"},
	)
	w := httptest.NewRecorder()
	handler.TopLosers(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var stocks []model.Stock
	if err := json.NewDecoder(w.Body).Decode(&stocks); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(stocks) != 2 {
		t.Fatalf("Expected 2 losers, got %d", len(stocks))
	}
	if stocks[0].ChangePercent != -8.0 {
		t.Errorf("Expected biggest loser first, got %f", stocks[0].ChangePercent)
	}
}

func TestStockHandler_MarketMovers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewStockRepository(db)
	for i, change := range []float64{5.0, -3.0, 12.5, -8.0} {
		seedStock(t, repo, fmt.Sprintf("SYM%d", i), change)
	}
	handler := handlers.NewStockHandler(testutil.NewTestStockService(t, db, testutil.NewMockYahooClient()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stocks/market-movers", nil)
	w := httptest.NewRecorder()
	handler.MarketMovers(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var movers model.MarketMovers
	if err := json.NewDecoder(w.Body).Decode(&movers); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(movers.Gainers) != 4 || len(movers.Losers) != 4 {
		t.Fatalf("Expected both sides populated, got %d gainers and %d losers", len(movers.Gainers), len(movers.Losers))
	}
	if movers.Gainers[0].ChangePercent != 12.5 {
		t.Errorf("Expected top gainer 12.5, got %f", movers.Gainers[0].ChangePercent)
	}
	if movers.Losers[0].ChangePercent != -8.0 {
		t.Errorf("Expected top loser -8.0, got %f", movers.Losers[0].ChangePercent)
	}
}

func TestStockHandler_PopulateStocks(t *testing.T) {
	t.Run("returns the batch report", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewStockHandler(testutil.NewTestStockService(t, db, testutil.NewMockYahooClient()))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/stocks/populate-stocks", nil)
		w := httptest.NewRecorder()
		handler.PopulateStocks(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var report model.BatchReport
		if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if report.Attempted != len(testutil.DefaultSymbols) {
			t.Errorf("Expected %d attempted, got %d", len(testutil.DefaultSymbols), report.Attempted)
		}
		if report.Succeeded != len(testutil.DefaultSymbols) {
			t.Errorf("Expected %d succeeded, got %d", len(testutil.DefaultSymbols), report.Succeeded)
		}
		if !report.Updated {
			t.Error("Expected report to be marked updated")
		}
	})

	t.Run("records partial failures in the report", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockYahooClient().WithSymbolError("MSFT", apperrors.ErrNoQuoteData)
		handler := handlers.NewStockHandler(testutil.NewTestStockService(t, db, mock))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/stocks/populate-stocks", nil)
		w := httptest.NewRecorder()
		handler.PopulateStocks(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var report model.BatchReport
		if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if report.Failed != 1 {
			t.Errorf("Expected 1 failure, got %d", report.Failed)
		}
		if len(report.Failures) != 1 || report.Failures[0].Symbol != "MSFT" {
			t.Errorf("Expected MSFT failure recorded, got %+v", report.Failures)
		}
	})
}
