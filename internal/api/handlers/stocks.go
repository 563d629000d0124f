package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"stockmarket/internal/api/response"
	"stockmarket/internal/apperrors"
	"stockmarket/internal/service"
)

// StockHandler handles stock-related HTTP requests
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// isAbsence reports whether err means "no record produced" rather than an
// internal fault. Absence maps to 404 at the HTTP boundary.
func isAbsence(err error) bool {
	return errors.Is(err, apperrors.ErrStockNotFound) ||
		errors.Is(err, apperrors.ErrNoQuoteData) ||
		errors.Is(err, apperrors.ErrQuoteTransport) ||
		errors.Is(err, apperrors.ErrQuoteParse)
}

// GetAllStocks handles GET /api/v1/stocks/ and returns all active stocks.
func (h *StockHandler) GetAllStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.stockService.GetAllStocks(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve stocks", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, stocks)
}

// GetStock handles GET /api/v1/stocks/stock/{symbol}. It fetches fresh quote
// data, upserts it, and returns the stored row, or 404 when the provider
// produced no record.
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		response.RespondError(w, http.StatusBadRequest, "symbol is required", nil)
		return
	}

	stock, err := h.stockService.UpdateStock(r.Context(), symbol)
	if err != nil {
		if isAbsence(err) {
			response.RespondError(w, http.StatusNotFound, "stock not found", nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update stock", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, stock)
}

// UpdateStock handles POST /api/v1/stocks/update/{symbol}, the explicit
// update verb for the same fetch+upsert path as GetStock.
func (h *StockHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	h.GetStock(w, r)
}

// limitParam parses the limit query parameter, defaulting to 5.
func limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 5, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, apperrors.ErrInvalidLimit
	}
	return limit, nil
}

// TopGainers handles GET /api/v1/stocks/gainers?limit=N.
func (h *StockHandler) TopGainers(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	stocks, err := h.stockService.TopGainers(r.Context(), limit)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve gainers", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, stocks)
}

// TopLosers handles GET /api/v1/stocks/losers?limit=N.
func (h *StockHandler) TopLosers(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	stocks, err := h.stockService.TopLosers(r.Context(), limit)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve losers", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, stocks)
}

// MarketMovers handles GET /api/v1/stocks/market-movers and returns the top
// gainers and losers in one payload.
func (h *StockHandler) MarketMovers(w http.ResponseWriter, r *http.Request) {
	movers, err := h.stockService.MarketMovers(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve market movers", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, movers)
}

// PopulateStocks handles GET|POST /api/v1/stocks/populate-stocks and triggers
// the freshness-gate-guarded batch update, returning the batch report.
func (h *StockHandler) PopulateStocks(w http.ResponseWriter, r *http.Request) {
	report, err := h.stockService.PopulateStocks(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to populate stocks", err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, report)
}
