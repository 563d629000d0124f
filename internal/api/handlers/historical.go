package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stockmarket/internal/api/response"
	"stockmarket/internal/apperrors"
	"stockmarket/internal/service"
)

// HistoricalHandler handles historical price series requests.
type HistoricalHandler struct {
	stockService *service.StockService
}

// NewHistoricalHandler creates a new HistoricalHandler
func NewHistoricalHandler(stockService *service.StockService) *HistoricalHandler {
	return &HistoricalHandler{
		stockService: stockService,
	}
}

// GetHistorical handles GET /api/v1/historical/{symbol}?period=P where P is
// one of 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max (default 1mo).
// Responds 404 when the provider returns an empty series.
func (h *HistoricalHandler) GetHistorical(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		response.RespondError(w, http.StatusBadRequest, "symbol is required", nil)
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "1mo"
	}

	bars, err := h.stockService.HistoricalSeries(r.Context(), symbol, period)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidPeriod):
			response.RespondError(w, http.StatusBadRequest, "invalid period", period)
		case isAbsence(err):
			response.RespondError(w, http.StatusNotFound, "historical data not found", nil)
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to retrieve historical data", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, bars)
}
