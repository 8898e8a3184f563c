package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "lmedesk/internal/errors"
	"lmedesk/internal/services"
	"lmedesk/internal/trade"
)

// TradeHandler handles trade resolution requests.
type TradeHandler struct {
	service      *services.TradeService
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewTradeHandler creates a new trade handler.
func NewTradeHandler(service *services.TradeService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *TradeHandler {
	return &TradeHandler{
		service:      service,
		validator:    validator.New(),
		logger:       logger.With(slog.String("component", "trade_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the trade routes.
func (h *TradeHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/resolve", h.ResolveBatch)
	return r
}

// ResolveRequest is the batch resolution payload. Company is an optional
// batch-level account label applied to trades without their own.
type ResolveRequest struct {
	Company string        `json:"company"`
	Trades  []trade.Trade `json:"trades" validate:"required,min=1"`
}

// ResolveResponse carries per-trade results plus the aggregated block.
// Individual trade failures are reported inline; the endpoint itself only
// fails on a malformed request.
type ResolveResponse struct {
	Results []trade.BatchResult `json:"results"`
	Block   string              `json:"block"`
}

// ResolveBatch handles POST /api/trades/resolve.
func (h *TradeHandler) ResolveBatch(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("trades", "At least one trade is required"))
		return
	}

	results, block := h.service.ResolveBatch(r.Context(), req.Company, req.Trades)
	render.JSON(w, r, ResolveResponse{Results: results, Block: block})
}
