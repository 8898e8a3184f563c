package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "lmedesk/internal/errors"
	"lmedesk/internal/services"
)

// CalendarHandler exposes the business-day calculator. Months on the wire
// are 1-based; the calculator itself counts pricing months from zero.
type CalendarHandler struct {
	service      *services.TradeService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(service *services.TradeService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CalendarHandler {
	return &CalendarHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "calendar_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the calendar routes.
func (h *CalendarHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/second-business-day", h.SecondBusinessDay)
	r.Get("/last-business-day", h.LastBusinessDay)
	r.Get("/fix-ppt", h.FixPPT)
	return r
}

// DateResponse wraps a single computed date.
type DateResponse struct {
	Date string `json:"date"`
}

func (h *CalendarHandler) monthQuery(r *http.Request) (int, int, error) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		return 0, 0, apierrors.ErrValidation("year", "A valid year is required")
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, apierrors.ErrValidation("month", fmt.Sprintf("Month must be between 1 and 12, got %q", r.URL.Query().Get("month")))
	}
	return year, month - 1, nil
}

// SecondBusinessDay handles GET /api/calendar/second-business-day.
func (h *CalendarHandler) SecondBusinessDay(w http.ResponseWriter, r *http.Request) {
	year, month0, err := h.monthQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, DateResponse{Date: h.service.SecondBusinessDay(year, month0)})
}

// LastBusinessDay handles GET /api/calendar/last-business-day.
func (h *CalendarHandler) LastBusinessDay(w http.ResponseWriter, r *http.Request) {
	year, month0, err := h.monthQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, DateResponse{Date: h.service.LastBusinessDay(year, month0)})
}

// FixPPT handles GET /api/calendar/fix-ppt.
func (h *CalendarHandler) FixPPT(w http.ResponseWriter, r *http.Request) {
	date, err := h.service.FixPPT(r.URL.Query().Get("date"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("date", err.Error()))
		return
	}
	render.JSON(w, r, DateResponse{Date: date})
}
