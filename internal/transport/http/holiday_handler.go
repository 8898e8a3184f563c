package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "lmedesk/internal/errors"
	"lmedesk/internal/services"
)

// HolidayHandler serves the loaded holiday data and feed refreshes.
type HolidayHandler struct {
	service      *services.TradeService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewHolidayHandler creates a new holiday handler.
func NewHolidayHandler(service *services.TradeService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *HolidayHandler {
	return &HolidayHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "holiday_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the holiday routes.
func (h *HolidayHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/{year}", h.GetYear)
	r.Post("/refresh", h.Refresh)
	return r
}

// YearResponse lists the holidays recorded for one year.
type YearResponse struct {
	Year  int      `json:"year"`
	Dates []string `json:"dates"`
}

// RefreshResponse reports a feed refresh outcome.
type RefreshResponse struct {
	Added int   `json:"added"`
	Years []int `json:"years"`
}

// GetYear handles GET /api/holidays/{year}. An unknown year returns an empty
// list, matching the engine's view that a missing year has no holidays.
func (h *HolidayHandler) GetYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year", "A valid year is required"))
		return
	}
	dates := h.service.HolidayDates(year)
	if dates == nil {
		dates = []string{}
	}
	render.JSON(w, r, YearResponse{Year: year, Dates: dates})
}

// Refresh handles POST /api/holidays/refresh.
func (h *HolidayHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	added, err := h.service.RefreshHolidays(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadGateway, "FEED_UNAVAILABLE", "Holiday feed unavailable", err.Error()))
		return
	}
	render.JSON(w, r, RefreshResponse{Added: added, Years: h.service.HolidayYears()})
}
