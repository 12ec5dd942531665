package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "fundpulse/internal/errors"
	"fundpulse/internal/services"
)

// DataHandler serves stored metrics and position history.
type DataHandler struct {
	service      DataServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a data handler.
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/metrics", h.GetMetrics)
	r.Get("/positions", h.GetPositions)
	return r
}

// GetMetrics handles GET /api/data/metrics?limit=N, returning daily metrics
// most recent first.
func (h *DataHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("limit", "limit must be a positive integer"))
			return
		}
		limit = n
	}

	metrics, err := h.service.LatestMetrics(r.Context(), limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, dataErrorToAPI(err))
		return
	}
	render.JSON(w, r, metrics)
}

// GetPositions handles GET /api/data/positions?date=YYYY-MM-DD. Without a
// date it returns the most recent report.
func (h *DataHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" && !isoDateRe.MatchString(date) {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("date", "date must be YYYY-MM-DD"))
		return
	}

	report, err := h.service.PositionsForDate(r.Context(), date)
	if err != nil {
		h.errorHandler.HandleError(w, r, dataErrorToAPI(err))
		return
	}
	render.JSON(w, r, report)
}

func dataErrorToAPI(err error) error {
	switch {
	case errors.Is(err, services.ErrNoMetricsFound):
		return apierrors.NotFoundError("metrics")
	case errors.Is(err, services.ErrNoPositionsFound):
		return apierrors.NotFoundError("positions")
	default:
		return err
	}
}
