package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "fundpulse/internal/errors"
	"fundpulse/internal/services"
)

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// UploadHandler accepts report workbooks as multipart uploads.
type UploadHandler struct {
	service        IngestServiceInterface
	maxUploadBytes int64
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewUploadHandler creates an upload handler.
func NewUploadHandler(service IngestServiceInterface, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *UploadHandler {
	return &UploadHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "upload_handler")),
		errorHandler:   errorHandler,
	}
}

// Routes returns the upload routes.
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Upload)
	return r
}

// Upload handles POST /api/upload. The multipart form carries the
// workbook in "file", the report kind in "type" (valuation or trs) and an
// optional "date" used when the sheet itself has none.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			h.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusRequestEntityTooLarge, "upload_too_large", "uploaded file exceeds the size limit"))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "request is not a valid multipart form"))
		return
	}

	reportType := r.FormValue("type")
	if reportType != "valuation" && reportType != "trs" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("type", "type must be valuation or trs"))
		return
	}

	fallbackDate := r.FormValue("date")
	if fallbackDate != "" && !isoDateRe.MatchString(fallbackDate) {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("date", "date must be YYYY-MM-DD"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "file field is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "report upload received",
		slog.String("type", reportType),
		slog.String("filename", header.Filename),
		slog.Int("bytes", len(data)))

	switch reportType {
	case "valuation":
		metrics, err := h.service.IngestValuation(r.Context(), data, fallbackDate)
		if err != nil {
			h.errorHandler.HandleError(w, r, ingestErrorToAPI(err))
			return
		}
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, metrics)
	case "trs":
		report, err := h.service.IngestTrs(r.Context(), data, fallbackDate)
		if err != nil {
			h.errorHandler.HandleError(w, r, ingestErrorToAPI(err))
			return
		}
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, report)
	}
}

// ingestErrorToAPI maps ingest sentinel errors to API errors; anything else
// passes through for default handling.
func ingestErrorToAPI(err error) error {
	if errors.Is(err, services.ErrReportDateless) {
		return apierrors.UnprocessableError("the workbook contains no recognizable report date; supply a date field")
	}
	return err
}
