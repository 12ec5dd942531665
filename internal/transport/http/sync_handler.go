package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "fundpulse/internal/errors"
	"fundpulse/pkg/contracts/domain"
)

// SyncHandler triggers a full ingest of the storage bucket.
type SyncHandler struct {
	service      SyncServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSyncHandler creates a sync handler.
func NewSyncHandler(service SyncServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SyncHandler {
	return &SyncHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "sync_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the sync routes.
func (h *SyncHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Sync)
	return r
}

type syncResponse struct {
	Synced  int                 `json:"synced"`
	Failed  int                 `json:"failed"`
	Results []domain.SyncResult `json:"results"`
}

// Sync handles POST /api/sync. It walks every dated folder in the
// bucket and reports a per-folder outcome.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.SyncAll(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := syncResponse{Results: results}
	for _, res := range results {
		if res.Status == domain.SyncStatusSuccess {
			resp.Synced++
		} else {
			resp.Failed++
		}
	}

	h.logger.InfoContext(r.Context(), "sync request completed",
		slog.Int("synced", resp.Synced),
		slog.Int("failed", resp.Failed))
	render.JSON(w, r, resp)
}
