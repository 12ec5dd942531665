package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "fundpulse/internal/errors"
	"fundpulse/internal/services"
	"fundpulse/pkg/contracts/domain"
)

var validate = validator.New()

// ChatHandler serves the data assistant conversation endpoint.
type ChatHandler struct {
	service      AssistantServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewChatHandler creates a chat handler.
func NewChatHandler(service AssistantServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChatHandler {
	return &ChatHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "chat_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the chat routes.
func (h *ChatHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Chat)
	return r
}

type chatRequest struct {
	Messages []domain.ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

// Chat handles POST /api/chat. The body carries the full conversation so far;
// the response is the assistant's next message.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("messages", "messages must be a non-empty list of {role, content}"))
		return
	}

	reply, err := h.service.Chat(r.Context(), req.Messages)
	if err != nil {
		if errors.Is(err, services.ErrNoUserMessage) {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("messages", "conversation must contain a user message"))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "chat completion served",
		slog.Int("turns", len(req.Messages)))
	render.JSON(w, r, reply)
}
