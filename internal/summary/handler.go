package summary

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kisanlog/kisanlog/internal/platform/httpx"
	"github.com/kisanlog/kisanlog/internal/shared"
)

// Handler serves the dashboard summary.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the summary route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.show)
}

// show handles GET /api/summary?from=&to=.
func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	userID := shared.UserIDFromContext(r.Context())
	if userID == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	dates, err := shared.ParseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	summary, err := h.service.Summary(r.Context(), userID, dates)
	if err != nil {
		h.logger.Error("summary failed", slog.String("user_id", userID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"summary": summary})
}
