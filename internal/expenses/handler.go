package expenses

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kisanlog/kisanlog/internal/platform/httpx"
	"github.com/kisanlog/kisanlog/internal/shared"
)

// Handler exposes expense endpoints. Routes must sit behind the session middleware.
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

// MountRoutes registers expense routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	dates, err := shared.ParseDateRange(query.Get("from"), query.Get("to"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	page, perPage := httpx.PageParams(r)
	filter := ListFilter{
		Page:     page,
		PerPage:  perPage,
		Category: strings.ToLower(strings.TrimSpace(query.Get("category"))),
		Crop:     strings.TrimSpace(query.Get("crop")),
		Range:    dates,
	}

	items, total, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		h.fail(w, "list expenses failed", err, userID)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{
		"expenses":   items,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	expense, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		h.fail(w, "get expense failed", err, userID)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"expense": expense})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var in Input
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	expense, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		h.fail(w, "create expense failed", err, userID)
		return
	}
	httpx.OK(w, http.StatusCreated, httpx.Envelope{"expense": expense})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in Input
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	expense, err := h.service.Update(r.Context(), userID, id, in)
	if err != nil {
		h.fail(w, "update expense failed", err, userID)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"expense": expense})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.fail(w, "delete expense failed", err, userID)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"message": "Expense deleted"})
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := shared.UserIDFromContext(r.Context())
	if userID == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return "", false
	}
	return userID, true
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error, userID string) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error(msg, slog.String("user_id", userID), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
