package yields

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kisanlog/kisanlog/internal/platform/httpx"
	"github.com/kisanlog/kisanlog/internal/shared"
)

// Handler exposes yield endpoints behind the session middleware.
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

// MountRoutes registers yield routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID := shared.UserIDFromContext(r.Context())
	if userID == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	query := r.URL.Query()
	dates, err := shared.ParseDateRange(query.Get("from"), query.Get("to"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	page, perPage := httpx.PageParams(r)
	items, total, err := h.service.List(r.Context(), userID, ListFilter{
		Page:    page,
		PerPage: perPage,
		Crop:    strings.TrimSpace(query.Get("crop")),
		Range:   dates,
	})
	if err != nil {
		h.respond(w, "list yields failed", err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{
		"yields":     items,
		"pagination": shared.NewPagination(page, perPage, total),
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	userID := shared.UserIDFromContext(r.Context())
	if userID == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	y, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		h.respond(w, "get yield failed", err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"yield": y})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID := shared.UserIDFromContext(r.Context())
	if userID == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	var in Input
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	y, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		h.respond(w, "create yield failed", err)
		return
	}
	httpx.OK(w, http.StatusCreated, httpx.Envelope{"yield": y})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID := shared.UserIDFromContext(r.Context())
	if userID == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
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
	y, err := h.service.Update(r.Context(), userID, id, in)
	if err != nil {
		h.respond(w, "update yield failed", err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"yield": y})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID := shared.UserIDFromContext(r.Context())
	if userID == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.respond(w, "delete yield failed", err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"message": "Yield deleted"})
}

func (h *Handler) respond(w http.ResponseWriter, msg string, err error) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error(msg, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
