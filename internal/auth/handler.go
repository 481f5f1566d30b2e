package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kisanlog/kisanlog/internal/platform/httpx"
	"github.com/kisanlog/kisanlog/internal/shared"
)

// Outcome labels reported to the Recorder.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Recorder observes authentication outcomes, typically as metrics.
type Recorder interface {
	ObserveAuth(action, outcome string)
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	issuer   *Issuer
	revoker  Revoker
	cookies  CookieConfig
	recorder Recorder
	now      func() time.Time
}

// HandlerOptions carries the optional collaborators of Handler.
type HandlerOptions struct {
	Cookies  CookieConfig
	Revoker  Revoker
	Recorder Recorder
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, issuer *Issuer, opts HandlerOptions) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		issuer:   issuer,
		revoker:  opts.Revoker,
		cookies:  opts.Cookies,
		recorder: opts.Recorder,
		now:      time.Now,
	}
}

// MountRoutes registers auth routes on provided router. requireSession
// guards the identity endpoint.
func (h *Handler) MountRoutes(r chi.Router, requireSession func(http.Handler) http.Handler) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Get("/logout", h.handleLogout)
	r.With(requireSession).Get("/me", h.handleMe)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.observe("register", OutcomeInvalid)
		httpx.Fail(w, http.StatusBadRequest, "Please provide all required fields")
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			h.observe("register", OutcomeInvalid)
			httpx.Fail(w, http.StatusBadRequest, "User with this email already exists")
			return
		}
		h.observe("register", OutcomeError)
		h.logger.Error("register failed", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	h.logger.Info("user registered", slog.String("user_id", user.ID))
	h.observe("register", OutcomeSuccess)
	h.sendSession(w, user, http.StatusCreated)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.observe("login", OutcomeInvalid)
		httpx.Fail(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			h.observe("login", OutcomeInvalid)
			httpx.Fail(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.observe("login", OutcomeError)
		h.logger.Error("login failed", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	h.logger.Info("login successful", slog.String("user_id", user.ID))
	h.observe("login", OutcomeSuccess)
	h.sendSession(w, user, http.StatusOK)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if h.revoker != nil {
		if raw := tokenFromRequest(r); raw != "" {
			if claims, err := h.issuer.Verify(raw); err == nil {
				if err := h.revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
					h.logger.Warn("revoke token", slog.Any("error", err))
				}
			}
		}
	}
	h.cookies.Clear(w, h.now())
	h.observe("logout", OutcomeSuccess)
	httpx.OK(w, http.StatusOK, httpx.Envelope{"message": "Logged out successfully"})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		httpx.Fail(w, http.StatusUnauthorized, notAuthorizedMessage)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"user": user.Public()})
}

func (h *Handler) sendSession(w http.ResponseWriter, user *User, status int) {
	token, claims, err := h.issuer.Mint(user.ID)
	if err != nil {
		h.logger.Error("mint token", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, httpx.InternalErrorMessage)
		return
	}
	h.cookies.SetSession(w, token, claims.ExpiresAt.Time)
	httpx.OK(w, status, httpx.Envelope{"user": user.Public()})
}

func (h *Handler) observe(action, outcome string) {
	if h.recorder != nil {
		h.recorder.ObserveAuth(action, outcome)
	}
}
