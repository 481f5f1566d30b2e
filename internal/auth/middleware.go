package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kisanlog/kisanlog/internal/platform/httpx"
	"github.com/kisanlog/kisanlog/internal/shared"
)

// notAuthorizedMessage is returned for every rejected session.
const notAuthorizedMessage = "Not authorized, please log in"

// UserLookup resolves a user by identifier.
type UserLookup interface {
	UserByID(ctx context.Context, id string) (*User, error)
}

// Middleware gates protected routes behind a valid session token.
type Middleware struct {
	issuer  *Issuer
	users   UserLookup
	revoker Revoker
	logger  *slog.Logger
}

// NewMiddleware constructs the session middleware. revoker may be nil.
func NewMiddleware(logger *slog.Logger, issuer *Issuer, users UserLookup, revoker Revoker) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &Middleware{issuer: issuer, users: users, revoker: revoker, logger: logger}
}

// Require rejects the request with 401 unless it carries a valid, unrevoked
// token for an existing user, which is then attached to the request context.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFromRequest(r)
		if raw == "" {
			httpx.Fail(w, http.StatusUnauthorized, notAuthorizedMessage)
			return
		}

		claims, err := m.issuer.Verify(raw)
		if err != nil {
			m.logger.Debug("session rejected", slog.Any("error", err))
			httpx.Fail(w, http.StatusUnauthorized, notAuthorizedMessage)
			return
		}

		if m.revoker != nil {
			revoked, err := m.revoker.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				m.logger.Warn("revocation lookup failed", slog.Any("error", err))
			} else if revoked {
				httpx.Fail(w, http.StatusUnauthorized, notAuthorizedMessage)
				return
			}
		}

		user, err := m.users.UserByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				httpx.Fail(w, http.StatusUnauthorized, notAuthorizedMessage)
				return
			}
			m.logger.Error("resolve session user", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}

		stripped := *user
		stripped.PasswordHash = ""
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), &stripped)))
	})
}
