package auth

import (
	"net/http"
	"strings"
	"time"
)

const (
	// CookieName carries the session token.
	CookieName = "token"
	// clearedCookieValue overwrites the token on logout.
	clearedCookieValue = "none"
	clearedCookieTTL   = 10 * time.Second
)

// CookieConfig controls attributes of the session cookie.
type CookieConfig struct {
	// Secure marks the cookie HTTPS-only; enabled in production.
	Secure bool
}

// SetSession writes the session cookie for a freshly minted token.
func (c CookieConfig) SetSession(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear overwrites the session cookie with a placeholder that expires almost immediately.
func (c CookieConfig) Clear(w http.ResponseWriter, now time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    clearedCookieValue,
		Path:     "/",
		Expires:  now.Add(clearedCookieTTL),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// tokenFromRequest reads the session cookie, falling back to a bearer header.
func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" && cookie.Value != clearedCookieValue {
		return cookie.Value
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
