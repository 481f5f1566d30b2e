package auth

import (
	"strings"
	"time"
)

// User represents a registered farmer account.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile"`
	Location     string    `json:"location"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the projection of User that is safe to return to clients.
type PublicUser struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Location string `json:"location"`
	Mobile   string `json:"mobile"`
}

// Public returns the sanitized projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Location: u.Location,
		Mobile:   u.Mobile,
	}
}

// RegisterRequest is the payload accepted by the register endpoint.
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Mobile   string `json:"mobile" validate:"required"`
	Location string `json:"location" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Normalize trims the free-text fields and lowercases the email.
// The password is kept verbatim.
func (r *RegisterRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = NormalizeEmail(r.Email)
	r.Mobile = strings.TrimSpace(r.Mobile)
	r.Location = strings.TrimSpace(r.Location)
}

// LoginRequest is the payload accepted by the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Normalize lowercases the email.
func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

// NormalizeEmail returns the canonical form used for lookups and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
