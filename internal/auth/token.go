package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kisanlog/kisanlog/internal/shared"
)

// DefaultTokenTTL is the validity window of a session token.
const DefaultTokenTTL = 30 * 24 * time.Hour

var (
	// ErrMissingSecret is returned when the issuer is built without a signing key.
	ErrMissingSecret = errors.New("auth: signing secret is required")
	// ErrInvalidToken indicates a malformed token or a signature mismatch.
	ErrInvalidToken = fmt.Errorf("%w: invalid token", shared.ErrUnauthorized)
	// ErrExpiredToken indicates the token expiration has passed.
	ErrExpiredToken = fmt.Errorf("%w: token expired", shared.ErrUnauthorized)
)

// Claims is the payload carried by a session token.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies HMAC-signed session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer constructs an Issuer. An empty secret is rejected because it
// would let anyone forge tokens.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Mint produces a signed token for the user.
func (i *Issuer) Mint(userID string) (string, *Claims, error) {
	now := i.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify checks signature and expiration and returns the embedded claims.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
