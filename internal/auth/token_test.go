package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kisanlog/kisanlog/internal/shared"
)

func TestMintAndVerify(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer("super-secret", time.Hour)
	require.NoError(t, err)

	tok, minted, err := issuer.Mint("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, minted.ID)

	claims, err := issuer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, minted.ID, claims.ID)
}

func TestDefaultTTLIsThirtyDays(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, issuer.ttl)

	_, claims, err := issuer.Mint("u1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestVerifyExpiredAfterShortWindow(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer("secret", time.Second)
	require.NoError(t, err)
	start := time.Now()
	issuer.now = func() time.Time { return start }

	tok, _, err := issuer.Mint("u1")
	require.NoError(t, err)

	_, err = issuer.Verify(tok)
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(2 * time.Second) }
	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	right, err := NewIssuer("right-secret", time.Hour)
	require.NoError(t, err)
	wrong, err := NewIssuer("wrong-secret", time.Hour)
	require.NoError(t, err)

	tok, _, err := right.Mint("u2")
	require.NoError(t, err)

	_, err = wrong.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer("k", time.Hour)
	require.NoError(t, err)

	for _, raw := range []string{"", "not.a.jwt", "none"} {
		_, err := issuer.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewIssuer("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}
