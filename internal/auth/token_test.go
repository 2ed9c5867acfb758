package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T, secret string, now time.Time) *TokenIssuer {
	t.Helper()
	iss, err := NewTokenIssuer([]byte(secret), 24*time.Hour)
	require.NoError(t, err)
	iss.now = func() time.Time { return now }
	return iss
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	now := time.Now()
	iss := newTestIssuer(t, "super-secret-value", now)

	tok, expires, err := iss.Issue("acc-1")
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(24*time.Hour), expires, time.Second)

	id, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", id)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-48 * time.Hour)
	tok, _, err := newTestIssuer(t, "super-secret-value", issuedAt).Issue("acc-1")
	require.NoError(t, err)

	_, err = newTestIssuer(t, "super-secret-value", time.Now()).Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	now := time.Now()
	tok, _, err := newTestIssuer(t, "right-secret-value", now).Issue("acc-1")
	require.NoError(t, err)

	_, err = newTestIssuer(t, "wrong-secret-value", now).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_TamperedPayload(t *testing.T) {
	iss := newTestIssuer(t, "super-secret-value", time.Now())
	tok, _, err := iss.Issue("acc-1")
	require.NoError(t, err)

	other, _, err := iss.Issue("acc-2")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	otherParts := strings.Split(other, ".")
	forged := parts[0] + "." + otherParts[1] + "." + parts[2]

	_, err = iss.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		AccountID: "acc-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("super-secret-value"))
	require.NoError(t, err)

	iss := newTestIssuer(t, "super-secret-value", time.Now())
	for _, tok := range []string{none, hs512} {
		_, err := iss.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestTokenIssuer_RequiresExpiryAndID(t *testing.T) {
	secret := []byte("super-secret-value")
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{AccountID: "acc-1"}).SignedString(secret)
	require.NoError(t, err)
	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(secret)
	require.NoError(t, err)

	iss := newTestIssuer(t, string(secret), time.Now())
	for _, tok := range []string{noExp, noID, "", "not.a.jwt"} {
		_, err := iss.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestNewTokenIssuer_Validation(t *testing.T) {
	_, err := NewTokenIssuer(nil, time.Hour)
	assert.Error(t, err)

	iss, err := NewTokenIssuer([]byte("k"), 0)
	require.NoError(t, err)
	_, expires, err := iss.Issue("acc-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), expires, time.Minute)

	_, _, err = iss.Issue("")
	assert.Error(t, err)
}
