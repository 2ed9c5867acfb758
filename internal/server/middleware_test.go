package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authflow/internal/auth"
	"authflow/internal/logging"
)

const testSecret = "gate-test-secret-0123456789"

type verifierFunc func(string) (string, error)

func (f verifierFunc) Verify(token string) (string, error) { return f(token) }

func gateServer(t *testing.T, v TokenVerifier) (*Server, http.Handler) {
	t.Helper()
	s := &Server{Tokens: v, Logger: logging.Discard()}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"accountId": accountIDFromContext(r.Context())})
	})
	return s, s.requireAuth(next)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequireAuth(t *testing.T) {
	issuer, err := auth.NewTokenIssuer([]byte(testSecret), time.Hour)
	require.NoError(t, err)
	valid, _, err := issuer.Issue("acc-1")
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		AccountID: "acc-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	otherKey, _ := auth.NewTokenIssuer([]byte("another-secret-0123456789"), time.Hour)
	forged, _, err := otherKey.Issue("acc-1")
	require.NoError(t, err)

	tests := []struct {
		name       string
		cookie     string
		wantStatus int
		wantMsg    string
	}{
		{"no cookie", "", http.StatusUnauthorized, "Authentication required: No token provided"},
		{"garbage", "not-a-token", http.StatusUnauthorized, "Invalid token"},
		{"wrong signature", forged, http.StatusUnauthorized, "Invalid token"},
		{"expired", expired, http.StatusUnauthorized, "Token expired"},
		{"valid", valid, http.StatusOK, ""},
	}

	_, h := gateServer(t, issuer)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/is-auth", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			if tt.wantMsg != "" {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.wantMsg, body["message"])
				return
			}
			assert.Equal(t, "acc-1", body["accountId"])
		})
	}
}

func TestRequireAuth_UnexpectedVerifierError(t *testing.T) {
	called := false
	_, h := gateServer(t, verifierFunc(func(string) (string, error) {
		called = true
		return "", errors.New("keyring unavailable")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "x"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error during authentication", decodeBody(t, rec)["message"])
}

func TestRequireAuth_EmptyCookieSkipsVerify(t *testing.T) {
	_, h := gateServer(t, verifierFunc(func(string) (string, error) {
		t.Fatal("verify must not be called without a token")
		return "", nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: ""})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithRequestInfo(t *testing.T) {
	s := &Server{Logger: logging.Discard(), trustedProxies: parseProxyCIDRs([]string{"10.0.0.0/8"})}

	var got auth.RequestInfo
	h := s.withRequestInfo(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = auth.RequestInfoFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.1.2.3:4567"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.1.2.3")
	req.Header.Set("User-Agent", "curl/8.0")
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.5")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.7", got.IP)
	assert.Equal(t, "curl/8.0", got.UserAgent)
	assert.Equal(t, "de", got.Locale)
}

func TestClientIP_UntrustedIgnoresForwarded(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")

	assert.Equal(t, "198.51.100.1", clientIP(req, nil))
	assert.Equal(t, "198.51.100.1", clientIP(req, parseProxyCIDRs([]string{"10.0.0.1", "bogus"})))
	assert.Equal(t, "203.0.113.7", clientIP(req, parseProxyCIDRs([]string{"198.51.100.1"})))
}
