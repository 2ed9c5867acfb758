package auth

import (
	"net/http"
	"time"
)

const SessionCookieName = "token"

// CookiePolicy controls the session cookie attributes. Production cookies
// are Secure with SameSite=None; elsewhere SameSite=Strict.
type CookiePolicy struct {
	Production bool
	MaxAge     time.Duration
}

func (p CookiePolicy) sameSite() http.SameSite {
	if p.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}

func (p CookiePolicy) SetSessionCookie(w http.ResponseWriter, token string) {
	maxAge := p.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultTokenTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   p.Production,
		SameSite: p.sameSite(),
		MaxAge:   int(maxAge.Seconds()),
	})
}

func (p CookiePolicy) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.Production,
		SameSite: p.sameSite(),
	})
}

// SessionToken returns the token cookie value, or "" when absent.
func SessionToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
