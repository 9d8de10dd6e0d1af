package utils

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "Authorization"

// SessionCookie renders the Set-Cookie value for a session token. The
// cookie is always HttpOnly; Secure is added for production deployments.
func SessionCookie(token string, ttl time.Duration, secure bool) string {
	return sessionCookie(token, int(ttl/time.Second), secure)
}

// ClearSessionCookie renders a Set-Cookie value that makes the browser drop
// the session cookie immediately (Max-Age=0).
func ClearSessionCookie(secure bool) string {
	return sessionCookie("", -1, secure)
}

func sessionCookie(value string, maxAge int, secure bool) string {
	c := &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return c.String()
}
