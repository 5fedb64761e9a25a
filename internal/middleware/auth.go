package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"helpdesk/internal/auth"
	"helpdesk/internal/utils"
)

// SessionCookie carries the token for browser clients.
const SessionCookie = "session"

// Authenticate requires a valid token from the Authorization header or the
// session cookie. Requests without one stop here with 401; on success the
// caller's auth.Session is the only identity handlers see.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, fromCookie := bearer(r)
			if tok == "" {
				utils.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}

			s, err := utils.ParseJWT(secret, tok)
			if err != nil {
				if fromCookie {
					// clear broken/expired cookie so it stops being sent
					ClearSessionCookie(w)
				}
				hlog.FromRequest(r).Debug().Err(err).Msg("rejected token")
				utils.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("user_id", s.UserID)
			})
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), s)))
		})
	}
}

// bearer prefers the Authorization header over the cookie.
func bearer(r *http.Request) (tok string, fromCookie bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, v, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(v), false
		}
		return "", false
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value, true
	}
	return "", false
}

// SetSessionCookie stores tok in an HttpOnly cookie that lives as long as the token.
func SetSessionCookie(w http.ResponseWriter, tok string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   maxAge,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
