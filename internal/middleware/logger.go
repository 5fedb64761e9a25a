package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RequestLogger attaches log to every request with a request id and the
// client address, and writes one access line per request.
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	access := hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		ev := hlog.FromRequest(r).Info()
		if status >= http.StatusInternalServerError {
			ev = hlog.FromRequest(r).Error()
		}
		ev.Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})
	return func(next http.Handler) http.Handler {
		h := access(next)
		h = hlog.RemoteAddrHandler("ip")(h)
		h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
		return hlog.NewHandler(log)(h)
	}
}
