package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/hlog"

	"helpdesk/internal/utils"
)

// Recoverer turns a handler panic into a logged 500 with a generic body.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			hlog.FromRequest(r).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic")
			utils.Error(w, http.StatusInternalServerError, "internal error")
		}()
		next.ServeHTTP(w, r)
	})
}
