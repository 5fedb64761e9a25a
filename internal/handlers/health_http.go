package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"helpdesk/internal/utils"
)

// Health reports ok when ping succeeds. A nil ping only checks the process.
func Health(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("health check failed")
				utils.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
