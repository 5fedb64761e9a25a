package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"helpdesk/internal/service"
	"helpdesk/internal/utils"
)

// writeError maps service error kinds to statuses. Anything unclassified is
// logged and answered with a generic 500 so storage details never leak.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		utils.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		utils.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidation):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	default:
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		utils.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// decode reads the JSON body into dst, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := utils.DecodeJSON(w, r, dst); err != nil {
		hlog.FromRequest(r).Debug().Err(errors.Unwrap(err)).Str("path", r.URL.Path).Msg("bad request body")
		utils.Error(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
