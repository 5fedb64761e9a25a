package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"helpdesk/internal/auth"
	"helpdesk/internal/service"
	"helpdesk/internal/utils"
)

// LookupHTTP serves departments or categories.
type LookupHTTP struct {
	svc *service.LookupService
}

func NewLookupHTTP(svc *service.LookupService) *LookupHTTP { return &LookupHTTP{svc: svc} }

func (h *LookupHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.FromContext(r.Context())
		rows, err := h.svc.List(r.Context(), s)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, rows)
	}
}

func (h *LookupHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.FromContext(r.Context())
		row, err := h.svc.Get(r.Context(), s, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, row)
	}
}

func (h *LookupHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.LookupInput
		if !decode(w, r, &in) {
			return
		}
		s, _ := auth.FromContext(r.Context())
		row, err := h.svc.Create(r.Context(), s, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, row)
	}
}

func (h *LookupHTTP) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.LookupInput
		if !decode(w, r, &in) {
			return
		}
		s, _ := auth.FromContext(r.Context())
		row, err := h.svc.Update(r.Context(), s, chi.URLParam(r, "id"), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, row)
	}
}

func (h *LookupHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.FromContext(r.Context())
		if err := h.svc.Delete(r.Context(), s, chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type SeverityHTTP struct {
	svc *service.SeverityService
}

func NewSeverityHTTP(svc *service.SeverityService) *SeverityHTTP { return &SeverityHTTP{svc: svc} }

func (h *SeverityHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.FromContext(r.Context())
		rows, err := h.svc.List(r.Context(), s)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, rows)
	}
}

func (h *SeverityHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.FromContext(r.Context())
		row, err := h.svc.Get(r.Context(), s, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, row)
	}
}

func (h *SeverityHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.SeverityInput
		if !decode(w, r, &in) {
			return
		}
		s, _ := auth.FromContext(r.Context())
		row, err := h.svc.Create(r.Context(), s, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, row)
	}
}

func (h *SeverityHTTP) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.SeverityInput
		if !decode(w, r, &in) {
			return
		}
		s, _ := auth.FromContext(r.Context())
		row, err := h.svc.Update(r.Context(), s, chi.URLParam(r, "id"), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, row)
	}
}

func (h *SeverityHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.FromContext(r.Context())
		if err := h.svc.Delete(r.Context(), s, chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
