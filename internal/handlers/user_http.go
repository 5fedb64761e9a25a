package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"helpdesk/internal/auth"
	"helpdesk/internal/models"
	"helpdesk/internal/service"
	"helpdesk/internal/utils"
)

type UserHTTP struct {
	svc *service.UserService
}

func NewUserHTTP(svc *service.UserService) *UserHTTP {
	return &UserHTTP{svc: svc}
}

// GET /api/users?q=&role=&active=&limit=&offset=
func (h *UserHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		limit, offset := utils.Page(qv, 20)
		s, _ := auth.FromContext(r.Context())
		users, total, err := h.svc.List(r.Context(), s, service.UserQuery{
			Q:      qv.Get("q"),
			Role:   qv.Get("role"),
			Active: utils.QueryBool(qv, "active"),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("X-Total-Count", strconv.Itoa(total))
		utils.JSON(w, http.StatusOK, listResponse[models.User]{Items: users, Total: total})
	}
}

// GET /api/users/{id}
func (h *UserHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.FromContext(r.Context())
		u, err := h.svc.Get(r.Context(), s, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, u)
	}
}

// POST /api/users
func (h *UserHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.CreateUserInput
		if !decode(w, r, &in) {
			return
		}
		s, _ := auth.FromContext(r.Context())
		u, err := h.svc.Create(r.Context(), s, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, u)
	}
}

// PUT /api/users/{id}
func (h *UserHTTP) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.UpdateUserInput
		if !decode(w, r, &in) {
			return
		}
		s, _ := auth.FromContext(r.Context())
		u, err := h.svc.Update(r.Context(), s, chi.URLParam(r, "id"), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, u)
	}
}

// DELETE /api/users/{id} deactivates the account.
func (h *UserHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.FromContext(r.Context())
		if err := h.svc.Deactivate(r.Context(), s, chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PUT /api/users/{id}/password
func (h *UserHTTP) ResetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.ResetPasswordInput
		if !decode(w, r, &in) {
			return
		}
		s, _ := auth.FromContext(r.Context())
		if err := h.svc.ResetPassword(r.Context(), s, chi.URLParam(r, "id"), in); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PUT /api/users/profile
func (h *UserHTTP) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.ProfileInput
		if !decode(w, r, &in) {
			return
		}
		s, _ := auth.FromContext(r.Context())
		u, err := h.svc.UpdateProfile(r.Context(), s, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, u)
	}
}
