package handlers

import (
	"net/http"

	"helpdesk/internal/auth"
	"helpdesk/internal/middleware"
	"helpdesk/internal/models"
	"helpdesk/internal/service"
	"helpdesk/internal/utils"
)

type AuthHTTP struct {
	svc    *service.AuthService
	secure bool // Secure flag on the session cookie
}

func NewAuthHTTP(s *service.AuthService, secureCookie bool) *AuthHTTP {
	return &AuthHTTP{svc: s, secure: secureCookie}
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// POST /api/auth/register
func (h *AuthHTTP) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.RegisterInput
		if !decode(w, r, &in) {
			return
		}
		tok, u, err := h.svc.Register(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		h.issueCookie(w, tok)
		utils.JSON(w, http.StatusCreated, tokenResponse{Token: tok, User: u})
	}
}

// POST /api/auth/login
// Body: {email|username, password}
func (h *AuthHTTP) Login() http.HandlerFunc {
	type inDTO struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if !decode(w, r, &in) {
			return
		}
		login := in.Email
		if login == "" {
			login = in.Username
		}
		tok, u, err := h.svc.Login(r.Context(), login, in.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}
		h.issueCookie(w, tok)
		utils.JSON(w, http.StatusOK, tokenResponse{Token: tok, User: u})
	}
}

// POST /api/auth/logout
func (h *AuthHTTP) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.ClearSessionCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /api/auth/me
func (h *AuthHTTP) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.FromContext(r.Context())
		u, err := h.svc.Me(r.Context(), s)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, u)
	}
}

func (h *AuthHTTP) issueCookie(w http.ResponseWriter, tok string) {
	middleware.SetSessionCookie(w, tok, int(h.svc.TokenTTL().Seconds()), h.secure)
}
