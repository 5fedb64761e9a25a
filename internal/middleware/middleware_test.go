package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"helpdesk/internal/auth"
	"helpdesk/internal/utils"
)

const secret = "middleware-test-secret"

func whoami(w http.ResponseWriter, r *http.Request) {
	s, ok := auth.FromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = w.Write([]byte(s.UserID + "/" + string(s.Role)))
}

func token(t *testing.T, uid string, role auth.Role, ttl time.Duration) string {
	t.Helper()
	tok, err := utils.SignJWT(secret, uid, role, ttl)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestAuthenticate(t *testing.T) {
	h := Authenticate(secret)(http.HandlerFunc(whoami))
	good := token(t, "u1", auth.RoleSupport, time.Hour)

	cases := []struct {
		name   string
		header string
		cookie string
		status int
		body   string
	}{
		{"missing", "", "", http.StatusUnauthorized, ""},
		{"bearer", "Bearer " + good, "", http.StatusOK, "u1/Support"},
		{"lowercase scheme", "bearer " + good, "", http.StatusOK, "u1/Support"},
		{"cookie", "", good, http.StatusOK, "u1/Support"},
		{"basic scheme", "Basic abc", good, http.StatusUnauthorized, ""},
		{"garbage", "Bearer not-a-token", "", http.StatusUnauthorized, ""},
		{"expired", "Bearer " + token(t, "u1", auth.RoleUser, -time.Minute), "", http.StatusUnauthorized, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			if c.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: c.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != c.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, c.status, rec.Body)
			}
			if c.body != "" && rec.Body.String() != c.body {
				t.Fatalf("body = %q", rec.Body)
			}
		})
	}
}

func TestAuthenticate_ClearsBadCookie(t *testing.T) {
	h := Authenticate(secret)(http.HandlerFunc(whoami))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "stale"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Header().Get("Set-Cookie"), "Max-Age=0") {
		t.Fatalf("status %d set-cookie %q", rec.Code, rec.Header().Get("Set-Cookie"))
	}
}

func TestRequireRoles(t *testing.T) {
	h := Authenticate(secret)(RequireRoles(auth.RoleAdmin, auth.RoleSupervisor)(http.HandlerFunc(whoami)))
	for role, want := range map[auth.Role]int{
		auth.RoleAdmin:      http.StatusOK,
		auth.RoleSupervisor: http.StatusOK,
		auth.RoleSupport:    http.StatusForbidden,
		auth.RoleUser:       http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, "u", role, time.Hour))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("%s: status %d, want %d", role, rec.Code, want)
		}
	}

	// without Authenticate in front there is no session at all
	rec := httptest.NewRecorder()
	RequireCapability(auth.ViewReports)(http.HandlerFunc(whoami)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no session: %d", rec.Code)
	}
}

func TestRequireSelfOrRoles(t *testing.T) {
	r := chi.NewRouter()
	r.With(Authenticate(secret), RequireSelfOrRoles(auth.RoleAdmin)).Get("/users/{id}", whoami)

	cases := []struct {
		uid    string
		role   auth.Role
		path   string
		status int
	}{
		{"u1", auth.RoleUser, "/users/u1", http.StatusOK},
		{"u1", auth.RoleUser, "/users/u2", http.StatusForbidden},
		{"a1", auth.RoleAdmin, "/users/u2", http.StatusOK},
		{"s1", auth.RoleSupport, "/users/u2", http.StatusForbidden},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, c.path, nil)
		req.Header.Set("Authorization", "Bearer "+token(t, c.uid, c.role, time.Hour))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != c.status {
			t.Fatalf("%s %s: %d, want %d", c.uid, c.path, rec.Code, c.status)
		}
	}
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("db exploded: password=hunter2")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError || strings.Contains(rec.Body.String(), "hunter2") {
		t.Fatalf("status %d body %q", rec.Code, rec.Body)
	}
}
