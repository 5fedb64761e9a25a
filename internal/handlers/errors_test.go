package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"helpdesk/internal/service"
)

func TestWriteError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{fmt.Errorf("wrapped: %w", service.ErrForbidden), http.StatusForbidden, "forbidden"},
		{fmt.Errorf("%w: title is required", service.ErrValidation), http.StatusBadRequest, "title is required"},
		{service.ErrNotFound, http.StatusNotFound, "not found"},
		{errors.New(`pq: relation "tickets" does not exist`), http.StatusInternalServerError, "internal error"},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), c.err)
		if rec.Code != c.status || !strings.Contains(rec.Body.String(), c.body) {
			t.Fatalf("%v: %d %s", c.err, rec.Code, rec.Body)
		}
		if c.status == http.StatusInternalServerError && strings.Contains(rec.Body.String(), "relation") {
			t.Fatalf("internal detail leaked: %s", rec.Body)
		}
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	var in service.CreateTicketInput
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(
		`{"title":"Printer","severity":"Low","departmentId":"d1","createdById":"someone","department":"IT"}`))
	if !decode(rec, req, &in) {
		t.Fatalf("rejected unknown field: %d %s", rec.Code, rec.Body)
	}
	if in.Title != "Printer" || in.DepartmentID != "d1" {
		t.Fatalf("decoded %+v", in)
	}
}

func TestDecodeHidesDecoderDetail(t *testing.T) {
	for _, body := range []string{`{"content":`, `{"content":5}`, `{"content":"x"} []`} {
		var in service.AddRemarkInput
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		if decode(rec, req, &in) || rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: accepted, %d", body, rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"invalid json"}` {
			t.Fatalf("%s: body %s", body, got)
		}
	}
}
