package handlers

import (
	"bytes"
	"net/http"

	"helpdesk/internal/auth"
	"helpdesk/internal/service"
	"helpdesk/internal/utils"
)

type ReportsHTTP struct {
	svc *service.ReportService
}

func NewReportsHTTP(svc *service.ReportService) *ReportsHTTP { return &ReportsHTTP{svc: svc} }

func reportQuery(r *http.Request) service.ReportQuery {
	qv := r.URL.Query()
	return service.ReportQuery{Type: qv.Get("type"), Range: qv.Get("range")}
}

// GET /api/reports?type=status|severity|department|agent&range=week|month|year
// Returns: [{name, value}]
func (h *ReportsHTTP) Report() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.FromContext(r.Context())
		rows, _, err := h.svc.Report(r.Context(), s, reportQuery(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, rows)
	}
}

// GET /api/reports/summary
// Returns: { open, resolved7d, highCriticalOpen }
func (h *ReportsHTTP) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.FromContext(r.Context())
		sum, err := h.svc.Summary(r.Context(), s)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, sum)
	}
}

// GET /api/reports/export?type=&range=
func (h *ReportsHTTP) Export() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.FromContext(r.Context())
		// buffered so a failure can still be answered as JSON
		var buf bytes.Buffer
		q, err := h.svc.ExportCSV(r.Context(), s, reportQuery(r), &buf)
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+q.FileName()+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}
