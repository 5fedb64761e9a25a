package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"helpdesk/internal/auth"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

var reportRanges = map[string]int{"week": 7, "month": 30, "year": 365}

type ReportService struct {
	tickets repository.TicketRepository
	now     func() time.Time
}

func NewReportService(tickets repository.TicketRepository) *ReportService {
	return &ReportService{tickets: tickets, now: time.Now}
}

// ReportQuery names a grouping (status, severity, department, agent) and a
// window (week, month, year). Empty fields take the defaults status and month.
type ReportQuery struct {
	Type  string
	Range string
}

func (q ReportQuery) normalized() (ReportQuery, error) {
	q.Type = strings.ToLower(strings.TrimSpace(q.Type))
	q.Range = strings.ToLower(strings.TrimSpace(q.Range))
	if q.Type == "" {
		q.Type = string(repository.ByStatus)
	}
	if q.Range == "" {
		q.Range = "month"
	}
	if _, _, ok := repository.ReportSQL(repository.ReportDimension(q.Type)); !ok {
		return q, invalid("type must be one of status, severity, department, agent")
	}
	if _, ok := reportRanges[q.Range]; !ok {
		return q, invalid("range must be one of week, month, year")
	}
	return q, nil
}

// FileName is the attachment name of the CSV export.
func (q ReportQuery) FileName() string {
	return fmt.Sprintf("ticket-report-%s-%s.csv", q.Type, q.Range)
}

// Report counts tickets created inside the window. Status and severity
// reports list every enumeration member in canonical order, zeros included.
func (r *ReportService) Report(ctx context.Context, s auth.Session, q ReportQuery) ([]models.ReportRow, ReportQuery, error) {
	if err := canReport(s); err != nil {
		return nil, q, err
	}
	q, err := q.normalized()
	if err != nil {
		return nil, q, err
	}
	since := r.now().AddDate(0, 0, -reportRanges[q.Range])
	dim := repository.ReportDimension(q.Type)
	rows, err := r.tickets.CountBy(ctx, dim, since)
	if err != nil {
		return nil, q, err
	}
	switch dim {
	case repository.ByStatus:
		names := make([]string, len(models.Statuses))
		for i, st := range models.Statuses {
			names[i] = string(st)
		}
		rows = fill(names, rows)
	case repository.BySeverity:
		names := make([]string, len(models.Severities))
		for i, sv := range models.Severities {
			names[i] = string(sv)
		}
		rows = fill(names, rows)
	}
	return rows, q, nil
}

func fill(names []string, rows []models.ReportRow) []models.ReportRow {
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Name] = row.Value
	}
	out := make([]models.ReportRow, len(names))
	for i, n := range names {
		out[i] = models.ReportRow{Name: n, Value: counts[n]}
	}
	return out
}

// Summary returns the dashboard counters; resolved counts the last 7 days.
func (r *ReportService) Summary(ctx context.Context, s auth.Session) (models.Summary, error) {
	if err := canReport(s); err != nil {
		return models.Summary{}, err
	}
	return r.tickets.Summary(ctx, r.now().AddDate(0, 0, -7))
}

// ExportCSV writes the report as name,count rows and returns the normalized
// query for the attachment name.
func (r *ReportService) ExportCSV(ctx context.Context, s auth.Session, q ReportQuery, w io.Writer) (ReportQuery, error) {
	rows, q, err := r.Report(ctx, s, q)
	if err != nil {
		return q, err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "count"}); err != nil {
		return q, err
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.Name, strconv.Itoa(row.Value)}); err != nil {
			return q, err
		}
	}
	cw.Flush()
	return q, cw.Error()
}

func canReport(s auth.Session) error {
	if !s.Valid() {
		return ErrUnauthenticated
	}
	if !s.Can(auth.ViewReports) {
		return forbidden("reports are limited to admins and supervisors")
	}
	return nil
}
