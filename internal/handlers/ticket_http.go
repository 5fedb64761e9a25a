package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"helpdesk/internal/auth"
	"helpdesk/internal/models"
	"helpdesk/internal/service"
	"helpdesk/internal/utils"
)

// TicketHTTP wires the ticket and remark endpoints to the ticket service.
type TicketHTTP struct {
	svc *service.TicketService
}

func NewTicketHTTP(svc *service.TicketService) *TicketHTTP {
	return &TicketHTTP{svc: svc}
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func ticketQuery(qv url.Values) service.TicketQuery {
	limit, offset := utils.Page(qv, 10)
	return service.TicketQuery{
		Q:            qv.Get("q"),
		Status:       qv.Get("status"),
		Severity:     qv.Get("severity"),
		DepartmentID: qv.Get("departmentId"),
		CategoryID:   qv.Get("categoryId"),
		AssigneeID:   qv.Get("assigneeId"),
		Sort:         qv.Get("sort"),
		Order:        qv.Get("order"),
		Limit:        limit,
		Offset:       offset,
	}
}

func writeTickets(w http.ResponseWriter, items []models.Ticket, total int) {
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	utils.JSON(w, http.StatusOK, listResponse[models.Ticket]{Items: items, Total: total})
}

// -----------------------------------------------------------------------------
// GET /api/tickets?q=&status=&severity=&departmentId=&categoryId=&assigneeId=&sort=&order=&limit=&offset=
// -----------------------------------------------------------------------------
func (h *TicketHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.FromContext(r.Context())
		items, total, err := h.svc.List(r.Context(), s, ticketQuery(r.URL.Query()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeTickets(w, items, total)
	}
}

// -----------------------------------------------------------------------------
// GET /api/tickets/user/{id}
// -----------------------------------------------------------------------------
func (h *TicketHTTP) ListByUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.FromContext(r.Context())
		items, total, err := h.svc.ListByUser(r.Context(), s, chi.URLParam(r, "id"), ticketQuery(r.URL.Query()))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeTickets(w, items, total)
	}
}

// -----------------------------------------------------------------------------
// GET /api/tickets/{id}
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.FromContext(r.Context())
		t, err := h.svc.Get(r.Context(), s, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// -----------------------------------------------------------------------------
// POST /api/tickets
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.CreateTicketInput
		if !decode(w, r, &in) {
			return
		}
		s, _ := auth.FromContext(r.Context())
		t, err := h.svc.Create(r.Context(), s, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, t)
	}
}

// -----------------------------------------------------------------------------
// PUT /api/tickets/{id}
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.UpdateTicketInput
		if !decode(w, r, &in) {
			return
		}
		s, _ := auth.FromContext(r.Context())
		t, err := h.svc.Update(r.Context(), s, chi.URLParam(r, "id"), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// -----------------------------------------------------------------------------
// GET /api/tickets/{id}/remarks
// -----------------------------------------------------------------------------
func (h *TicketHTTP) ListRemarks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := auth.FromContext(r.Context())
		items, err := h.svc.ListRemarks(r.Context(), s, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, items)
	}
}

// -----------------------------------------------------------------------------
// POST /api/tickets/{id}/remarks
// -----------------------------------------------------------------------------
func (h *TicketHTTP) AddRemark() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.AddRemarkInput
		if !decode(w, r, &in) {
			return
		}
		s, _ := auth.FromContext(r.Context())
		rm, err := h.svc.AddRemark(r.Context(), s, chi.URLParam(r, "id"), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, rm)
	}
}
