package models

import (
	"strings"
	"time"
)

type Status string

const (
	StatusNew        Status = "New"
	StatusInProgress Status = "InProgress"
	StatusOnHold     Status = "OnHold"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
)

// Statuses in lifecycle order. Any member may be set from any other.
var Statuses = []Status{StatusNew, StatusInProgress, StatusOnHold, StatusResolved, StatusClosed}

// ParseStatus is case-insensitive and tolerates separators ("in progress",
// "on_hold"). "Open" is read as New.
func ParseStatus(s string) (Status, bool) {
	k := normalize(s)
	if k == "open" {
		return StatusNew, true
	}
	for _, st := range Statuses {
		if k == strings.ToLower(string(st)) {
			return st, true
		}
	}
	return "", false
}

// Closed reports whether the ticket no longer needs work.
func (s Status) Closed() bool { return s == StatusResolved || s == StatusClosed }

// ClosedStatuses returns the members of Statuses for which Closed is true.
func ClosedStatuses() []string {
	var out []string
	for _, st := range Statuses {
		if st.Closed() {
			out = append(out, string(st))
		}
	}
	return out
}

type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

func ParseSeverity(s string) (Severity, bool) {
	k := normalize(s)
	for _, sv := range Severities {
		if k == strings.ToLower(string(sv)) {
			return sv, true
		}
	}
	return "", false
}

// Rank orders severities for sorting, Low=1 .. Critical=4.
func (s Severity) Rank() int {
	for i, sv := range Severities {
		if s == sv {
			return i + 1
		}
	}
	return 0
}

func normalize(s string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

type Ticket struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Severity       Severity  `json:"severity"`
	Status         Status    `json:"status"`
	DepartmentID   string    `json:"departmentId"`
	DepartmentName string    `json:"departmentName,omitempty"`
	CategoryID     string    `json:"categoryId,omitempty"`
	CategoryName   string    `json:"categoryName,omitempty"`
	CreatedBy      string    `json:"createdById"`
	CreatorName    string    `json:"createdByName,omitempty"`
	AssigneeID     string    `json:"assignedToId,omitempty"`
	AssigneeName   string    `json:"assignedToName,omitempty"`
	AssigneeEmail  string    `json:"assignedToEmail,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Remark is append-only. Internal remarks are shown to staff only.
type Remark struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticketId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	Content    string    `json:"content"`
	IsInternal bool      `json:"isInternal"`
	CreatedAt  time.Time `json:"createdAt"`
}
