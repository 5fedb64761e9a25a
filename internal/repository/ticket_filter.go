package repository

type TicketFilter struct {
	Q            string
	Status       string
	Severity     string
	DepartmentID string
	CategoryID   string
	AssigneeID   string
	CreatedBy    string // set by the service for callers limited to their own tickets
	Limit        int
	Offset       int
	Sort         string // created_at, updated_at, severity
	Order        string // asc|desc
}

type UserFilter struct {
	Q      string
	Role   string
	Active *bool
	Limit  int
	Offset int
}

type ReportDimension string

const (
	ByStatus     ReportDimension = "status"
	BySeverity   ReportDimension = "severity"
	ByDepartment ReportDimension = "department"
	ByAgent      ReportDimension = "agent"
)

// SortColumn maps a requested sort key to a tickets column, defaulting to updated_at.
func SortColumn(s string) string {
	switch s {
	case "created_at", "updated_at":
		return s
	case "severity":
		return "severity_rank"
	default:
		return "updated_at"
	}
}

func SortOrder(o string) string {
	if o == "asc" {
		return "ASC"
	}
	return "DESC"
}

// ReportSQL returns the label expression and joins used to group tickets by d.
// Both are shared by the SQL dialects.
func ReportSQL(d ReportDimension) (label, joins string, ok bool) {
	switch d {
	case ByStatus:
		return "t.status", "", true
	case BySeverity:
		return "t.severity", "", true
	case ByDepartment:
		return "COALESCE(d.name, 'Unknown')", "LEFT JOIN departments d ON d.id = t.department_id", true
	case ByAgent:
		return "COALESCE(u.name, 'Unassigned')", "LEFT JOIN users u ON u.id = t.assignee_id", true
	}
	return "", "", false
}
