// Package auth holds the caller session and the role/capability table that
// every authorization decision in the service goes through.
package auth

import "strings"

type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleSupervisor Role = "Supervisor"
	RoleSupport    Role = "Support"
	RoleUser       Role = "User"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleSupervisor, RoleSupport, RoleUser}

// ParseRole matches case-insensitively and returns the canonical role.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	for _, r := range Roles {
		if strings.EqualFold(s, string(r)) {
			return r, true
		}
	}
	return "", false
}

// Valid reports whether r is a canonical role name.
func (r Role) Valid() bool { return InSet(r, Roles...) }

type Capability int

const (
	ViewAllTickets Capability = iota
	EditAnyTicket
	WriteInternalRemarks
	ViewInternalRemarks
	ManageReferenceData
	ManageUsers
	ViewReports
)

var capabilities = map[Capability][]Role{
	ViewAllTickets:       {RoleAdmin, RoleSupervisor, RoleSupport},
	EditAnyTicket:        {RoleAdmin, RoleSupport},
	WriteInternalRemarks: {RoleAdmin, RoleSupport},
	ViewInternalRemarks:  {RoleAdmin, RoleSupervisor, RoleSupport},
	ManageReferenceData:  {RoleAdmin},
	ManageUsers:          {RoleAdmin},
	ViewReports:          {RoleAdmin, RoleSupervisor},
}

// Can reports whether r holds capability c.
func (r Role) Can(c Capability) bool {
	return InSet(r, capabilities[c]...)
}

// RolesWith returns the roles holding c, for route declarations.
func RolesWith(c Capability) []Role {
	out := make([]Role, len(capabilities[c]))
	copy(out, capabilities[c])
	return out
}

// InSet is the role gate: r must be one of allowed.
func InSet(r Role, allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
