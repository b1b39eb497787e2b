package models

import "strings"

// Operator roles (closed set).
type Role int

const (
	RoleOperator Role = iota
	RoleSupervisor
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleSupervisor:
		return "supervisor"
	case RoleAdmin:
		return "admin"
	default:
		return "operator"
	}
}

// ResolveRole maps the loosely typed role fields the service returns
// (a name string and/or a numeric level) onto exactly one Role. The
// name wins when recognizable, then the level, then the operator
// default. Total: never returns an unknown state.
func ResolveRole(name string, level int) Role {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "admin", "administrator":
		return RoleAdmin
	case "supervisor", "manager":
		return RoleSupervisor
	case "operator", "user":
		return RoleOperator
	}
	switch {
	case level >= 10:
		return RoleAdmin
	case level >= 5:
		return RoleSupervisor
	default:
		return RoleOperator
	}
}
