package models

// UserRole is the role claim of an access token.
type UserRole string

const (
	// RoleAdmin may recompute, export and withdraw any application.
	RoleAdmin UserRole = "ADMIN"
	// RoleStudent submits and withdraws its own course applications.
	RoleStudent UserRole = "STUDENT"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleStudent:
		return true
	}
	return false
}
