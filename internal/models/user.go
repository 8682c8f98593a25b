package models

// UserRole mirrors the role claim the platform gateway attaches to every
// request. This service never looks users up itself; identity and role are
// trusted from the request context.
type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleInstructor UserRole = "instructor"
	RoleAdmin      UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}
