package models

// Role is the closed set of user roles. Authorization decisions switch over it
// exhaustively in core/access.
type Role string

const (
	RoleAdmin       Role = "Admin"
	RoleManager     Role = "Manager"
	RoleElectrician Role = "Electrician"
)

// Roles lists every role.
var Roles = []Role{RoleAdmin, RoleManager, RoleElectrician}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleElectrician:
		return true
	}
	return false
}

// UserStatus marks whether a user may sign in and receive work.
type UserStatus string

const (
	UserStatusActive   UserStatus = "Active"
	UserStatusInactive UserStatus = "Inactive"
)

func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}
