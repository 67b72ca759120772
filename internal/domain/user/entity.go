package user

import "time"

type Role string

const (
	RoleFounder      Role = "FOUNDER"        // Top role - may act on anyone's shift
	RoleAdmin        Role = "AMMINISTRATORE" // Creates and manages collaborator shifts
	RoleCollaborator Role = "COLLABORATORE"  // Works shifts
)

// ValidRoles lists every accepted role value.
func ValidRoles() []string {
	return []string{string(RoleFounder), string(RoleAdmin), string(RoleCollaborator)}
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	PushToken    *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsFounder checks if the user holds the top role.
func (u *User) IsFounder() bool {
	return u.Role == RoleFounder
}

// IsStaffManager checks if the user may create and manage shifts.
func (u *User) IsStaffManager() bool {
	return u.Role == RoleAdmin || u.Role == RoleFounder
}

// Manages reports whether role r may manage shifts assigned to holders of
// target. Admins manage collaborators only; the founder manages everyone.
func Manages(r Role, target Role) bool {
	switch r {
	case RoleFounder:
		return true
	case RoleAdmin:
		return target == RoleCollaborator
	default:
		return false
	}
}
