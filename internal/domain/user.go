package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleHirer  UserRole = "hirer"
	UserRoleTalent UserRole = "talent"
	UserRoleAdmin  UserRole = "admin"
	UserRoleLegal  UserRole = "legal"
)

// User represents an account within the platform. Accounts are owned by the
// authentication collaborator; this core reads them but never mutates them.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      UserRole
	Locale    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsStaff reports whether the role carries platform-operator privileges.
func (r UserRole) IsStaff() bool {
	return r == UserRoleAdmin || r == UserRoleLegal
}

func (u User) IsStaff() bool {
	return u.Role.IsStaff()
}
