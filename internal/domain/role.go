package domain

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "USER"
	RoleOwner Role = "OWNER"
	RoleAdmin Role = "ADMIN"
)

// IsValid checks if the role is one of the predefined valid roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleOwner, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanOwnStore checks if accounts with this role may be assigned a store.
func (r Role) CanOwnStore() bool {
	switch r {
	case RoleOwner, RoleAdmin:
		return true
	default:
		return false
	}
}

// AllRoles returns all predefined roles.
func AllRoles() []Role {
	return []Role{RoleUser, RoleOwner, RoleAdmin}
}

// ParseRole safely parses a string into a Role.
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	return role, role.IsValid()
}
