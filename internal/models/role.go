package models

type Role string

const (
	RoleFamily     Role = "family"
	RoleCarer      Role = "carer"
	RoleManagement Role = "management"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleFamily, RoleCarer, RoleManagement:
		return true
	default:
		return false
	}
}
