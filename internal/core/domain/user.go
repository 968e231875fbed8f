package domain

type Role string

const (
	RoleGuest      Role = "GUEST"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

const StaffEmailDomain = "funsasuppliers.com"

func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role may open the admin dashboard.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// LandingView is the view a user of the role sees right after login.
func (r Role) LandingView() View {
	switch r {
	case RoleSuperAdmin:
		return ViewSuperAdmin
	case RoleAdmin:
		return ViewAdmin
	}
	return ViewHome
}

type User struct {
	ID    string
	Email string
	Name  string
	Role  Role
}
