package constants

// Roles as stored in users.user_role.
const (
	RoleAdministrator = "administrator"
	RoleManager       = "manager"
	RoleAttendant     = "attendant"
	RoleInstructor    = "instructor"
	RoleStudent       = "student"
	RolePending       = "pending"
)

// ==========================
// Grouped role slices
// ==========================
var (
	AllRoles = []string{
		RoleAdministrator,
		RoleManager,
		RoleAttendant,
		RoleInstructor,
		RoleStudent,
		RolePending,
	}

	// StaffRoles may collect cash and receive payouts.
	StaffRoles = []string{
		RoleAdministrator,
		RoleManager,
		RoleAttendant,
		RoleInstructor,
	}

	ManagerAndAbove = []string{
		RoleAdministrator,
		RoleManager,
	}
)

func IsStaffRole(role string) bool {
	for _, r := range StaffRoles {
		if r == role {
			return true
		}
	}
	return false
}
