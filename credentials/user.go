package credentials

// Role represents an administrative role on the platform.
type Role string

const (
	RoleDeveloper  Role = "developer"  // Platform developers, can edit runtime settings
	RoleSuperAdmin Role = "superadmin" // Can manage admins and all tenant data
	RoleAdmin      Role = "admin"      // Day-to-day administration
	RoleTeacher    Role = "teacher"
	RoleStudent    Role = "student"
)

// Valid reports whether r is one of the known platform roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDeveloper, RoleSuperAdmin, RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// IsAdministrative reports whether the role grants access to the admin area.
func (r Role) IsAdministrative() bool {
	switch r {
	case RoleDeveloper, RoleSuperAdmin, RoleAdmin:
		return true
	}
	return false
}

// User is the identity record returned by the login and refresh endpoints.
// It is owned by the Store: replaced wholesale on login, cleared on logout.
type User struct {
	ID          int64           `json:"id"`
	Email       string          `json:"email"`
	Role        Role            `json:"role"`
	Permissions map[string]bool `json:"permissions,omitempty"`
}

// HasPermission reports whether the user carries an explicit permission grant.
// Roles above admin are implicitly granted everything.
func (u *User) HasPermission(key string) bool {
	if u == nil {
		return false
	}
	if u.Role == RoleDeveloper || u.Role == RoleSuperAdmin {
		return true
	}
	return u.Permissions[key]
}
