package credentials_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lmsdesk/go-admin-client/credentials"
)

func TestRoleValid(t *testing.T) {
	for _, role := range []credentials.Role{
		credentials.RoleDeveloper,
		credentials.RoleSuperAdmin,
		credentials.RoleAdmin,
		credentials.RoleTeacher,
		credentials.RoleStudent,
	} {
		require.True(t, role.Valid(), string(role))
	}
	require.False(t, credentials.Role("janitor").Valid())
}

func TestRoleIsAdministrative(t *testing.T) {
	require.True(t, credentials.RoleDeveloper.IsAdministrative())
	require.True(t, credentials.RoleSuperAdmin.IsAdministrative())
	require.True(t, credentials.RoleAdmin.IsAdministrative())
	require.False(t, credentials.RoleTeacher.IsAdministrative())
	require.False(t, credentials.RoleStudent.IsAdministrative())
}

func TestHasPermission(t *testing.T) {
	admin := &credentials.User{Role: credentials.RoleAdmin, Permissions: map[string]bool{"finance.view": true}}
	require.True(t, admin.HasPermission("finance.view"))
	require.False(t, admin.HasPermission("finance.edit"))

	super := &credentials.User{Role: credentials.RoleSuperAdmin}
	require.True(t, super.HasPermission("anything"))

	var nobody *credentials.User
	require.False(t, nobody.HasPermission("finance.view"))
}
