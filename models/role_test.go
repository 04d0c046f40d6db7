package models

import "testing"

func TestRole_Valid(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleManager, RoleMember} {
		if !role.Valid() {
			t.Errorf("expected role %q to be valid", role)
		}
	}

	for _, role := range []Role{"", "superuser", "Admin"} {
		if role.Valid() {
			t.Errorf("expected role %q to be invalid", role)
		}
	}
}

func TestRole_Can(t *testing.T) {
	tests := []struct {
		role       Role
		permission Permission
		want       bool
	}{
		{RoleAdmin, PermManageAccounts, true},
		{RoleAdmin, PermManageMembers, true},
		{RoleAdmin, PermViewMembers, true},

		{RoleManager, PermManageAccounts, false},
		{RoleManager, PermManageMembers, true},
		{RoleManager, PermViewMembers, true},

		{RoleMember, PermManageAccounts, false},
		{RoleMember, PermManageMembers, false},
		{RoleMember, PermViewMembers, true},

		{"superuser", PermViewMembers, false},
	}

	for _, tt := range tests {
		if got := tt.role.Can(tt.permission); got != tt.want {
			t.Errorf("%s.Can(%s) = %v, want %v", tt.role, tt.permission, got, tt.want)
		}
	}
}
