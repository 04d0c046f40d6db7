package models

// Role is the closed set of account roles. Authorization decisions go
// through the permission-set lookup below instead of comparing role
// strings at call sites.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

// Permission names a single guarded capability of the API surface.
type Permission string

const (
	// PermManageAccounts allows creating, deactivating, and reactivating
	// accounts and changing account roles.
	PermManageAccounts Permission = "accounts:manage"

	// PermManageMembers allows writes to the member directory.
	PermManageMembers Permission = "members:manage"

	// PermViewMembers allows reads from the member directory.
	PermViewMembers Permission = "members:view"
)

// rolePermissions is the authoritative permission set per role.
var rolePermissions = map[Role]map[Permission]struct{}{
	RoleAdmin: {
		PermManageAccounts: {},
		PermManageMembers:  {},
		PermViewMembers:    {},
	},
	RoleManager: {
		PermManageMembers: {},
		PermViewMembers:   {},
	},
	RoleMember: {
		PermViewMembers: {},
	},
}

// Valid reports whether r is one of the closed role set.
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Can reports whether the role grants the given permission.
// Unknown roles grant nothing.
func (r Role) Can(p Permission) bool {
	perms, ok := rolePermissions[r]
	if !ok {
		return false
	}
	_, ok = perms[p]
	return ok
}
