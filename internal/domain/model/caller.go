package model

// CallerContext identifies the authenticated caller of a use case. It is
// passed explicitly into every mutating operation; there is no ambient
// request-scoped lookup.
type CallerContext struct {
	UserID string
	Roles  []string
}

func (c CallerContext) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the caller has unrestricted visibility.
func (c CallerContext) IsAdmin() bool {
	return c.HasRole(RoleSuperAdmin) || c.HasRole(RoleAdmin)
}

// CanActOn reports whether the caller may mutate a resource owned by
// ownerID: admins may act on anything, others only on their own.
func (c CallerContext) CanActOn(ownerID string) bool {
	return c.IsAdmin() || c.UserID == ownerID
}
