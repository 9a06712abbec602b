package policy

import (
	"slices"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/auth/model"
)

// Policy is a named authorization rule evaluated against validated claims.
type Policy struct {
	Name  string
	Allow func(jwt.Claims) bool
}

func AdminOnly() Policy {
	return Policy{Name: "AdminOnly", Allow: func(c jwt.Claims) bool {
		return c.HasRole(model.RoleAdmin)
	}}
}

func SuperAdminOnly() Policy {
	return Policy{Name: "SuperAdminOnly", Allow: func(c jwt.Claims) bool {
		return c.HasRole(model.RoleSuperAdmin)
	}}
}

// ExclusiveOnly admits super admins and the explicitly listed usernames.
func ExclusiveOnly(users []string) Policy {
	return Policy{Name: "ExclusiveOnly", Allow: func(c jwt.Claims) bool {
		return c.HasRole(model.RoleSuperAdmin) || slices.Contains(users, c.Subject)
	}}
}
