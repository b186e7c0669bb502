// Package access decides what a principal may open or act on in the console.
// The gate is a UX boundary only: the backend still enforces authorization.
package access

import (
	"slices"

	"nexuscomply/pkg/domain"
)

// Roles is a set of roles allowed through a gate. A nil Roles admits any
// authenticated principal; an empty non-nil Roles admits nobody.
type Roles []domain.Role

// AnyAuthenticated admits every signed-in principal.
var AnyAuthenticated Roles

// RolesOf builds a Roles set.
func RolesOf(roles ...domain.Role) Roles {
	if roles == nil {
		return Roles{}
	}
	return Roles(roles)
}

// Contains reports whether role is in the set.
func (r Roles) Contains(role domain.Role) bool {
	return slices.Contains(r, role)
}

// CanAccess is the single gate used for routes and individual actions.
func CanAccess(p *domain.Principal, allowed Roles) bool {
	if p == nil {
		return false
	}
	if allowed == nil {
		return true
	}
	return allowed.Contains(p.Role)
}
