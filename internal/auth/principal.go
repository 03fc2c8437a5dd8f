// Package auth holds the request identity and the access rules evaluated
// against it.
package auth

import "slices"

// Principal is the resolved identity of the caller for one request.
// It is built from the stored user at authentication time and never persisted.
type Principal struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// NewPrincipal builds a Principal with normalized role names.
func NewPrincipal(id int64, username, email string, roles []string) *Principal {
	return &Principal{
		ID:       id,
		Username: username,
		Email:    email,
		Roles:    NormalizeRoles(roles),
	}
}

// HasRole reports whether the principal carries role, compared after
// normalization so "ADMIN" and "ROLE_ADMIN" match the same grant.
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	want := NormalizeRole(role)
	return slices.ContainsFunc(p.Roles, func(r string) bool {
		return NormalizeRole(r) == want
	})
}

// HasAnyRole reports whether the principal carries at least one of roles.
func (p *Principal) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if p.HasRole(r) {
			return true
		}
	}
	return false
}
