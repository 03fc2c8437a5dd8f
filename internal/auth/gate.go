package auth

import (
	"errors"
	"strings"
)

var (
	// ErrUnauthenticated means no valid identity was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the identity is known but lacks the required grant.
	ErrForbidden = errors.New("forbidden")
)

type requirementKind int

// The zero Requirement is unset and denies everyone.
const (
	kindUnset requirementKind = iota
	kindPublic
	kindAuthenticated
	kindRoles
)

// Requirement is the access rule declared for an endpoint.
type Requirement struct {
	kind  requirementKind
	roles []string
}

// Public allows every caller.
func Public() Requirement {
	return Requirement{kind: kindPublic}
}

// Authenticated allows any caller with a resolved principal.
func Authenticated() Requirement {
	return Requirement{kind: kindAuthenticated}
}

// HasRole allows callers carrying role.
func HasRole(role string) Requirement {
	return HasAnyRole(role)
}

// HasAnyRole allows callers carrying at least one of roles.
func HasAnyRole(roles ...string) Requirement {
	return Requirement{kind: kindRoles, roles: NormalizeRoles(roles)}
}

func (r Requirement) String() string {
	switch r.kind {
	case kindPublic:
		return "public"
	case kindAuthenticated:
		return "authenticated"
	case kindRoles:
		return "has-role(" + strings.Join(r.roles, "|") + ")"
	default:
		return "unset"
	}
}

// Decision is the outcome of an access check. Reason is nil when Allowed.
type Decision struct {
	Allowed bool
	Reason  error
}

// Allow is the positive decision.
var Allow = Decision{Allowed: true}

// Deny builds a negative decision.
func Deny(reason error) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Check evaluates requirement against the principal of the current request.
// A nil principal means the request is unauthenticated.
func Check(p *Principal, requirement Requirement) Decision {
	switch requirement.kind {
	case kindPublic:
		return Allow
	case kindAuthenticated:
		if p == nil {
			return Deny(ErrUnauthenticated)
		}
		return Allow
	case kindRoles:
		if p == nil {
			return Deny(ErrUnauthenticated)
		}
		if !p.HasAnyRole(requirement.roles...) {
			return Deny(ErrForbidden)
		}
		return Allow
	default:
		return Deny(ErrForbidden)
	}
}

// CheckOwnership allows the principal only if it owns the resource.
func CheckOwnership(p *Principal, ownerID int64) Decision {
	if p == nil {
		return Deny(ErrUnauthenticated)
	}
	if p.ID != ownerID {
		return Deny(ErrForbidden)
	}
	return Allow
}
