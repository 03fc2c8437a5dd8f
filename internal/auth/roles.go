package auth

import (
	"sort"
	"strings"
)

// RolePrefix is carried by every stored and compared role name.
const RolePrefix = "ROLE_"

// Well-known roles.
const (
	RoleUser  = RolePrefix + "USER"
	RoleAdmin = RolePrefix + "ADMIN"
)

// NormalizeRole upper-cases a role name and adds the ROLE_ prefix when missing.
func NormalizeRole(role string) string {
	r := strings.ToUpper(strings.TrimSpace(role))
	if r == "" {
		return ""
	}
	if strings.HasPrefix(r, RolePrefix) {
		return r
	}
	return RolePrefix + r
}

// NormalizeRoles normalizes, de-duplicates and sorts roles. Empty names are dropped.
func NormalizeRoles(roles []string) []string {
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		n := NormalizeRole(r)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// RolesOrDefault returns the normalized roles, or {ROLE_USER} when none were requested.
func RolesOrDefault(roles []string) []string {
	normalized := NormalizeRoles(roles)
	if len(normalized) == 0 {
		return []string{RoleUser}
	}
	return normalized
}
