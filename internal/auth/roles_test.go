package auth

import (
	"reflect"
	"testing"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"USER", "ROLE_USER"},
		{"ROLE_USER", "ROLE_USER"},
		{"admin", "ROLE_ADMIN"},
		{"role_admin", "ROLE_ADMIN"},
		{"  moderator ", "ROLE_MODERATOR"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := NormalizeRole(tt.in); got != tt.want {
			t.Errorf("NormalizeRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeRoles(t *testing.T) {
	got := NormalizeRoles([]string{"user", "ROLE_USER", "", "admin"})
	want := []string{"ROLE_ADMIN", "ROLE_USER"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeRoles() = %v, want %v", got, want)
	}
}

func TestRolesOrDefault(t *testing.T) {
	if got := RolesOrDefault(nil); !reflect.DeepEqual(got, []string{RoleUser}) {
		t.Errorf("RolesOrDefault(nil) = %v, want [%s]", got, RoleUser)
	}
	if got := RolesOrDefault([]string{" "}); !reflect.DeepEqual(got, []string{RoleUser}) {
		t.Errorf("RolesOrDefault(blank) = %v, want [%s]", got, RoleUser)
	}
	if got := RolesOrDefault([]string{"admin"}); !reflect.DeepEqual(got, []string{RoleAdmin}) {
		t.Errorf("RolesOrDefault(admin) = %v, want [%s]", got, RoleAdmin)
	}
}

func TestPrincipalHasRole(t *testing.T) {
	p := NewPrincipal(1, "alice", "alice@example.com", []string{"user"})

	if !p.HasRole("USER") || !p.HasRole("ROLE_USER") {
		t.Error("HasRole() should match prefixed and unprefixed names")
	}
	if p.HasRole("ADMIN") {
		t.Error("HasRole(ADMIN) = true, want false")
	}

	var nilPrincipal *Principal
	if nilPrincipal.HasRole("USER") {
		t.Error("nil principal should have no roles")
	}
}
