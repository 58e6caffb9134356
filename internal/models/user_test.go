package models_test

import (
	"testing"

	"github.com/resolveai/resolve-backend/internal/models"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want models.Role
	}{
		{"admin", models.RoleAdmin},
		{"moderator", models.RoleModerator},
		{"user", models.RoleUser},
		{"superuser", models.RoleUser},
		{"", models.RoleUser},
		{"Admin", models.RoleUser},
	}
	for _, tt := range tests {
		if got := models.ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoleIn(t *testing.T) {
	if !models.RoleModerator.In(models.RoleAdmin, models.RoleModerator) {
		t.Error("expected moderator to match an allowlist containing it")
	}
	if models.RoleUser.In(models.RoleAdmin, models.RoleModerator) {
		t.Error("expected user to fail an admin/moderator allowlist")
	}
	if models.RoleUser.In() {
		t.Error("expected no role to match an empty allowlist")
	}
}
