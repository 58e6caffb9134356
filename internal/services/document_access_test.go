package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/resolveai/resolve-backend/internal/models"
)

func TestCanAccessDocument(t *testing.T) {
	ownerID := uuid.New()
	doc := &models.Document{UserID: ownerID}

	tests := []struct {
		name  string
		actor *models.User
		want  bool
	}{
		{"owner", &models.User{ID: ownerID, Role: "user"}, true},
		{"owner with admin role", &models.User{ID: ownerID, Role: "admin"}, true},
		{"other user", &models.User{ID: uuid.New(), Role: "user"}, false},
		{"moderator is not enough", &models.User{ID: uuid.New(), Role: "moderator"}, false},
		{"admin", &models.User{ID: uuid.New(), Role: "admin"}, true},
		{"unknown role falls back to user", &models.User{ID: uuid.New(), Role: "superadmin"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canAccessDocument(doc, tt.actor); got != tt.want {
				t.Errorf("canAccessDocument = %v, want %v", got, tt.want)
			}
		})
	}
}
