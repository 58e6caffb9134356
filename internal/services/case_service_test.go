package services_test

import (
	"errors"
	"testing"

	"github.com/resolveai/resolve-backend/internal/dto"
	"github.com/resolveai/resolve-backend/internal/models"
	"github.com/resolveai/resolve-backend/internal/services"
)

func TestCreateCase_RejectsUnknownIssueType(t *testing.T) {
	svc := services.NewCaseService(nil, nil)

	_, err := svc.Create(&models.User{}, &dto.CreateCaseRequest{IssueType: "bad_vibes"})
	if !errors.Is(err, services.ErrInvalidIssueType) {
		t.Errorf("expected %v, got %v", services.ErrInvalidIssueType, err)
	}
}

func TestCreateCase_RejectsMalformedDeadline(t *testing.T) {
	svc := services.NewCaseService(nil, nil)

	tests := []string{"next tuesday", "30/09/2026", "2026-13-45"}
	for _, deadline := range tests {
		_, err := svc.Create(&models.User{}, &dto.CreateCaseRequest{
			IssueType: "payment_dispute",
			Deadline:  deadline,
		})
		if !errors.Is(err, services.ErrInvalidDeadline) {
			t.Errorf("deadline %q: expected %v, got %v", deadline, services.ErrInvalidDeadline, err)
		}
	}
}
