package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/resolveai/resolve-backend/internal/dto"
	"github.com/resolveai/resolve-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrCaseNotFound     = errors.New("case not found")
	ErrNotCaseOwner     = errors.New("you do not own this case")
	ErrInvalidIssueType = errors.New("issue type must be one of payment_dispute, contract_issue, defect_claim, other")
	ErrInvalidStatus    = errors.New("invalid case status")
	ErrInvalidMoodScore = errors.New("mood score must be between 1 and 10")
	ErrInvalidStress    = errors.New("stress level must be one of low, moderate, high, severe")
	ErrInvalidUrgency   = errors.New("urgency must be one of low, medium, high, critical")
	ErrInvalidDeadline  = errors.New("deadline must be an RFC 3339 date")
)

var validIssueTypes = map[string]bool{
	"payment_dispute": true, "contract_issue": true, "defect_claim": true, "other": true,
}

var validCaseStatuses = map[string]bool{
	models.CaseStatusNew: true, models.CaseStatusInProgress: true,
	models.CaseStatusAwaitingResponse: true, models.CaseStatusResolved: true,
	models.CaseStatusClosed: true,
}

var validStressLevels = map[string]bool{
	"low": true, "moderate": true, "high": true, "severe": true,
}

var validUrgencies = map[string]bool{
	"low": true, "medium": true, "high": true, "critical": true,
}

type CaseService struct {
	db    *gorm.DB
	users *UserService
}

func NewCaseService(db *gorm.DB, users *UserService) *CaseService {
	return &CaseService{db: db, users: users}
}

// Create opens a case for the user. Strategy-pack users spend one credit per
// case; the credit is consumed before the row is written.
func (s *CaseService) Create(user *models.User, req *dto.CreateCaseRequest) (*models.Case, error) {
	if !validIssueTypes[req.IssueType] {
		return nil, ErrInvalidIssueType
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return nil, err
	}

	if user.PlanType == defaultPlanType {
		if err := s.users.ConsumeStrategyCredit(user.ID); err != nil {
			return nil, err
		}
	}

	kase := models.Case{
		ID:          uuid.New(),
		UserID:      user.ID,
		IssueType:   req.IssueType,
		Amount:      req.Amount,
		Status:      models.CaseStatusNew,
		Deadline:    deadline,
		Description: req.Description,
	}
	if err := s.db.Create(&kase).Error; err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}
	return &kase, nil
}

func (s *CaseService) List(userID uuid.UUID, page, limit int) ([]models.Case, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var cases []models.Case
	var total int64

	query := s.db.Model(&models.Case{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&cases).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch cases: %w", err)
	}
	return cases, total, nil
}

// Get returns the case when the actor owns it or holds the admin role.
func (s *CaseService) Get(actor *models.User, id uuid.UUID) (*models.Case, error) {
	var kase models.Case
	if err := s.db.First(&kase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to fetch case: %w", err)
	}
	if kase.UserID != actor.ID && models.ParseRole(actor.Role) != models.RoleAdmin {
		return nil, ErrNotCaseOwner
	}
	return &kase, nil
}

func (s *CaseService) Update(actor *models.User, id uuid.UUID, req *dto.UpdateCaseRequest) (*models.Case, error) {
	kase, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.IssueType != nil {
		if !validIssueTypes[*req.IssueType] {
			return nil, ErrInvalidIssueType
		}
		updates["issue_type"] = *req.IssueType
	}
	if req.Status != nil {
		if !validCaseStatuses[*req.Status] {
			return nil, ErrInvalidStatus
		}
		updates["status"] = *req.Status
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Deadline != nil {
		deadline, err := parseDeadline(*req.Deadline)
		if err != nil {
			return nil, err
		}
		updates["deadline"] = deadline
	}
	if len(updates) == 0 {
		return kase, nil
	}

	if err := s.db.Model(kase).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update case: %w", err)
	}
	return kase, nil
}

// UpdateMood records a sentiment check-in against the case.
func (s *CaseService) UpdateMood(actor *models.User, id uuid.UUID, req *dto.UpdateMoodRequest) (*models.Case, error) {
	kase, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	if req.MoodScore < 1 || req.MoodScore > 10 {
		return nil, ErrInvalidMoodScore
	}
	if !validStressLevels[req.StressLevel] {
		return nil, ErrInvalidStress
	}
	if !validUrgencies[req.Urgency] {
		return nil, ErrInvalidUrgency
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"mood_score":      req.MoodScore,
		"stress_level":    req.StressLevel,
		"urgency":         req.Urgency,
		"mood_notes":      req.Notes,
		"mood_updated_at": now,
	}
	if req.ConfidenceScore != nil {
		updates["confidence_score"] = *req.ConfidenceScore
	}
	if req.SatisfactionScore != nil {
		updates["satisfaction_score"] = *req.SatisfactionScore
	}

	if err := s.db.Model(kase).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update mood: %w", err)
	}
	return kase, nil
}

// AdminList returns cases across all users, optionally filtered by status.
func (s *CaseService) AdminList(status string, page, limit int) ([]models.Case, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := s.db.Model(&models.Case{})
	if status != "" {
		if !validCaseStatuses[status] {
			return nil, 0, ErrInvalidStatus
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cases []models.Case
	if err := query.Preload("User").Order("created_at DESC").Limit(limit).Offset(offset).Find(&cases).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch cases: %w", err)
	}
	return cases, total, nil
}

func (s *CaseService) AdminUpdateStatus(id uuid.UUID, status string) (*models.Case, error) {
	if !validCaseStatuses[status] {
		return nil, ErrInvalidStatus
	}

	var kase models.Case
	if err := s.db.First(&kase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("failed to fetch case: %w", err)
	}

	if err := s.db.Model(&kase).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update case status: %w", err)
	}
	return &kase, nil
}

func parseDeadline(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			return nil, ErrInvalidDeadline
		}
	}
	return &t, nil
}
