package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/resolveai/resolve-backend/internal/dto"
	"github.com/resolveai/resolve-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrContractNotFound      = errors.New("contract not found")
	ErrNotContractOwner      = errors.New("you do not own this contract")
	ErrCounterpartRequired   = errors.New("counterpart name is required")
	ErrInvalidContractStatus = errors.New("invalid contract status")
)

var validContractStatuses = map[string]bool{
	models.ContractStatusDraft: true, models.ContractStatusSent: true,
	models.ContractStatusSigned: true, models.ContractStatusDisputed: true,
	models.ContractStatusCompleted: true,
}

type ContractService struct {
	db *gorm.DB
}

func NewContractService(db *gorm.DB) *ContractService {
	return &ContractService{db: db}
}

func (s *ContractService) Create(userID uuid.UUID, req *dto.CreateContractRequest) (*models.Contract, error) {
	if req.CounterpartName == "" {
		return nil, ErrCounterpartRequired
	}

	contract := models.Contract{
		ID:               uuid.New(),
		UserID:           userID,
		CounterpartName:  req.CounterpartName,
		CounterpartEmail: req.CounterpartEmail,
		PaymentTerms:     req.PaymentTerms,
		ScopeText:        req.ScopeText,
		Amount:           req.Amount,
		Status:           models.ContractStatusDraft,
	}
	if err := s.db.Create(&contract).Error; err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}
	return &contract, nil
}

func (s *ContractService) List(userID uuid.UUID, page, limit int) ([]models.Contract, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var contracts []models.Contract
	var total int64

	query := s.db.Model(&models.Contract{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&contracts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch contracts: %w", err)
	}
	return contracts, total, nil
}

func (s *ContractService) Get(actor *models.User, id uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	if err := s.db.First(&contract, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to fetch contract: %w", err)
	}
	if contract.UserID != actor.ID && models.ParseRole(actor.Role) != models.RoleAdmin {
		return nil, ErrNotContractOwner
	}
	return &contract, nil
}

func (s *ContractService) Update(actor *models.User, id uuid.UUID, req *dto.UpdateContractRequest) (*models.Contract, error) {
	contract, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.CounterpartName != nil {
		if *req.CounterpartName == "" {
			return nil, ErrCounterpartRequired
		}
		updates["counterpart_name"] = *req.CounterpartName
	}
	if req.CounterpartEmail != nil {
		updates["counterpart_email"] = *req.CounterpartEmail
	}
	if req.PaymentTerms != nil {
		updates["payment_terms"] = *req.PaymentTerms
	}
	if req.ScopeText != nil {
		updates["scope_text"] = *req.ScopeText
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Status != nil {
		if !validContractStatuses[*req.Status] {
			return nil, ErrInvalidContractStatus
		}
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return contract, nil
	}

	if err := s.db.Model(contract).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update contract: %w", err)
	}
	return contract, nil
}
