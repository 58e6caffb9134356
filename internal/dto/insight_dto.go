package dto

import (
	"time"

	"github.com/google/uuid"
)

// Insight classification enums. Values outside these sets are normalized
// before an insight is returned.
const (
	InsightTypeDeadlineAlert  = "deadline_alert"
	InsightTypeCaseAnalysis   = "case_analysis"
	InsightTypeIndustryTrend  = "industry_trend"
	InsightTypeLegalTip       = "legal_tip"
	InsightTypeActionRequired = "action_required"
)

const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

const (
	CategoryPaymentDisputes      = "payment_disputes"
	CategoryContractIssues       = "contract_issues"
	CategoryRegulatoryCompliance = "regulatory_compliance"
	CategoryGeneral              = "general"
)

// Insight source tags distinguish model output from pre-authored content.
const (
	InsightSourceGenerated = "generated"
	InsightSourceFallback  = "fallback"
)

type Insight struct {
	Type          string     `json:"type"`
	Priority      string     `json:"priority"`
	Category      string     `json:"category"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	Actionable    bool       `json:"actionable"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	RelatedCaseID *uuid.UUID `json:"related_case_id,omitempty"`
}

// InsightSet is the five-bucket payload the dashboard renders. Source tells
// callers whether the model produced the urgent/case/action buckets or the
// static fallback did.
type InsightSet struct {
	Source         string    `json:"source"`
	GeneratedAt    time.Time `json:"generated_at"`
	UrgentAlerts   []Insight `json:"urgent_alerts"`
	CaseAnalyses   []Insight `json:"case_analyses"`
	IndustryTrends []Insight `json:"industry_trends"`
	LegalTips      []Insight `json:"legal_tips"`
	ActionItems    []Insight `json:"action_items"`
}
