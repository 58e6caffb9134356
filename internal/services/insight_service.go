package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/resolveai/resolve-backend/internal/config"
	"github.com/resolveai/resolve-backend/internal/dto"
	"github.com/resolveai/resolve-backend/internal/models"
	"gorm.io/gorm"
)

var ErrAINotConfigured = errors.New("AI provider not configured")

// Bucket caps. Overflow is truncated, earliest entries win.
const (
	maxUrgentAlerts   = 3
	maxCaseAnalyses   = 2
	maxIndustryTrends = 2
	maxLegalTips      = 3
	maxActionItems    = 4
)

const generatedInsightTTL = 7 * 24 * time.Hour

const promptCaseLimit = 20
const promptContractLimit = 10
const promptDescriptionLimit = 200

// CompletionClient requests a completion from the language-model provider.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// --- OpenAI types (internal) ---

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type openAIClient struct {
	apiKey  string
	apiURL  string
	model   string
	timeout time.Duration
}

func (c *openAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	if c.apiKey == "" {
		return "", ErrAINotConfigured
	}

	reqBody, err := json.Marshal(openAIRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
		MaxTokens:   1500,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	client := &http.Client{Timeout: c.timeout}
	httpResp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call AI provider: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(httpResp.Body)
		return "", fmt.Errorf("AI provider error (status %d): %s", httpResp.StatusCode, string(bodyBytes))
	}

	var oaiResp openAIResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&oaiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(oaiResp.Choices) == 0 {
		return "", errors.New("no response from AI provider")
	}
	return oaiResp.Choices[0].Message.Content, nil
}

// =============================================================================
// InsightService
// =============================================================================

type InsightService struct {
	db     *gorm.DB
	client CompletionClient
}

func NewInsightService(db *gorm.DB, cfg *config.Config) *InsightService {
	return &InsightService{
		db: db,
		client: &openAIClient{
			apiKey:  cfg.OpenAIAPIKey,
			apiURL:  cfg.OpenAIAPIURL,
			model:   cfg.OpenAIModel,
			timeout: cfg.AITimeout,
		},
	}
}

// NewInsightServiceWithClient wires an explicit completion client.
func NewInsightServiceWithClient(db *gorm.DB, client CompletionClient) *InsightService {
	return &InsightService{db: db, client: client}
}

// GeneratePersonalizedInsights loads the user's cases and contracts and
// produces the five-bucket insight set. It never returns an error: any
// failure along the way yields the static fallback set instead.
func (s *InsightService) GeneratePersonalizedInsights(ctx context.Context, userID uuid.UUID) *dto.InsightSet {
	var cases []models.Case
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(promptCaseLimit).Find(&cases).Error; err != nil {
		slog.Error("insight generation: case load failed", "user_id", userID, "error", err)
		return stamp(FallbackInsights())
	}

	var contracts []models.Contract
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(promptContractLimit).Find(&contracts).Error; err != nil {
		slog.Error("insight generation: contract load failed", "user_id", userID, "error", err)
		return stamp(FallbackInsights())
	}

	return s.GenerateFromRecords(ctx, cases, contracts)
}

// GenerateFromRecords runs the model over case/contract snapshots. Exposed
// separately from the loading path so the assembly logic is testable without
// a database.
func (s *InsightService) GenerateFromRecords(ctx context.Context, cases []models.Case, contracts []models.Contract) *dto.InsightSet {
	if len(cases) == 0 && len(contracts) == 0 {
		return stamp(FallbackInsights())
	}

	raw, err := s.client.Complete(ctx, insightSystemPrompt, buildInsightPrompt(cases, contracts))
	if err != nil {
		slog.Warn("insight generation fell back to static content", "error", err)
		return stamp(FallbackInsights())
	}

	set, err := assembleInsightSet(raw, time.Now().UTC())
	if err != nil {
		slog.Warn("insight response unusable, falling back", "error", err)
		return stamp(FallbackInsights())
	}
	return set
}

const insightSystemPrompt = "You are a legal assistant for Australian tradespeople. You return only valid JSON arrays, no prose."

func buildInsightPrompt(cases []models.Case, contracts []models.Contract) string {
	var b strings.Builder
	b.WriteString("Analyze this tradesperson's open legal matters and produce 3-8 insights.\n\nCases:\n")

	for i, c := range cases {
		if i >= promptCaseLimit {
			break
		}
		deadline := "none"
		if c.Deadline != nil {
			deadline = c.Deadline.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "- type=%s amount=%.2f status=%s deadline=%s description=%q\n",
			c.IssueType, c.Amount, c.Status, deadline, truncate(c.Description, promptDescriptionLimit))
	}

	b.WriteString("\nContracts:\n")
	for i, c := range contracts {
		if i >= promptContractLimit {
			break
		}
		fmt.Fprintf(&b, "- counterpart=%q terms=%q status=%s amount=%.2f\n",
			c.CounterpartName, truncate(c.PaymentTerms, promptDescriptionLimit), c.Status, c.Amount)
	}

	b.WriteString(`
Return a JSON array of objects with fields:
- type: one of [deadline_alert, case_analysis, industry_trend, legal_tip, action_required]
- priority: one of [low, medium, high, critical]
- category: one of [payment_disputes, contract_issues, regulatory_compliance, general]
- title: short heading
- summary: 2-3 sentences of practical guidance
- actionable: boolean

Reference the Security of Payment Act where deadlines matter. Return ONLY valid JSON.`)

	return b.String()
}

type modelInsight struct {
	Type       string `json:"type"`
	Priority   string `json:"priority"`
	Category   string `json:"category"`
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	Actionable bool   `json:"actionable"`
}

var validInsightTypes = map[string]bool{
	dto.InsightTypeDeadlineAlert: true, dto.InsightTypeCaseAnalysis: true,
	dto.InsightTypeIndustryTrend: true, dto.InsightTypeLegalTip: true,
	dto.InsightTypeActionRequired: true,
}

var validPriorities = map[string]bool{
	dto.PriorityLow: true, dto.PriorityMedium: true,
	dto.PriorityHigh: true, dto.PriorityCritical: true,
}

var validInsightCategories = map[string]bool{
	dto.CategoryPaymentDisputes: true, dto.CategoryContractIssues: true,
	dto.CategoryRegulatoryCompliance: true, dto.CategoryGeneral: true,
}

// assembleInsightSet normalizes the model output into the five buckets. The
// static trend and tip entries are always merged in ahead of model entries;
// each bucket truncates at its cap. Generated entries expire a week out.
func assembleInsightSet(raw string, now time.Time) (*dto.InsightSet, error) {
	var parsed []modelInsight
	if err := json.Unmarshal([]byte(cleanJSONContent(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse insights: %w", err)
	}
	if len(parsed) == 0 {
		return nil, errors.New("model returned no insights")
	}

	expiry := now.Add(generatedInsightTTL)
	set := &dto.InsightSet{
		Source:         dto.InsightSourceGenerated,
		GeneratedAt:    now,
		IndustryTrends: staticIndustryTrends(),
		LegalTips:      staticLegalTips(),
	}

	for _, m := range parsed {
		if !validInsightTypes[m.Type] || m.Title == "" {
			continue
		}
		if !validPriorities[m.Priority] {
			m.Priority = dto.PriorityMedium
		}
		if !validInsightCategories[m.Category] {
			m.Category = dto.CategoryGeneral
		}

		ins := dto.Insight{
			Type:       m.Type,
			Priority:   m.Priority,
			Category:   m.Category,
			Title:      m.Title,
			Summary:    m.Summary,
			Actionable: m.Actionable,
			ExpiresAt:  &expiry,
		}

		switch m.Type {
		case dto.InsightTypeDeadlineAlert:
			set.UrgentAlerts = append(set.UrgentAlerts, ins)
		case dto.InsightTypeCaseAnalysis:
			set.CaseAnalyses = append(set.CaseAnalyses, ins)
		case dto.InsightTypeIndustryTrend:
			set.IndustryTrends = append(set.IndustryTrends, ins)
		case dto.InsightTypeLegalTip:
			set.LegalTips = append(set.LegalTips, ins)
		case dto.InsightTypeActionRequired:
			set.ActionItems = append(set.ActionItems, ins)
		}
	}

	set.UrgentAlerts = capBucket(set.UrgentAlerts, maxUrgentAlerts)
	set.CaseAnalyses = capBucket(set.CaseAnalyses, maxCaseAnalyses)
	set.IndustryTrends = capBucket(set.IndustryTrends, maxIndustryTrends)
	set.LegalTips = capBucket(set.LegalTips, maxLegalTips)
	set.ActionItems = capBucket(set.ActionItems, maxActionItems)
	return set, nil
}

// BuildCaseInsight produces the deterministic single-case insight. No model
// call: a case with a deadline inside 14 days gets a deadline alert,
// everything else a standing analysis.
func BuildCaseInsight(c *models.Case, now time.Time) dto.Insight {
	related := c.ID
	if c.Deadline != nil && c.Deadline.After(now) && c.Deadline.Sub(now) <= 14*24*time.Hour {
		days := int(c.Deadline.Sub(now).Hours() / 24)
		priority := dto.PriorityHigh
		if days <= 3 {
			priority = dto.PriorityCritical
		}
		return dto.Insight{
			Type:          dto.InsightTypeDeadlineAlert,
			Priority:      priority,
			Category:      categoryForIssue(c.IssueType),
			Title:         fmt.Sprintf("Deadline in %d days on your %s case", days, strings.ReplaceAll(c.IssueType, "_", " ")),
			Summary:       fmt.Sprintf("This case has a deadline of %s. Prepare and serve any required documents well before then; statutory windows under the Security of Payment Act are strict.", c.Deadline.Format("2 January 2006")),
			Actionable:    true,
			RelatedCaseID: &related,
		}
	}

	return dto.Insight{
		Type:          dto.InsightTypeCaseAnalysis,
		Priority:      dto.PriorityMedium,
		Category:      categoryForIssue(c.IssueType),
		Title:         fmt.Sprintf("Your %s case worth $%.2f", strings.ReplaceAll(c.IssueType, "_", " "), c.Amount),
		Summary:       fmt.Sprintf("The case is currently %s. Keep all invoices, correspondence, and photos uploaded so your position stays documented if the matter escalates.", strings.ReplaceAll(c.Status, "_", " ")),
		Actionable:    false,
		RelatedCaseID: &related,
	}
}

func categoryForIssue(issueType string) string {
	switch issueType {
	case "payment_dispute":
		return dto.CategoryPaymentDisputes
	case "contract_issue":
		return dto.CategoryContractIssues
	default:
		return dto.CategoryGeneral
	}
}

func capBucket(in []dto.Insight, max int) []dto.Insight {
	if len(in) > max {
		return in[:max]
	}
	return in
}

func stamp(set *dto.InsightSet) *dto.InsightSet {
	set.GeneratedAt = time.Now().UTC()
	return set
}

func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
