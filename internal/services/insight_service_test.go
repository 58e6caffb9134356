package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/resolveai/resolve-backend/internal/dto"
	"github.com/resolveai/resolve-backend/internal/models"
	"github.com/resolveai/resolve-backend/internal/services"
)

// --- Mocks ---

type mockCompletionClient struct {
	response string
	err      error
	called   bool
}

func (m *mockCompletionClient) Complete(_ context.Context, _, _ string) (string, error) {
	m.called = true
	return m.response, m.err
}

func sampleCases() []models.Case {
	return []models.Case{
		{ID: uuid.New(), IssueType: "payment_dispute", Amount: 4200, Status: "in_progress", Description: "Unpaid final invoice for bathroom reno"},
	}
}

// --- Tests ---

func TestGenerateFromRecords_EmptyRecordsUsesFallback(t *testing.T) {
	client := &mockCompletionClient{response: "[]"}
	svc := services.NewInsightServiceWithClient(nil, client)

	set := svc.GenerateFromRecords(context.Background(), nil, nil)

	if client.called {
		t.Error("expected no model call for a user with no records")
	}
	if set.Source != dto.InsightSourceFallback {
		t.Errorf("expected source %q, got %q", dto.InsightSourceFallback, set.Source)
	}
	if set.GeneratedAt.IsZero() {
		t.Error("expected generated_at to be stamped")
	}
}

func TestGenerateFromRecords_ModelErrorFallsBack(t *testing.T) {
	client := &mockCompletionClient{err: errors.New("provider unavailable")}
	svc := services.NewInsightServiceWithClient(nil, client)

	set := svc.GenerateFromRecords(context.Background(), sampleCases(), nil)

	if !client.called {
		t.Fatal("expected the model to be called")
	}
	if set.Source != dto.InsightSourceFallback {
		t.Errorf("expected source %q, got %q", dto.InsightSourceFallback, set.Source)
	}

	want := services.FallbackInsights()
	if len(set.UrgentAlerts) != len(want.UrgentAlerts) {
		t.Errorf("expected %d urgent alerts, got %d", len(want.UrgentAlerts), len(set.UrgentAlerts))
	}
	if set.UrgentAlerts[0].Title != want.UrgentAlerts[0].Title {
		t.Errorf("expected fallback alert %q, got %q", want.UrgentAlerts[0].Title, set.UrgentAlerts[0].Title)
	}
}

func TestGenerateFromRecords_MalformedJSONFallsBack(t *testing.T) {
	client := &mockCompletionClient{response: "here are your insights: good luck"}
	svc := services.NewInsightServiceWithClient(nil, client)

	set := svc.GenerateFromRecords(context.Background(), sampleCases(), nil)
	if set.Source != dto.InsightSourceFallback {
		t.Errorf("expected source %q, got %q", dto.InsightSourceFallback, set.Source)
	}
}

func TestGenerateFromRecords_AssemblesBuckets(t *testing.T) {
	var raw []map[string]any
	for i := 0; i < 5; i++ {
		raw = append(raw, map[string]any{
			"type": "deadline_alert", "priority": "high", "category": "payment_disputes",
			"title": "Alert", "summary": "Serve your claim.", "actionable": true,
		})
	}
	raw = append(raw,
		map[string]any{"type": "case_analysis", "priority": "bogus", "category": "nonsense", "title": "Analysis", "summary": "s"},
		map[string]any{"type": "industry_trend", "priority": "low", "category": "general", "title": "Model trend", "summary": "s"},
		map[string]any{"type": "not_a_type", "priority": "low", "category": "general", "title": "Skipped", "summary": "s"},
		map[string]any{"type": "legal_tip", "priority": "low", "category": "general", "title": "", "summary": "untitled, skipped"},
	)
	body, _ := json.Marshal(raw)

	// Fenced output is what the model usually returns.
	client := &mockCompletionClient{response: "```json\n" + string(body) + "\n```"}
	svc := services.NewInsightServiceWithClient(nil, client)

	set := svc.GenerateFromRecords(context.Background(), sampleCases(), nil)

	if set.Source != dto.InsightSourceGenerated {
		t.Fatalf("expected source %q, got %q", dto.InsightSourceGenerated, set.Source)
	}
	if len(set.UrgentAlerts) != 3 {
		t.Errorf("expected urgent alerts capped at 3, got %d", len(set.UrgentAlerts))
	}
	if len(set.CaseAnalyses) != 1 {
		t.Fatalf("expected 1 case analysis, got %d", len(set.CaseAnalyses))
	}
	if set.CaseAnalyses[0].Priority != dto.PriorityMedium {
		t.Errorf("expected unknown priority normalized to medium, got %q", set.CaseAnalyses[0].Priority)
	}
	if set.CaseAnalyses[0].Category != dto.CategoryGeneral {
		t.Errorf("expected unknown category normalized to general, got %q", set.CaseAnalyses[0].Category)
	}

	// Static trends are seeded ahead of model output, so the bucket holds
	// only the two pre-authored entries.
	if len(set.IndustryTrends) != 2 {
		t.Fatalf("expected 2 industry trends, got %d", len(set.IndustryTrends))
	}
	for _, trend := range set.IndustryTrends {
		if trend.Title == "Model trend" {
			t.Error("model trend should have been truncated behind the static entries")
		}
	}

	if set.UrgentAlerts[0].ExpiresAt == nil {
		t.Fatal("expected generated insights to carry an expiry")
	}
	ttl := time.Until(*set.UrgentAlerts[0].ExpiresAt)
	if ttl < 6*24*time.Hour || ttl > 8*24*time.Hour {
		t.Errorf("expected roughly one week expiry, got %s", ttl)
	}
}

func TestBuildCaseInsight_DeadlineWithinTwoWeeks(t *testing.T) {
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	deadline := now.Add(10 * 24 * time.Hour)
	kase := &models.Case{ID: uuid.New(), IssueType: "payment_dispute", Status: "new", Amount: 900, Deadline: &deadline}

	ins := services.BuildCaseInsight(kase, now)

	if ins.Type != dto.InsightTypeDeadlineAlert {
		t.Fatalf("expected deadline alert, got %q", ins.Type)
	}
	if ins.Priority != dto.PriorityHigh {
		t.Errorf("expected high priority at 10 days out, got %q", ins.Priority)
	}
	if ins.Category != dto.CategoryPaymentDisputes {
		t.Errorf("expected payment_disputes category, got %q", ins.Category)
	}
	if ins.RelatedCaseID == nil || *ins.RelatedCaseID != kase.ID {
		t.Error("expected the insight to reference the case")
	}
	if !ins.Actionable {
		t.Error("expected deadline alerts to be actionable")
	}
}

func TestBuildCaseInsight_ImminentDeadlineIsCritical(t *testing.T) {
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	deadline := now.Add(2 * 24 * time.Hour)
	kase := &models.Case{ID: uuid.New(), IssueType: "defect_claim", Status: "new", Deadline: &deadline}

	ins := services.BuildCaseInsight(kase, now)
	if ins.Priority != dto.PriorityCritical {
		t.Errorf("expected critical priority at 2 days out, got %q", ins.Priority)
	}
	if ins.Category != dto.CategoryGeneral {
		t.Errorf("expected general category for defect claims, got %q", ins.Category)
	}
}

func TestBuildCaseInsight_NoDeadlineGivesAnalysis(t *testing.T) {
	now := time.Now().UTC()
	kase := &models.Case{ID: uuid.New(), IssueType: "contract_issue", Status: "in_progress", Amount: 1500}

	ins := services.BuildCaseInsight(kase, now)
	if ins.Type != dto.InsightTypeCaseAnalysis {
		t.Fatalf("expected case analysis, got %q", ins.Type)
	}
	if ins.Priority != dto.PriorityMedium {
		t.Errorf("expected medium priority, got %q", ins.Priority)
	}
	if ins.Category != dto.CategoryContractIssues {
		t.Errorf("expected contract_issues category, got %q", ins.Category)
	}
}

func TestBuildCaseInsight_PastDeadlineGivesAnalysis(t *testing.T) {
	now := time.Now().UTC()
	deadline := now.Add(-24 * time.Hour)
	kase := &models.Case{ID: uuid.New(), IssueType: "payment_dispute", Status: "awaiting_response", Deadline: &deadline}

	ins := services.BuildCaseInsight(kase, now)
	if ins.Type != dto.InsightTypeCaseAnalysis {
		t.Errorf("expected a lapsed deadline to produce an analysis, got %q", ins.Type)
	}
}

func TestFallbackInsights_RespectsBucketCaps(t *testing.T) {
	set := services.FallbackInsights()

	if set.Source != dto.InsightSourceFallback {
		t.Errorf("expected source %q, got %q", dto.InsightSourceFallback, set.Source)
	}
	checks := []struct {
		name string
		got  int
		max  int
	}{
		{"urgent_alerts", len(set.UrgentAlerts), 3},
		{"case_analyses", len(set.CaseAnalyses), 2},
		{"industry_trends", len(set.IndustryTrends), 2},
		{"legal_tips", len(set.LegalTips), 3},
		{"action_items", len(set.ActionItems), 4},
	}
	for _, c := range checks {
		if c.got == 0 || c.got > c.max {
			t.Errorf("%s: got %d entries, want between 1 and %d", c.name, c.got, c.max)
		}
	}
	for _, ins := range set.UrgentAlerts {
		if ins.ExpiresAt != nil {
			t.Error("fallback insights should not carry an expiry")
		}
	}
}
