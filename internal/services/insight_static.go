package services

import "github.com/resolveai/resolve-backend/internal/dto"

// Pre-authored content. Industry trends and legal tips are always merged into
// a generated set; the full fallback set stands in whenever the model cannot.

func staticIndustryTrends() []dto.Insight {
	return []dto.Insight{
		{
			Type:     dto.InsightTypeIndustryTrend,
			Priority: dto.PriorityMedium,
			Category: dto.CategoryPaymentDisputes,
			Title:    "Payment disputes rising across residential construction",
			Summary:  "Reported payment disputes in residential trade work are up year on year. Tradespeople lodging SOPA claims early are recovering faster and at higher rates than those who wait past the statutory window.",
		},
		{
			Type:     dto.InsightTypeIndustryTrend,
			Priority: dto.PriorityLow,
			Category: dto.CategoryContractIssues,
			Title:    "Written variations now standard practice",
			Summary:  "More builders and subcontractors are documenting every scope variation in writing before starting the extra work. Undocumented variations remain the most common cause of unrecoverable invoice disputes.",
		},
	}
}

func staticLegalTips() []dto.Insight {
	return []dto.Insight{
		{
			Type:       dto.InsightTypeLegalTip,
			Priority:   dto.PriorityMedium,
			Category:   dto.CategoryPaymentDisputes,
			Title:      "Know your SOPA deadlines",
			Summary:    "Under the Security of Payment Act, a payment claim generally must be served within the statutory period after the work was carried out, and the respondent has a fixed window to issue a payment schedule. Missing either window can void your claim.",
			Actionable: true,
		},
		{
			Type:       dto.InsightTypeLegalTip,
			Priority:   dto.PriorityLow,
			Category:   dto.CategoryContractIssues,
			Title:      "Reference the contract in every invoice",
			Summary:    "Invoices that cite the contract clause, agreed rates, and completed milestones are significantly harder to dispute. Attach photos of completed work where you can.",
			Actionable: true,
		},
		{
			Type:       dto.InsightTypeLegalTip,
			Priority:   dto.PriorityLow,
			Category:   dto.CategoryRegulatoryCompliance,
			Title:      "Keep your licence details current",
			Summary:    "Working outside your licence class can forfeit your right to recover payment entirely in some states. Check your licence scope before quoting unfamiliar work.",
			Actionable: true,
		},
	}
}

// FallbackInsights is the fixed payload returned when generation cannot run:
// no model key, an upstream failure, a malformed response, or a user with no
// cases or contracts at all.
func FallbackInsights() *dto.InsightSet {
	return &dto.InsightSet{
		Source: dto.InsightSourceFallback,
		UrgentAlerts: []dto.Insight{
			{
				Type:       dto.InsightTypeDeadlineAlert,
				Priority:   dto.PriorityHigh,
				Category:   dto.CategoryPaymentDisputes,
				Title:      "Review outstanding invoices this week",
				Summary:    "Unpaid invoices older than 30 days lose value fast. Identify your oldest outstanding invoice and decide whether to escalate it to a formal payment claim.",
				Actionable: true,
			},
		},
		CaseAnalyses: []dto.Insight{
			{
				Type:     dto.InsightTypeCaseAnalysis,
				Priority: dto.PriorityMedium,
				Category: dto.CategoryGeneral,
				Title:    "Keep your case records complete",
				Summary:  "Cases with full documentation of quotes, invoices, correspondence, and site photos settle faster and on better terms. Upload anything still sitting in your email or phone.",
			},
		},
		IndustryTrends: staticIndustryTrends(),
		LegalTips:      staticLegalTips(),
		ActionItems: []dto.Insight{
			{
				Type:       dto.InsightTypeActionRequired,
				Priority:   dto.PriorityMedium,
				Category:   dto.CategoryPaymentDisputes,
				Title:      "Set payment terms before the next job",
				Summary:    "Agree payment milestones in writing before starting work. Deposits and progress payments prevent most disputes from ever forming.",
				Actionable: true,
			},
			{
				Type:       dto.InsightTypeActionRequired,
				Priority:   dto.PriorityLow,
				Category:   dto.CategoryContractIssues,
				Title:      "Photograph completed work",
				Summary:    "Date-stamped photos of each completed stage are the cheapest evidence you can collect, and the most persuasive when a client disputes the standard of work.",
				Actionable: true,
			},
		},
	}
}
