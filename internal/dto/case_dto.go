package dto

type CreateCaseRequest struct {
	IssueType   string  `json:"issue_type"`
	Amount      float64 `json:"amount"`
	Deadline    string  `json:"deadline,omitempty"`
	Description string  `json:"description"`
}

type UpdateCaseRequest struct {
	IssueType   *string  `json:"issue_type,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Deadline    *string  `json:"deadline,omitempty"`
	Description *string  `json:"description,omitempty"`
}

type UpdateMoodRequest struct {
	MoodScore         int    `json:"mood_score"`
	StressLevel       string `json:"stress_level"`
	Urgency           string `json:"urgency"`
	ConfidenceScore   *int   `json:"confidence_score,omitempty"`
	SatisfactionScore *int   `json:"satisfaction_score,omitempty"`
	Notes             string `json:"notes,omitempty"`
}
