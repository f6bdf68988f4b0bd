package domain

import (
	"time"

	"github.com/google/uuid"
)

// Component caps for the rule-based breakdown.
const (
	MaxEngagementScore = 30
	MaxIntentScore     = 40
	MaxContactScore    = 20
	MaxBehaviorScore   = 10
)

// Breakdown is the rule-based score split into its four capped components.
type Breakdown struct {
	Engagement int `json:"engagement"`
	Intent     int `json:"intent"`
	Contact    int `json:"contact"`
	Behavior   int `json:"behavior"`
}

// Sum adds the four components.
func (b Breakdown) Sum() int {
	return b.Engagement + b.Intent + b.Contact + b.Behavior
}

// RecommendedAction is the suggested next step for an operator.
type RecommendedAction struct {
	Type   ActionType `json:"type"`
	Reason string     `json:"reason"`
}

// Result is the outcome of scoring one lead. Only TotalScore and Quality are persisted.
type Result struct {
	LeadID            uuid.UUID         `json:"leadId"`
	TotalScore        int               `json:"totalScore"`
	Quality           Quality           `json:"quality"`
	Confidence        float64           `json:"confidence"`
	Breakdown         Breakdown         `json:"breakdown"`
	RuleBasedTotal    int               `json:"ruleBasedTotal"`
	AIBoost           float64           `json:"aiBoost"`
	AIAvailable       bool              `json:"aiAvailable"`
	Signals           EngagementSignals `json:"signals"`
	RecommendedAction RecommendedAction `json:"recommendedAction"`
	Reasoning         []string          `json:"reasoning"`
	ScoredAt          time.Time         `json:"scoredAt"`
}

// ManualReviewReason is the action reason attached to fallback results.
const ManualReviewReason = "Scoring could not complete; review this lead manually"

// DefaultResult is the safe fallback returned when a lead cannot be scored.
func DefaultResult(leadID uuid.UUID, reason string, scoredAt time.Time) Result {
	return Result{
		LeadID:     leadID,
		TotalScore: 0,
		Quality:    QualityCold,
		Confidence: 0,
		Signals:    EngagementSignals{AvgResponseTimeHours: 24},
		RecommendedAction: RecommendedAction{
			Type:   ActionLowPriority,
			Reason: ManualReviewReason,
		},
		Reasoning: []string{reason, ManualReviewReason},
		ScoredAt:  scoredAt,
	}
}
