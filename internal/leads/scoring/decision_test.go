package scoring

import (
	"testing"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"
)

func TestClassifyQuality(t *testing.T) {
	tests := []struct {
		name  string
		score int
		in    domain.EngagementSignals
		want  domain.Quality
	}{
		{"complaint beats high score", 95, domain.EngagementSignals{HasComplaint: true, MentionedEnrollment: true, HasPhone: true}, domain.QualityCold},
		{"negative sentiment", 80, domain.EngagementSignals{HasNegativeSentiment: true}, domain.QualityCold},
		{"enrollment with phone", 10, domain.EngagementSignals{MentionedEnrollment: true, HasPhone: true}, domain.QualityHot},
		{"hot threshold", 75, domain.EngagementSignals{}, domain.QualityHot},
		{"warm threshold", 45, domain.EngagementSignals{}, domain.QualityWarm},
		{"just below warm", 44, domain.EngagementSignals{}, domain.QualityCold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyQuality(tt.score, tt.in); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestEstimateConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   domain.EngagementSignals
		want float64
	}{
		{"base", domain.EngagementSignals{}, 0.5},
		{"all boosts capped", domain.EngagementSignals{DMCount: 4, OutboundCount: 1, HasPhone: true, ReelViews: 2, EngagedAcrossTime: true}, 1},
		{"contact only", domain.EngagementSignals{HasEmail: true}, 0.65},
		{"contradiction", domain.EngagementSignals{MentionedEnrollment: true, HasNegativeSentiment: true}, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateConfidence(tt.in); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRecommendAction(t *testing.T) {
	tests := []struct {
		name    string
		quality domain.Quality
		in      domain.EngagementSignals
		want    domain.ActionType
	}{
		{"complaint disqualifies", domain.QualityHot, domain.EngagementSignals{HasComplaint: true, RequestedTrialClass: true}, domain.ActionDisqualify},
		{"unresponsive", domain.QualityWarm, domain.EngagementSignals{UnresponsiveAfterContact: true}, domain.ActionLowPriority},
		{"trial request", domain.QualityCold, domain.EngagementSignals{RequestedTrialClass: true}, domain.ActionImmediateFollowup},
		{"enroll and pricing", domain.QualityCold, domain.EngagementSignals{MentionedEnrollment: true, AskedAboutPricing: true}, domain.ActionImmediateFollowup},
		{"hot", domain.QualityHot, domain.EngagementSignals{}, domain.ActionImmediateFollowup},
		{"warm", domain.QualityWarm, domain.EngagementSignals{}, domain.ActionNurture},
		{"cold", domain.QualityCold, domain.EngagementSignals{}, domain.ActionLowPriority},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecommendAction(tt.quality, tt.in)
			if got.Type != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got.Type)
			}
			if got.Reason == "" {
				t.Fatalf("expected a reason for %s", got.Type)
			}
		})
	}
}
