package scoring

import (
	"math"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"
)

const (
	hotThreshold  = 75
	warmThreshold = 45
)

const (
	baseConfidence           = 0.5
	manyMessagesConfidence   = 0.2
	contactConfidence        = 0.15
	viewsConfidence          = 0.1
	crossDayConfidence       = 0.1
	contradictionConfidence  = -0.2
	manyMessagesThreshold    = 5
	confidenceViewsThreshold = 2
)

// Fixed explanations attached to each recommended action.
const (
	reasonComplaint      = "Lead raised a complaint; stop outreach and review"
	reasonUnresponsive   = "No reply for over a week after contact"
	reasonTrialRequested = "Lead asked for a trial class; book it now"
	reasonReadyToEnroll  = "Lead wants to enroll and asked about pricing"
	reasonHot            = "High score; follow up today"
	reasonWarm           = "Moderate interest; keep nurturing with course content"
	reasonCold           = "Low engagement so far"
)

// ClassifyQuality applies the override rules before the score thresholds.
func ClassifyQuality(score int, s domain.EngagementSignals) domain.Quality {
	switch {
	case s.HasComplaint || s.HasNegativeSentiment:
		return domain.QualityCold
	case s.MentionedEnrollment && s.HasPhone:
		return domain.QualityHot
	case score >= hotThreshold:
		return domain.QualityHot
	case score >= warmThreshold:
		return domain.QualityWarm
	default:
		return domain.QualityCold
	}
}

// EstimateConfidence scores how much data backs the result, in [0,1] with two decimals.
func EstimateConfidence(s domain.EngagementSignals) float64 {
	confidence := baseConfidence
	if s.MessageCount() >= manyMessagesThreshold {
		confidence += manyMessagesConfidence
	}
	if s.HasContact() {
		confidence += contactConfidence
	}
	if s.ReelViews >= confidenceViewsThreshold {
		confidence += viewsConfidence
	}
	if s.EngagedAcrossTime {
		confidence += crossDayConfidence
	}
	if s.MentionedEnrollment && s.HasNegativeSentiment {
		confidence += contradictionConfidence
	}
	return math.Round(clampFloat(confidence, 0, 1)*100) / 100
}

// RecommendAction walks the decision list; the first matching rule wins.
func RecommendAction(quality domain.Quality, s domain.EngagementSignals) domain.RecommendedAction {
	switch {
	case s.HasComplaint:
		return domain.RecommendedAction{Type: domain.ActionDisqualify, Reason: reasonComplaint}
	case s.UnresponsiveAfterContact:
		return domain.RecommendedAction{Type: domain.ActionLowPriority, Reason: reasonUnresponsive}
	case s.RequestedTrialClass:
		return domain.RecommendedAction{Type: domain.ActionImmediateFollowup, Reason: reasonTrialRequested}
	case s.MentionedEnrollment && s.AskedAboutPricing:
		return domain.RecommendedAction{Type: domain.ActionImmediateFollowup, Reason: reasonReadyToEnroll}
	}

	switch quality {
	case domain.QualityHot:
		return domain.RecommendedAction{Type: domain.ActionImmediateFollowup, Reason: reasonHot}
	case domain.QualityWarm:
		return domain.RecommendedAction{Type: domain.ActionNurture, Reason: reasonWarm}
	case domain.QualityCold:
		return domain.RecommendedAction{Type: domain.ActionLowPriority, Reason: reasonCold}
	}
	return domain.RecommendedAction{Type: domain.ActionLowPriority, Reason: reasonCold}
}
