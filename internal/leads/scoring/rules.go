package scoring

import "github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"

// Engagement points.
const (
	pointsPerInboundMessage = 3
	maxInboundMessagePoints = 12
	highResponseRate        = 80.0
	highResponseRatePoints  = 3
	pointsPerReelView       = 2
	maxReelViewPoints       = 6
	pointsPerComment        = 3
	pointsPerSave           = 2
	pointsPerLike           = 1
)

// Intent points.
const (
	enrollmentPoints        = 15
	trialRequestPoints      = 12
	pricingQuestionPoints   = 8
	scheduleQuestionPoints  = 8
	levelQuestionPoints     = 5
	urgencyPoints           = 7
	negativeSentimentPoints = -15
	complaintPoints         = -10
	unresponsivePoints      = -20
)

// Contact points.
const (
	phonePoints    = 8
	emailPoints    = 7
	whatsAppPoints = 5
)

// Behavior points.
const (
	multipleReelsPoints  = 3
	crossDayPoints       = 4
	fastResponsePoints   = 3
	fastResponseMaxHours = 2.0
)

// RuleScores runs the four capped sub-scorers over a signal set.
func RuleScores(s domain.EngagementSignals) domain.Breakdown {
	return domain.Breakdown{
		Engagement: scoreEngagement(s),
		Intent:     scoreIntent(s),
		Contact:    scoreContact(s),
		Behavior:   scoreBehavior(s),
	}
}

// RuleBasedTotal is the clamped sum of the breakdown.
func RuleBasedTotal(b domain.Breakdown) int {
	return clampInt(b.Sum(), 0, 100)
}

func scoreEngagement(s domain.EngagementSignals) int {
	score := min(pointsPerInboundMessage*s.DMCount, maxInboundMessagePoints)
	if s.DMResponseRate > highResponseRate {
		score += highResponseRatePoints
	}
	score += min(pointsPerReelView*s.ReelViews, maxReelViewPoints)
	score += pointsPerComment * s.Comments
	score += pointsPerSave * s.Saves
	score += pointsPerLike * s.Likes
	return clampInt(score, 0, domain.MaxEngagementScore)
}

func scoreIntent(s domain.EngagementSignals) int {
	score := 0
	if s.MentionedEnrollment {
		score += enrollmentPoints
	}
	if s.RequestedTrialClass {
		score += trialRequestPoints
	}
	if s.AskedAboutPricing {
		score += pricingQuestionPoints
	}
	if s.AskedAboutSchedule {
		score += scheduleQuestionPoints
	}
	if s.AskedAboutLevel {
		score += levelQuestionPoints
	}
	if s.HasUrgency {
		score += urgencyPoints
	}
	if s.HasNegativeSentiment {
		score += negativeSentimentPoints
	}
	if s.HasComplaint {
		score += complaintPoints
	}
	if s.UnresponsiveAfterContact {
		score += unresponsivePoints
	}
	return clampInt(score, 0, domain.MaxIntentScore)
}

// scoreContact adds each channel independently; a WhatsApp number that matches
// the phone still counts twice.
func scoreContact(s domain.EngagementSignals) int {
	score := 0
	if s.HasPhone {
		score += phonePoints
	}
	if s.HasEmail {
		score += emailPoints
	}
	if s.HasWhatsApp {
		score += whatsAppPoints
	}
	return clampInt(score, 0, domain.MaxContactScore)
}

func scoreBehavior(s domain.EngagementSignals) int {
	score := 0
	if s.ViewedMultipleReels {
		score += multipleReelsPoints
	}
	if s.EngagedAcrossTime {
		score += crossDayPoints
	}
	if s.AvgResponseTimeHours < fastResponseMaxHours {
		score += fastResponsePoints
	}
	return clampInt(score, 0, domain.MaxBehaviorScore)
}

func clampInt(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
