package scoring

import (
	"math/rand"
	"testing"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"
)

func randomSignals(r *rand.Rand) domain.EngagementSignals {
	return domain.EngagementSignals{
		DMCount:                  r.Intn(40),
		OutboundCount:            r.Intn(40),
		DMRecencyDays:            r.Intn(60),
		DMResponseRate:           r.Float64() * 100,
		AvgResponseTimeHours:     r.Float64() * 48,
		ReelViews:                r.Intn(50),
		Likes:                    r.Intn(50),
		Comments:                 r.Intn(20),
		Saves:                    r.Intn(20),
		AskedAboutPricing:        r.Intn(2) == 0,
		AskedAboutSchedule:       r.Intn(2) == 0,
		AskedAboutLevel:          r.Intn(2) == 0,
		MentionedEnrollment:      r.Intn(2) == 0,
		RequestedTrialClass:      r.Intn(2) == 0,
		AskedAboutDuration:       r.Intn(2) == 0,
		HasPhone:                 r.Intn(2) == 0,
		HasEmail:                 r.Intn(2) == 0,
		HasWhatsApp:              r.Intn(2) == 0,
		ViewedMultipleReels:      r.Intn(2) == 0,
		EngagedAcrossTime:        r.Intn(2) == 0,
		HasUrgency:               r.Intn(2) == 0,
		HasComplaint:             r.Intn(4) == 0,
		HasNegativeSentiment:     r.Intn(4) == 0,
		UnresponsiveAfterContact: r.Intn(4) == 0,
	}
}

func randomAnalysis(r *rand.Rand) *domain.SemanticAnalysis {
	if r.Intn(4) == 0 {
		return nil
	}
	sentiments := []domain.Sentiment{domain.SentimentPositive, domain.SentimentNeutral, domain.SentimentNegative}
	urgencies := []domain.Urgency{domain.UrgencyHigh, domain.UrgencyMedium, domain.UrgencyLow}
	languages := [][]string{nil, {"en"}, {"en", "ml"}, {"ML"}}
	return &domain.SemanticAnalysis{
		IntentStrength:        r.Float64() * 100,
		Sentiment:             sentiments[r.Intn(len(sentiments))],
		ConversionProbability: r.Float64() * 100,
		Urgency:               urgencies[r.Intn(len(urgencies))],
		DetectedLanguages:     languages[r.Intn(len(languages))],
	}
}

func TestScoresStayWithinBounds(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		s := randomSignals(r)
		b := RuleScores(s)

		if b.Engagement < 0 || b.Engagement > domain.MaxEngagementScore {
			t.Fatalf("engagement out of bounds: %d for %+v", b.Engagement, s)
		}
		if b.Intent < 0 || b.Intent > domain.MaxIntentScore {
			t.Fatalf("intent out of bounds: %d for %+v", b.Intent, s)
		}
		if b.Contact < 0 || b.Contact > domain.MaxContactScore {
			t.Fatalf("contact out of bounds: %d for %+v", b.Contact, s)
		}
		if b.Behavior < 0 || b.Behavior > domain.MaxBehaviorScore {
			t.Fatalf("behavior out of bounds: %d for %+v", b.Behavior, s)
		}

		blended := Blend(b, randomAnalysis(r), "ml")
		if blended.Final < 0 || blended.Final > 100 {
			t.Fatalf("final score out of bounds: %d", blended.Final)
		}
		if blended.RuleBasedTotal < 0 || blended.RuleBasedTotal > 100 {
			t.Fatalf("rule total out of bounds: %d", blended.RuleBasedTotal)
		}

		confidence := EstimateConfidence(s)
		if confidence < 0 || confidence > 1 {
			t.Fatalf("confidence out of bounds: %v", confidence)
		}

		if (s.HasComplaint || s.HasNegativeSentiment) && ClassifyQuality(blended.Final, s) != domain.QualityCold {
			t.Fatalf("expected COLD for complaint or negative sentiment, got %s", ClassifyQuality(blended.Final, s))
		}
	}
}

func TestScoreEngagement(t *testing.T) {
	tests := []struct {
		name string
		in   domain.EngagementSignals
		want int
	}{
		{"nothing", domain.EngagementSignals{}, 0},
		{"messages capped", domain.EngagementSignals{DMCount: 10}, 12},
		{"fast responder", domain.EngagementSignals{DMCount: 1, DMResponseRate: 100}, 6},
		{"rate at threshold", domain.EngagementSignals{DMCount: 1, DMResponseRate: 80}, 3},
		{"views capped", domain.EngagementSignals{ReelViews: 9}, 6},
		{"content", domain.EngagementSignals{Comments: 1, Saves: 1, Likes: 1}, 6},
		{"overall cap", domain.EngagementSignals{DMCount: 10, ReelViews: 10, Likes: 50}, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreEngagement(tt.in); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestScoreIntent(t *testing.T) {
	tests := []struct {
		name string
		in   domain.EngagementSignals
		want int
	}{
		{"enrollment", domain.EngagementSignals{MentionedEnrollment: true}, 15},
		{"everything capped", domain.EngagementSignals{MentionedEnrollment: true, RequestedTrialClass: true, AskedAboutPricing: true, AskedAboutSchedule: true, AskedAboutLevel: true, HasUrgency: true}, 40},
		{"negative floors at zero", domain.EngagementSignals{AskedAboutPricing: true, HasNegativeSentiment: true}, 0},
		{"complaint offsets", domain.EngagementSignals{MentionedEnrollment: true, HasComplaint: true}, 5},
		{"unresponsive", domain.EngagementSignals{MentionedEnrollment: true, RequestedTrialClass: true, UnresponsiveAfterContact: true}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreIntent(tt.in); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestScoreContactAndBehavior(t *testing.T) {
	if got := scoreContact(domain.EngagementSignals{HasPhone: true, HasEmail: true, HasWhatsApp: true}); got != 20 {
		t.Fatalf("expected contact 20, got %d", got)
	}
	if got := scoreContact(domain.EngagementSignals{HasPhone: true, HasWhatsApp: true}); got != 13 {
		t.Fatalf("expected contact 13, got %d", got)
	}
	if got := scoreBehavior(domain.EngagementSignals{ViewedMultipleReels: true, EngagedAcrossTime: true, AvgResponseTimeHours: 1}); got != 10 {
		t.Fatalf("expected behavior 10, got %d", got)
	}
	if got := scoreBehavior(domain.EngagementSignals{AvgResponseTimeHours: 24}); got != 0 {
		t.Fatalf("expected behavior 0 for slow responses, got %d", got)
	}
}
