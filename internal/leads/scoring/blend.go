package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"
)

// FallbackMarker is added to the reasoning whenever the analyzer was unavailable.
const FallbackMarker = "AI analysis unavailable; using rule-based score only"

const (
	maxIntentBoost         = 10.0
	neutralIntentStrength  = 50.0
	positiveSentimentBoost = 5.0
	negativeSentimentBoost = -5.0
	highUrgencyBoost       = 3.0
	mediumUrgencyBoost     = 1.0
	regionalLanguageBoost  = 2.0
)

// Blended is the rule-based total merged with the optional semantic analysis.
type Blended struct {
	RuleBasedTotal int
	AIBoost        float64
	AIAvailable    bool
	Final          int
	Reasoning      []string
}

// Blend merges the rule breakdown with an analysis. A nil analysis means the
// analyzer was unavailable and the rule total is used unchanged.
func Blend(breakdown domain.Breakdown, analysis *domain.SemanticAnalysis, regionalLanguage string) Blended {
	rule := RuleBasedTotal(breakdown)
	reasoning := []string{breakdownLine(breakdown, rule)}

	if analysis == nil {
		reasoning = append(reasoning, FallbackMarker, finalLine(rule, 0, rule))
		return Blended{
			RuleBasedTotal: rule,
			Final:          rule,
			Reasoning:      reasoning,
		}
	}

	intentBoost := clampFloat((analysis.IntentStrength-neutralIntentStrength)/neutralIntentStrength*maxIntentBoost, -maxIntentBoost, maxIntentBoost)
	reasoning = append(reasoning, fmt.Sprintf("AI intent strength %.0f: %+.1f", analysis.IntentStrength, intentBoost))

	sentimentBoost := sentimentTerm(analysis.Sentiment)
	reasoning = append(reasoning, fmt.Sprintf("AI sentiment %s: %+.1f", analysis.Sentiment, sentimentBoost))

	urgencyBoost := urgencyTerm(analysis.Urgency)
	reasoning = append(reasoning, fmt.Sprintf("AI urgency %s: %+.1f", analysis.Urgency, urgencyBoost))

	boost := intentBoost + sentimentBoost + urgencyBoost
	if detectedRegional(analysis.DetectedLanguages, regionalLanguage) {
		boost += regionalLanguageBoost
		reasoning = append(reasoning, fmt.Sprintf("Regional language (%s) detected: %+.1f", strings.ToLower(regionalLanguage), regionalLanguageBoost))
	}

	if text := strings.TrimSpace(analysis.Reasoning); text != "" {
		reasoning = append(reasoning, "AI reasoning: "+text)
	}

	boost = math.Round(boost*10) / 10
	final := clampScore(float64(rule) + boost)
	reasoning = append(reasoning, finalLine(rule, boost, final))

	return Blended{
		RuleBasedTotal: rule,
		AIBoost:        boost,
		AIAvailable:    true,
		Final:          final,
		Reasoning:      reasoning,
	}
}

func sentimentTerm(sentiment domain.Sentiment) float64 {
	switch sentiment {
	case domain.SentimentPositive:
		return positiveSentimentBoost
	case domain.SentimentNegative:
		return negativeSentimentBoost
	case domain.SentimentNeutral:
		return 0
	}
	return 0
}

func urgencyTerm(urgency domain.Urgency) float64 {
	switch urgency {
	case domain.UrgencyHigh:
		return highUrgencyBoost
	case domain.UrgencyMedium:
		return mediumUrgencyBoost
	case domain.UrgencyLow:
		return 0
	}
	return 0
}

func detectedRegional(languages []string, regional string) bool {
	regional = strings.TrimSpace(regional)
	if regional == "" {
		return false
	}
	for _, language := range languages {
		if strings.EqualFold(strings.TrimSpace(language), regional) {
			return true
		}
	}
	return false
}

func breakdownLine(b domain.Breakdown, rule int) string {
	return fmt.Sprintf("Rule-based score %d (engagement %d/%d, intent %d/%d, contact %d/%d, behavior %d/%d)",
		rule,
		b.Engagement, domain.MaxEngagementScore,
		b.Intent, domain.MaxIntentScore,
		b.Contact, domain.MaxContactScore,
		b.Behavior, domain.MaxBehaviorScore,
	)
}

func finalLine(rule int, boost float64, final int) string {
	return fmt.Sprintf("%d + %.1f = %d", rule, boost, final)
}

func clampScore(value float64) int {
	rounded := int(math.Round(value))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func clampFloat(value float64, min float64, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
