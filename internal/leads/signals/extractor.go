// Package signals aggregates a lead's interaction history into EngagementSignals.
package signals

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/sanitize"
)

const (
	defaultAvgResponseHours  = 24.0
	multipleReelViews        = 3
	unresponsiveAfter        = 7 * 24 * time.Hour
	unresponsiveMaxInbound   = 2
	fullResponseRate         = 100.0
	distinctDaysForCrossTime = 2
)

var (
	pricingRegex    = regexp.MustCompile(`\b(price|prices|pricing|fee|fees|cost|costs|how much|discount|emi|installment|instalment|payment|ethra)\b`)
	scheduleRegex   = regexp.MustCompile(`\b(schedule|timing|timings|batch|batches|class time|start date|starting date|when does|when is|weekend|weekday|morning|evening)\b`)
	levelRegex      = regexp.MustCompile(`\b([abc][12]|level|levels|beginner|intermediate|advanced|cefr)\b`)
	enrollmentRegex = regexp.MustCompile(`\b(enrol|enroll|enrolled|enrolling|enrollment|enrolment|register|registration|admission|sign up|signup|join)\b`)
	trialRegex      = regexp.MustCompile(`\b(trial|trial class|demo|demo class|free class|sample class)\b`)
	durationRegex   = regexp.MustCompile(`\b(duration|how long|how many (months|weeks)|course length|intensive)\b`)
	urgencyRegex    = regexp.MustCompile(`\b(urgent|urgently|asap|immediately|today|right now|soon|this week|next week|ippo thanne)\b`)
	complaintRegex  = regexp.MustCompile(`\b(complaint|complain|complaining|refund|scam|fraud|cheated|worst|terrible|not satisfied|unprofessional)\b`)
	negativeRegex   = regexp.MustCompile(`\b(not interested|no longer interested|no thanks|too expensive|expensive|disappointed|unhappy|angry|waste|useless|don't want|do not want|stop messaging|venda)\b`)
)

// History is everything the extractor reads for one lead.
type History struct {
	Lead     domain.Lead
	Messages []domain.DirectMessage
	Comments []domain.Comment
}

// Extractor derives signals relative to the time returned by its clock.
type Extractor struct {
	now func() time.Time
}

// NewExtractor returns an extractor using now as its clock. A nil clock means time.Now.
func NewExtractor(now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	return &Extractor{now: now}
}

// Extract computes the signal set for a history.
func (e *Extractor) Extract(h History) domain.EngagementSignals {
	now := e.now()
	messages := sortedMessages(h.Messages)

	s := domain.EngagementSignals{
		AvgResponseTimeHours: defaultAvgResponseHours,
	}

	var latestInbound time.Time
	for _, msg := range messages {
		switch msg.Direction {
		case domain.DirectionInbound:
			s.DMCount++
			if msg.SentAt.After(latestInbound) {
				latestInbound = msg.SentAt
			}
		case domain.DirectionOutbound:
			s.OutboundCount++
		}
	}

	if s.DMCount > 0 {
		s.DMRecencyDays = wholeDaysBetween(latestInbound, now)
	}
	s.DMResponseRate = responseRate(s.DMCount, s.OutboundCount)
	if avg, ok := averageResponseHours(messages); ok {
		s.AvgResponseTimeHours = avg
	}

	totals := h.Lead.Engagement.Totals()
	s.ReelViews = totals.Views
	s.Likes = totals.Likes
	s.Comments = totals.Comments
	s.Saves = totals.Saves

	text := SignalText(h)
	s.AskedAboutPricing = pricingRegex.MatchString(text)
	s.AskedAboutSchedule = scheduleRegex.MatchString(text)
	s.AskedAboutLevel = levelRegex.MatchString(text)
	s.MentionedEnrollment = enrollmentRegex.MatchString(text)
	s.RequestedTrialClass = trialRegex.MatchString(text)
	s.AskedAboutDuration = durationRegex.MatchString(text)
	s.HasUrgency = urgencyRegex.MatchString(text)
	s.HasComplaint = complaintRegex.MatchString(text)
	s.HasNegativeSentiment = negativeRegex.MatchString(text)

	s.HasPhone = domain.HasValue(h.Lead.Phone)
	s.HasEmail = domain.HasValue(h.Lead.Email)
	s.HasWhatsApp = domain.HasValue(h.Lead.WhatsApp)

	s.ViewedMultipleReels = s.ReelViews >= multipleReelViews
	s.EngagedAcrossTime = distinctDays(messages) >= distinctDaysForCrossTime

	s.UnresponsiveAfterContact = h.Lead.Status == domain.LeadStatusContacted &&
		h.Lead.LastContactDate != nil &&
		now.Sub(*h.Lead.LastContactDate) > unresponsiveAfter &&
		s.DMCount < unresponsiveMaxInbound

	return s
}

// SignalText is the lower-cased, tag-free text the intent and negative-signal
// patterns run over: notes, then inbound messages, then comments.
func SignalText(h History) string {
	parts := make([]string, 0, len(h.Messages)+len(h.Comments)+1)
	if domain.HasValue(h.Lead.Notes) {
		parts = append(parts, *h.Lead.Notes)
	}
	for _, msg := range h.Messages {
		if msg.Direction == domain.DirectionInbound {
			parts = append(parts, msg.Content)
		}
	}
	for _, comment := range h.Comments {
		parts = append(parts, comment.Text)
	}
	return strings.ToLower(sanitize.StripHTML(strings.Join(parts, "\n")))
}

// AnalysisText is the raw text handed to the semantic analyzer: comments,
// then inbound messages, then notes.
func AnalysisText(h History) string {
	parts := make([]string, 0, len(h.Messages)+len(h.Comments)+1)
	for _, comment := range h.Comments {
		if text := strings.TrimSpace(comment.Text); text != "" {
			parts = append(parts, text)
		}
	}
	for _, msg := range h.Messages {
		if msg.Direction != domain.DirectionInbound {
			continue
		}
		if text := strings.TrimSpace(msg.Content); text != "" {
			parts = append(parts, text)
		}
	}
	if domain.HasValue(h.Lead.Notes) {
		parts = append(parts, strings.TrimSpace(*h.Lead.Notes))
	}
	return strings.Join(parts, "\n")
}

func sortedMessages(messages []domain.DirectMessage) []domain.DirectMessage {
	sorted := append([]domain.DirectMessage(nil), messages...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SentAt.Before(sorted[j].SentAt)
	})
	return sorted
}

func responseRate(inbound, outbound int) float64 {
	if inbound == 0 && outbound == 0 {
		return 0
	}
	if outbound == 0 {
		return fullResponseRate
	}
	return float64(inbound) / float64(outbound) * 100
}

// averageResponseHours averages the gap between an outbound message and the
// inbound message that immediately follows it.
func averageResponseHours(messages []domain.DirectMessage) (float64, bool) {
	var total float64
	var pairs int
	for i := 0; i+1 < len(messages); i++ {
		if messages[i].Direction != domain.DirectionOutbound || messages[i+1].Direction != domain.DirectionInbound {
			continue
		}
		total += messages[i+1].SentAt.Sub(messages[i].SentAt).Hours()
		pairs++
	}
	if pairs == 0 {
		return 0, false
	}
	return total / float64(pairs), true
}

func distinctDays(messages []domain.DirectMessage) int {
	days := make(map[string]struct{}, len(messages))
	for _, msg := range messages {
		days[msg.SentAt.UTC().Format(time.DateOnly)] = struct{}{}
	}
	return len(days)
}

func wholeDaysBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from) / (24 * time.Hour))
}
