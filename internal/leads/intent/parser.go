// Package intent screens a single free-text message for purchase intent.
// Parsing is pure and deterministic; it never touches the network or storage.
package intent

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/phone"
)

const (
	levelPoints        = 10
	contactPoints      = 30
	pointsPerKeyword   = 3
	maxKeywordPoints   = 15
	longMessagePoints  = 5
	longMessageLength  = 50
	createLeadMinScore = 25
)

var (
	levelCodeRegex = regexp.MustCompile(`(?i)\b([abc][12])\b`)
	emailRegex     = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRegex     = regexp.MustCompile(`(?:^|[^\d+])(\+?(?:\d{1,3}[\s-]?)?[6-9](?:[\s-]?\d){9})(?:$|\D)`)
	nameRegex      = regexp.MustCompile(`\b(?i:my name is|i am|i'm)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
	separatorRegex = regexp.MustCompile(`[\s-]`)

	intentMatchers       = compileIntentMatchers()
	keywordMatchers      = compileKeywordMatchers()
	positiveMatcher      = compileTerms(positiveTerms)
	negativeMatcher      = compileTerms(negativeTerms)
	highUrgencyMatcher   = compileTerms(highUrgencyTerms)
	mediumUrgencyMatcher = compileTerms(mediumUrgencyTerms)
	levelSynonymMatcher  = compileTerms(sortedKeys(levelSynonyms))
)

// Parse extracts intent, level, contact details, keywords, sentiment and urgency
// from one message and computes its quick score.
func Parse(text string) domain.ParsedMessage {
	parsed := domain.ParsedMessage{
		Intent:    DetectIntent(text),
		Level:     DetectLevel(text),
		Keywords:  ExtractKeywords(text),
		Sentiment: DetectSentiment(text),
		Urgency:   DetectUrgency(text),
	}

	if contact := ExtractContact(text); contact != nil {
		parsed.ContactInfo = contact
	}

	parsed.QuickScore = QuickScore(parsed, text)
	return parsed
}

// DetectIntent returns the first intent in priority order with a dictionary hit.
func DetectIntent(text string) domain.Intent {
	for _, candidate := range domain.IntentPriority {
		if matcher, ok := intentMatchers[candidate]; ok && matcher.MatchString(text) {
			return candidate
		}
	}
	return domain.IntentGeneral
}

// DetectLevel returns an explicit CEFR code if present, otherwise the level
// implied by the first synonym in the text.
func DetectLevel(text string) domain.Level {
	if match := levelCodeRegex.FindStringSubmatch(text); match != nil {
		return domain.Level(strings.ToUpper(match[1]))
	}
	if match := levelSynonymMatcher.FindString(text); match != "" {
		return levelSynonyms[strings.ToLower(match)]
	}
	return domain.LevelNone
}

// ExtractContact pulls a phone, email and name out of the text. It returns nil
// when none of them is found.
func ExtractContact(text string) *domain.ContactInfo {
	var contact domain.ContactInfo

	if match := emailRegex.FindString(text); match != "" {
		contact.Email = match
	}

	if match := phoneRegex.FindStringSubmatch(text); match != nil {
		contact.Phone = separatorRegex.ReplaceAllString(match[1], "")
		if formatted, ok := phone.E164(contact.Phone); ok {
			contact.PhoneE164 = formatted
		}
	}

	for _, match := range nameRegex.FindAllStringSubmatch(text, -1) {
		name := trimNameStopWords(match[1])
		if name != "" {
			contact.Name = name
			break
		}
	}

	if contact == (domain.ContactInfo{}) {
		return nil
	}
	return &contact
}

func trimNameStopWords(candidate string) string {
	words := strings.Fields(candidate)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if _, stop := nameStopWords[word]; stop {
			break
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

// ExtractKeywords returns the sorted, de-duplicated set of dictionary terms in the text.
func ExtractKeywords(text string) []string {
	seen := make(map[string]struct{})
	for _, category := range keywordCategories {
		for _, match := range keywordMatchers[category].FindAllString(text, -1) {
			seen[normalizeTerm(match)] = struct{}{}
		}
	}

	keywords := make([]string, 0, len(seen))
	for keyword := range seen {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)
	return keywords
}

// DetectSentiment is a majority vote between negative and positive terms.
func DetectSentiment(text string) domain.Sentiment {
	negatives := len(negativeMatcher.FindAllStringIndex(text, -1))
	remaining := negativeMatcher.ReplaceAllString(text, " ")
	positives := len(positiveMatcher.FindAllStringIndex(remaining, -1))

	switch {
	case positives > negatives:
		return domain.SentimentPositive
	case negatives > positives:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// DetectUrgency checks the high list before the medium list.
func DetectUrgency(text string) domain.Urgency {
	if highUrgencyMatcher.MatchString(text) {
		return domain.UrgencyHigh
	}
	if mediumUrgencyMatcher.MatchString(text) {
		return domain.UrgencyMedium
	}
	return domain.UrgencyLow
}

// QuickScore is the lightweight screening score for a parsed message.
func QuickScore(parsed domain.ParsedMessage, text string) int {
	score := intentBasePoints[parsed.Intent]
	if parsed.Level.Valid() {
		score += levelPoints
	}
	if parsed.ContactInfo.Present() {
		score += contactPoints
	}
	score += min(pointsPerKeyword*len(parsed.Keywords), maxKeywordPoints)
	if utf8.RuneCountInString(text) > longMessageLength {
		score += longMessagePoints
	}
	return max(0, min(score, 100))
}

// ShouldCreateLead reports whether a message is worth opening a lead for.
func ShouldCreateLead(parsed domain.ParsedMessage) bool {
	if parsed.QuickScore >= createLeadMinScore || parsed.ContactInfo.Present() {
		return true
	}
	switch parsed.Intent {
	case domain.IntentEnrollment, domain.IntentPricing, domain.IntentSchedule:
		return true
	case domain.IntentLevelInfo, domain.IntentInquiry, domain.IntentGeneral:
		return false
	}
	return false
}

func compileIntentMatchers() map[domain.Intent]*regexp.Regexp {
	matchers := make(map[domain.Intent]*regexp.Regexp, len(intentTerms))
	for category, terms := range intentTerms {
		matchers[category] = compileTerms(terms)
	}
	return matchers
}

func compileKeywordMatchers() map[string]*regexp.Regexp {
	matchers := make(map[string]*regexp.Regexp, len(keywordTerms))
	for category, terms := range keywordTerms {
		matchers[category] = compileTerms(terms)
	}
	return matchers
}

// compileTerms builds one case-insensitive whole-word alternation. Longer terms
// come first so that "how long" wins over a shorter overlapping term.
func compileTerms(terms []string) *regexp.Regexp {
	ordered := append([]string(nil), terms...)
	sort.SliceStable(ordered, func(i, j int) bool { return len(ordered[i]) > len(ordered[j]) })

	parts := make([]string, 0, len(ordered))
	for _, term := range ordered {
		parts = append(parts, strings.Join(strings.Fields(regexp.QuoteMeta(term)), `\s+`))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(parts, "|") + `)\b`)
}

func normalizeTerm(match string) string {
	return strings.Join(strings.Fields(strings.ToLower(match)), " ")
}

func sortedKeys(values map[string]domain.Level) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
