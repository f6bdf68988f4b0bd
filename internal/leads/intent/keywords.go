package intent

import "github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"

// Terms are matched case-insensitively on whole words. Multi-word terms match
// with any run of whitespace between the words.

var intentTerms = map[domain.Intent][]string{
	domain.IntentEnrollment: {
		"enroll", "enrol", "enrolled", "enrolling", "enrollment", "enrolment",
		"register", "registration", "registering", "admission", "admissions",
		"sign up", "signup", "join the course", "join the class", "want to join",
		"book a seat", "reserve a seat", "join cheyyan", "cheranam", "cheran",
	},
	domain.IntentPricing: {
		"price", "prices", "pricing", "fee", "fees", "cost", "costs", "how much",
		"discount", "emi", "installment", "instalment", "payment", "ethra", "ethra aanu",
		"rate", "rates", "charges",
	},
	domain.IntentSchedule: {
		"schedule", "timing", "timings", "batch", "batches", "class time", "what time",
		"start date", "starting date", "next batch", "when does", "when is", "when will",
		"eppozha", "eppol",
	},
	domain.IntentLevelInfo: {
		"level", "levels", "a1", "a2", "b1", "b2", "c1", "c2", "beginner", "intermediate",
		"advanced", "cefr", "syllabus",
	},
	domain.IntentInquiry: {
		"details", "detail", "info", "information", "know more", "tell me", "enquiry",
		"inquiry", "interested", "question", "doubt", "ariyan", "parayamo",
	},
}

var intentBasePoints = map[domain.Intent]int{
	domain.IntentEnrollment: 40,
	domain.IntentPricing:    30,
	domain.IntentSchedule:   25,
	domain.IntentLevelInfo:  20,
	domain.IntentInquiry:    15,
	domain.IntentGeneral:    5,
}

// Keyword categories recorded on a parsed message.
const (
	categoryCourse        = "course"
	categoryMode          = "mode"
	categoryTiming        = "timing"
	categoryDuration      = "duration"
	categoryCertification = "certification"
)

var keywordCategories = []string{
	categoryCourse,
	categoryMode,
	categoryTiming,
	categoryDuration,
	categoryCertification,
}

var keywordTerms = map[string][]string{
	categoryCourse: {
		"german", "deutsch", "grammar", "conversation", "spoken german", "language course",
		"nursing", "au pair",
	},
	categoryMode: {
		"online", "offline", "classroom", "hybrid", "zoom", "in person", "recorded", "live class",
	},
	categoryTiming: {
		"morning", "afternoon", "evening", "night", "weekend", "weekends", "weekday", "weekdays",
		"saturday", "sunday",
	},
	categoryDuration: {
		"month", "months", "week", "weeks", "intensive", "crash course", "fast track",
		"duration", "how long",
	},
	categoryCertification: {
		"certificate", "certification", "goethe", "telc", "osd", "exam", "exams",
	},
}

var positiveTerms = []string{
	"interested", "great", "good", "excellent", "love", "like", "thanks", "thank you",
	"awesome", "nice", "happy", "excited", "perfect", "sure", "definitely", "super",
	"adipoli", "kollam", "nallathu",
}

// Negative phrases are removed before positive terms are counted so that
// "not interested" never also counts as "interested".
var negativeTerms = []string{
	"not interested", "no longer interested", "no thanks", "not good", "not happy",
	"bad", "worst", "expensive", "too costly", "disappointed", "angry", "waste",
	"useless", "poor", "unhappy", "cancel", "refund", "scam", "mosham", "venda",
}

var highUrgencyTerms = []string{
	"urgent", "urgently", "asap", "immediately", "today", "right now", "emergency",
	"at the earliest", "ippo thanne",
}

var mediumUrgencyTerms = []string{
	"soon", "next week", "this week", "this month", "next month", "quickly", "shortly",
	"upcoming",
}

var levelSynonyms = map[string]domain.Level{
	"beginner":     domain.LevelA1,
	"intermediate": domain.LevelB1,
	"advanced":     domain.LevelC1,
}

// Names that follow "I am" but are not names.
var nameStopWords = map[string]struct{}{
	"Interested": {}, "Looking": {}, "Planning": {}, "From": {}, "Not": {}, "Ready": {},
	"Available": {}, "Here": {}, "Working": {}, "Going": {}, "Very": {}, "Currently": {},
	"Also": {}, "Just": {}, "Still": {}, "Sure": {}, "Fine": {}, "Good": {},
}
