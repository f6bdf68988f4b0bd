package domain

// Intent is the primary purpose detected in a single message.
type Intent string

const (
	IntentEnrollment Intent = "enrollment"
	IntentPricing    Intent = "pricing"
	IntentSchedule   Intent = "schedule"
	IntentLevelInfo  Intent = "level_info"
	IntentInquiry    Intent = "inquiry"
	IntentGeneral    Intent = "general"
)

// IntentPriority is the order in which intent dictionaries are checked.
// The first category with a hit wins.
var IntentPriority = []Intent{
	IntentEnrollment,
	IntentPricing,
	IntentSchedule,
	IntentLevelInfo,
	IntentInquiry,
}

func (i Intent) Valid() bool {
	switch i {
	case IntentEnrollment, IntentPricing, IntentSchedule, IntentLevelInfo, IntentInquiry, IntentGeneral:
		return true
	}
	return false
}

func (i Intent) String() string { return string(i) }

// Level is a CEFR language level.
type Level string

const (
	LevelNone Level = ""
	LevelA1   Level = "A1"
	LevelA2   Level = "A2"
	LevelB1   Level = "B1"
	LevelB2   Level = "B2"
	LevelC1   Level = "C1"
	LevelC2   Level = "C2"
)

func (l Level) Valid() bool {
	switch l {
	case LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2:
		return true
	}
	return false
}

func (l Level) String() string { return string(l) }

// Sentiment is the coarse tone of a text.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

func (s Sentiment) String() string { return string(s) }

// Urgency is how time-sensitive a text reads.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyHigh, UrgencyMedium, UrgencyLow:
		return true
	}
	return false
}

func (u Urgency) String() string { return string(u) }

// Quality is the coarse lead value tier that gets persisted.
type Quality string

const (
	QualityHot  Quality = "HOT"
	QualityWarm Quality = "WARM"
	QualityCold Quality = "COLD"
)

func (q Quality) Valid() bool {
	switch q {
	case QualityHot, QualityWarm, QualityCold:
		return true
	}
	return false
}

func (q Quality) String() string { return string(q) }

// ActionType is the next operational step suggested to an operator.
type ActionType string

const (
	ActionImmediateFollowup ActionType = "immediate_followup"
	ActionNurture           ActionType = "nurture"
	ActionLowPriority       ActionType = "low_priority"
	ActionDisqualify        ActionType = "disqualify"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionImmediateFollowup, ActionNurture, ActionLowPriority, ActionDisqualify:
		return true
	}
	return false
}

func (a ActionType) String() string { return string(a) }
