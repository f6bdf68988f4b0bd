package domain

// EngagementSignals is the flat feature set derived from a lead's history.
// It is recomputed on every scoring call.
type EngagementSignals struct {
	DMCount              int     `json:"dmCount"`
	OutboundCount        int     `json:"outboundCount"`
	DMRecencyDays        int     `json:"dmRecencyDays"`
	DMResponseRate       float64 `json:"dmResponseRate"`
	AvgResponseTimeHours float64 `json:"avgResponseTimeHours"`

	ReelViews int `json:"reelViews"`
	Likes     int `json:"likes"`
	Comments  int `json:"comments"`
	Saves     int `json:"saves"`

	AskedAboutPricing   bool `json:"askedAboutPricing"`
	AskedAboutSchedule  bool `json:"askedAboutSchedule"`
	AskedAboutLevel     bool `json:"askedAboutLevel"`
	MentionedEnrollment bool `json:"mentionedEnrollment"`
	RequestedTrialClass bool `json:"requestedTrialClass"`
	AskedAboutDuration  bool `json:"askedAboutDuration"`

	HasPhone    bool `json:"hasPhone"`
	HasEmail    bool `json:"hasEmail"`
	HasWhatsApp bool `json:"hasWhatsApp"`

	ViewedMultipleReels bool `json:"viewedMultipleReels"`
	EngagedAcrossTime   bool `json:"engagedAcrossTime"`
	HasUrgency          bool `json:"hasUrgency"`

	HasComplaint             bool `json:"hasComplaint"`
	HasNegativeSentiment     bool `json:"hasNegativeSentiment"`
	UnresponsiveAfterContact bool `json:"unresponsiveAfterContact"`
}

// MessageCount is the total number of messages exchanged in both directions.
func (s EngagementSignals) MessageCount() int {
	return s.DMCount + s.OutboundCount
}

// HasContact reports whether any contact channel is on file.
func (s EngagementSignals) HasContact() bool {
	return s.HasPhone || s.HasEmail || s.HasWhatsApp
}
