package transport

import "github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"

// RescoreRequest starts a batch rescore. An empty status list means all active statuses.
type RescoreRequest struct {
	Statuses []string `json:"statuses" validate:"omitempty,max=6,dive,lead_status"`
}

// LeadStatuses converts the validated request statuses.
func (r RescoreRequest) LeadStatuses() []domain.LeadStatus {
	statuses := make([]domain.LeadStatus, 0, len(r.Statuses))
	for _, raw := range r.Statuses {
		statuses = append(statuses, domain.LeadStatus(raw))
	}
	return statuses
}

// RescoreResponse acknowledges a batch rescore.
type RescoreResponse struct {
	Status   string              `json:"status"`
	Mode     string              `json:"mode"`
	Statuses []domain.LeadStatus `json:"statuses"`
}

const (
	RescoreStatusAccepted = "accepted"
	RescoreModeQueued     = "queued"
	RescoreModeInline     = "background"
)

// ParseMessageRequest screens a single inbound message.
type ParseMessageRequest struct {
	Message string `json:"message" validate:"required,max=5000"`
}

// ParseMessageResponse is the parsed view plus the lead creation hint.
type ParseMessageResponse struct {
	domain.ParsedMessage
	ShouldCreateLead bool `json:"shouldCreateLead"`
}
