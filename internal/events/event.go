// Package events defines the lead domain events and re-exports the bus from
// platform/events so modules import a single package.
package events

import (
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/events"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var NewBaseEvent = events.NewBaseEvent

func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadScored is published after a lead's score and quality have been persisted.
type LeadScored struct {
	BaseEvent
	LeadID          uuid.UUID `json:"leadId"`
	Score           int       `json:"score"`
	Quality         string    `json:"quality"`
	PreviousQuality string    `json:"previousQuality,omitempty"`
}

func (e LeadScored) EventName() string { return "leads.lead.scored" }

// BecameHot reports whether this score moved the lead into the HOT tier.
func (e LeadScored) BecameHot() bool {
	return e.Quality == "HOT" && e.PreviousQuality != "HOT"
}
