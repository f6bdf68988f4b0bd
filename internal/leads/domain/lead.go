// Package domain provides core business types for the leads bounded context.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LeadStatus is the funnel position of a lead.
type LeadStatus string

const (
	LeadStatusNew            LeadStatus = "NEW"
	LeadStatusContacted      LeadStatus = "CONTACTED"
	LeadStatusInterested     LeadStatus = "INTERESTED"
	LeadStatusTrialScheduled LeadStatus = "TRIAL_SCHEDULED"
	LeadStatusConverted      LeadStatus = "CONVERTED"
	LeadStatusLost           LeadStatus = "LOST"
)

// ActiveStatuses are the statuses a batch rescore visits when no filter is given.
var ActiveStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusInterested,
	LeadStatusTrialScheduled,
}

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusInterested,
		LeadStatusTrialScheduled, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

func (s LeadStatus) String() string { return string(s) }

// ParseLeadStatuses parses a comma separated, case-insensitive status filter.
// Empty entries are skipped. Unknown entries are left out of the result and
// reported together in the error.
func ParseLeadStatuses(raw string) ([]LeadStatus, error) {
	parts := strings.Split(raw, ",")
	statuses := make([]LeadStatus, 0, len(parts))
	var unknown []string
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		status := LeadStatus(strings.ToUpper(token))
		if !status.Valid() {
			unknown = append(unknown, token)
			continue
		}
		statuses = append(statuses, status)
	}
	if len(unknown) > 0 {
		return statuses, fmt.Errorf("unknown lead status %s", strings.Join(unknown, ", "))
	}
	return statuses, nil
}

// Lead is the persisted prospect record. Scoring reads it and writes back
// only Score and Quality.
type Lead struct {
	ID              uuid.UUID
	Name            string
	Phone           *string
	Email           *string
	WhatsApp        *string
	Status          LeadStatus
	Notes           *string
	LastContactDate *time.Time
	Engagement      EngagementCounters
	Score           *int
	Quality         *Quality
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Direction of a direct message relative to the school.
type Direction string

const (
	DirectionInbound  Direction = "in"
	DirectionOutbound Direction = "out"
)

func (d Direction) Valid() bool {
	switch d {
	case DirectionInbound, DirectionOutbound:
		return true
	}
	return false
}

// DirectMessage is a single chat message. Immutable once stored.
type DirectMessage struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Direction Direction
	Content   string
	SentAt    time.Time
}

// Comment is a public social comment left by the lead. Immutable once stored.
type Comment struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	Text        string
	CommentedAt time.Time
}

// HasValue reports whether an optional text field carries a non-blank value.
func HasValue(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
