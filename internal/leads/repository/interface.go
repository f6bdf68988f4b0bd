package repository

import (
	"context"
	"time"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to a lead and its history.
type LeadReader interface {
	GetLead(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	ListDirectMessages(ctx context.Context, leadID uuid.UUID) ([]domain.DirectMessage, error)
	ListComments(ctx context.Context, leadID uuid.UUID) ([]domain.Comment, error)
}

// ScoreWriter persists the outcome of a scoring run.
type ScoreWriter interface {
	UpdateLeadScore(ctx context.Context, id uuid.UUID, params UpdateLeadScoreParams) error
}

// RescoreLister pages through leads for batch rescoring.
type RescoreLister interface {
	ListLeadsByStatus(ctx context.Context, statuses []domain.LeadStatus, after LeadCursor, limit int) ([]LeadRef, error)
}

// LeadsRepository is the full repository surface used by the scoring service.
type LeadsRepository interface {
	LeadReader
	ScoreWriter
	RescoreLister
}

// UpdateLeadScoreParams are the only lead fields scoring writes back.
type UpdateLeadScoreParams struct {
	Score          int
	Quality        domain.Quality
	ScoreUpdatedAt time.Time
}

// LeadCursor is a keyset position over (created_at, id). The zero value starts
// from the beginning.
type LeadCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// LeadRef identifies a lead in a rescore page.
type LeadRef struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// Cursor returns the keyset position just after this lead.
func (r LeadRef) Cursor() LeadCursor {
	return LeadCursor{CreatedAt: r.CreatedAt, ID: r.ID}
}

// Compile-time check that Repository implements LeadsRepository.
var _ LeadsRepository = (*Repository)(nil)
