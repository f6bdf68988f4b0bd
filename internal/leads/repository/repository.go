package repository

import (
	"context"
	"errors"
	"time"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetLead loads a lead. The engagement blob is sanitized on read.
func (r *Repository) GetLead(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	var (
		lead       domain.Lead
		status     string
		quality    *string
		engagement []byte
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, name, phone, email, whatsapp, status, notes, last_contact_date,
			engagement, score, quality, created_at, updated_at
		FROM leads
		WHERE id = $1
	`, id).Scan(
		&lead.ID, &lead.Name, &lead.Phone, &lead.Email, &lead.WhatsApp, &status, &lead.Notes,
		&lead.LastContactDate, &engagement, &lead.Score, &quality, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, err
	}

	lead.Status = domain.LeadStatus(status)
	lead.Engagement = domain.ParseEngagement(engagement)
	if quality != nil {
		if q := domain.Quality(*quality); q.Valid() {
			lead.Quality = &q
		}
	}

	return lead, nil
}

// ListDirectMessages returns a lead's messages ordered by send time.
func (r *Repository) ListDirectMessages(ctx context.Context, leadID uuid.UUID) ([]domain.DirectMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, direction, content, sent_at
		FROM direct_messages
		WHERE lead_id = $1
		ORDER BY sent_at ASC, id ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.DirectMessage, 0)
	for rows.Next() {
		var item domain.DirectMessage
		var direction string
		if err := rows.Scan(&item.ID, &item.LeadID, &direction, &item.Content, &item.SentAt); err != nil {
			return nil, err
		}
		item.Direction = domain.Direction(direction)
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// ListComments returns a lead's public comments ordered by time.
func (r *Repository) ListComments(ctx context.Context, leadID uuid.UUID) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, text, commented_at
		FROM comments
		WHERE lead_id = $1
		ORDER BY commented_at ASC, id ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Comment, 0)
	for rows.Next() {
		var item domain.Comment
		if err := rows.Scan(&item.ID, &item.LeadID, &item.Text, &item.CommentedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// ListLeadsByStatus returns up to limit leads with one of the statuses, strictly
// after the cursor in (created_at, id) order.
func (r *Repository) ListLeadsByStatus(ctx context.Context, statuses []domain.LeadStatus, after LeadCursor, limit int) ([]LeadRef, error) {
	values := make([]string, 0, len(statuses))
	for _, status := range statuses {
		values = append(values, status.String())
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, created_at
		FROM leads
		WHERE status = ANY($1)
		  AND (created_at > $2 OR (created_at = $2 AND id > $3))
		ORDER BY created_at ASC, id ASC
		LIMIT $4
	`, values, after.CreatedAt, after.ID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make([]LeadRef, 0, limit)
	for rows.Next() {
		var ref LeadRef
		if err := rows.Scan(&ref.ID, &ref.CreatedAt); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return refs, nil
}

// UpdateLeadScore writes the score and quality tier. Repeating the same update is a no-op.
func (r *Repository) UpdateLeadScore(ctx context.Context, id uuid.UUID, params UpdateLeadScoreParams) error {
	scoredAt := params.ScoreUpdatedAt
	if scoredAt.IsZero() {
		scoredAt = time.Now().UTC()
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET score = $2, quality = $3, score_updated_at = $4, updated_at = now()
		WHERE id = $1
	`, id, params.Score, params.Quality.String(), scoredAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
