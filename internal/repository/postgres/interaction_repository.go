package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/repository"
)

type interactionRepository struct {
	db *sqlx.DB
}

func NewInteractionRepository(db *sqlx.DB) repository.InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) Create(ctx context.Context, in *domain.Interaction) error {
	query := `
		INSERT INTO interactions (id, actor_id, target_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, in.ID, in.ActorID, in.TargetID, in.Status).
		Scan(&in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrInteractionExists
		}
		return err
	}
	return nil
}

func (r *interactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Interaction, error) {
	var in domain.Interaction
	query := `SELECT * FROM interactions WHERE id = $1`
	err := r.db.GetContext(ctx, &in, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInteractionNotFound
		}
		return nil, err
	}
	return &in, nil
}

func (r *interactionRepository) GetByPair(ctx context.Context, a, b uuid.UUID) (*domain.Interaction, error) {
	var in domain.Interaction
	query := `
		SELECT * FROM interactions
		WHERE (actor_id = $1 AND target_id = $2) OR (actor_id = $2 AND target_id = $1)
	`
	err := r.db.GetContext(ctx, &in, query, a, b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInteractionNotFound
		}
		return nil, err
	}
	return &in, nil
}

func (r *interactionRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.InteractionStatus) (bool, error) {
	query := `
		UPDATE interactions
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND status = $3
	`
	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *interactionRepository) ListConversational(ctx context.Context, userID uuid.UUID) ([]*domain.Interaction, error) {
	var list []*domain.Interaction
	query := `
		SELECT * FROM interactions
		WHERE (actor_id = $1 OR target_id = $1)
		  AND (status = $2 OR last_message IS NOT NULL)
		ORDER BY COALESCE(last_message_at, updated_at) DESC
	`
	err := r.db.SelectContext(ctx, &list, query, userID, domain.StatusMatched)
	return list, err
}

func (r *interactionRepository) ListMatched(ctx context.Context, userID uuid.UUID) ([]*domain.Interaction, error) {
	var list []*domain.Interaction
	query := `
		SELECT * FROM interactions
		WHERE (actor_id = $1 OR target_id = $1) AND status = $2
		ORDER BY updated_at DESC
	`
	err := r.db.SelectContext(ctx, &list, query, userID, domain.StatusMatched)
	return list, err
}

func (r *interactionRepository) ListPendingReceived(ctx context.Context, userID uuid.UUID) ([]*domain.Interaction, error) {
	var list []*domain.Interaction
	query := `
		SELECT * FROM interactions
		WHERE target_id = $1 AND status = $2
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &list, query, userID, domain.StatusPending)
	return list, err
}

func (r *interactionRepository) ListPendingSent(ctx context.Context, userID uuid.UUID) ([]*domain.Interaction, error) {
	var list []*domain.Interaction
	query := `
		SELECT * FROM interactions
		WHERE actor_id = $1 AND status = $2
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &list, query, userID, domain.StatusPending)
	return list, err
}

func (r *interactionRepository) ListInteractedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	// Anyone the user acted on first, plus every matched or rejected pair.
	// A pending like received from someone else does not hide them.
	query := `
		SELECT CASE WHEN actor_id = $1 THEN target_id ELSE actor_id END
		FROM interactions
		WHERE (actor_id = $1 OR target_id = $1)
		  AND (actor_id = $1 OR status <> $2)
	`
	rows, err := r.db.QueryContext(ctx, query, userID, domain.StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *interactionRepository) RecordMessage(ctx context.Context, id uuid.UUID, text string, at time.Time, recipientID uuid.UUID) error {
	query := `
		UPDATE interactions
		SET last_message = $1,
		    last_message_at = $2,
		    unread_actor = unread_actor + CASE WHEN actor_id = $3 THEN 1 ELSE 0 END,
		    unread_target = unread_target + CASE WHEN target_id = $3 THEN 1 ELSE 0 END,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, text, at, recipientID, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrInteractionNotFound
	}
	return nil
}

func (r *interactionRepository) ResetUnread(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) error {
	query := `
		UPDATE interactions
		SET unread_actor = CASE WHEN actor_id = $1 THEN 0 ELSE unread_actor END,
		    unread_target = CASE WHEN target_id = $1 THEN 0 ELSE unread_target END
		WHERE id = $2
	`
	result, err := r.db.ExecContext(ctx, query, viewerID, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrInteractionNotFound
	}
	return nil
}
