package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/repository"
)

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, interaction_id, sender_id, text, read)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query, msg.ID, msg.InteractionID, msg.SenderID, msg.Text, msg.Read).
		Scan(&msg.CreatedAt)
}

func (r *messageRepository) ListByInteraction(ctx context.Context, interactionID uuid.UUID) ([]*domain.Message, error) {
	var messages []*domain.Message
	query := `
		SELECT * FROM messages
		WHERE interaction_id = $1
		ORDER BY created_at ASC
	`
	err := r.db.SelectContext(ctx, &messages, query, interactionID)
	return messages, err
}
