package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/milanapp/milan-backend/internal/domain"
)

type InteractionRepository interface {
	// Create inserts a new pair record. Returns domain.ErrInteractionExists
	// when a record for the unordered pair already exists; the unique index
	// on the pair is the serialization point for two users acting on each
	// other concurrently.
	Create(ctx context.Context, in *domain.Interaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Interaction, error)
	// GetByPair resolves the record between two users in either direction.
	GetByPair(ctx context.Context, a, b uuid.UUID) (*domain.Interaction, error)
	// TransitionStatus moves a record from one status to another. The update
	// is conditional on the current status; it reports false without error
	// when the record was no longer in the expected state.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.InteractionStatus) (bool, error)
	// ListConversational returns records involving the user that are matched
	// or carry at least one message, most recent activity first.
	ListConversational(ctx context.Context, userID uuid.UUID) ([]*domain.Interaction, error)
	ListMatched(ctx context.Context, userID uuid.UUID) ([]*domain.Interaction, error)
	// ListPendingReceived: someone liked the user, no answer yet.
	ListPendingReceived(ctx context.Context, userID uuid.UUID) ([]*domain.Interaction, error)
	// ListPendingSent: the user liked someone, awaiting reciprocation.
	ListPendingSent(ctx context.Context, userID uuid.UUID) ([]*domain.Interaction, error)
	// ListInteractedIDs returns every profile the user must not see in
	// discovery again: anyone the user acted on first, plus all matched and
	// rejected pairs.
	ListInteractedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// RecordMessage updates the conversation metadata on the record and
	// increments the recipient's unread counter.
	RecordMessage(ctx context.Context, id uuid.UUID, text string, at time.Time, recipientID uuid.UUID) error
	// ResetUnread zeroes the viewer's unread counter.
	ResetUnread(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	// ListByInteraction returns the conversation oldest-first.
	ListByInteraction(ctx context.Context, interactionID uuid.UUID) ([]*domain.Message, error)
}
