// Package chat implements 1:1 conversations on top of the interaction
// ledger. Messaging does not strictly require a match: the first message to a
// stranger creates a pending record (a "soft match") that carries the
// conversation.
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/infrastructure/notification"
	"github.com/milanapp/milan-backend/internal/infrastructure/realtime"
	"github.com/milanapp/milan-backend/internal/repository"
)

type ChatUseCase struct {
	interactions repository.InteractionRepository
	messages     repository.MessageRepository
	profiles     repository.ProfileRepository
	publisher    realtime.Publisher
	notifier     notification.Notifier
	logger       *zap.Logger
}

func NewChatUseCase(
	interactions repository.InteractionRepository,
	messages repository.MessageRepository,
	profiles repository.ProfileRepository,
	publisher realtime.Publisher,
	notifier notification.Notifier,
	logger *zap.Logger,
) *ChatUseCase {
	return &ChatUseCase{
		interactions: interactions,
		messages:     messages,
		profiles:     profiles,
		publisher:    publisher,
		notifier:     notifier,
		logger:       logger,
	}
}

type ConversationSummary struct {
	InteractionID uuid.UUID  `json:"interaction_id"`
	UserID        uuid.UUID  `json:"user_id"`
	Name          string     `json:"name"`
	ProfileImages []string   `json:"profile_images"`
	Matched       bool       `json:"matched"`
	LastMessage   *string    `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at"`
	UnreadCount   int        `json:"unread_count"`
}

// SendMessage appends a message to the conversation between sender and
// recipient, creating the pair record first when none exists. The
// recipient's unread counter is incremented; push and socket delivery are
// best-effort.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID, recipientID uuid.UUID, text string) (*domain.Message, error) {
	if text == "" || recipientID == uuid.Nil {
		return nil, domain.ErrInvalidInput
	}
	if senderID == recipientID {
		return nil, domain.ErrSelfInteraction
	}

	recipient, err := uc.profiles.GetByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	in, err := uc.interactions.GetByPair(ctx, senderID, recipientID)
	if err != nil {
		if !errors.Is(err, domain.ErrInteractionNotFound) {
			return nil, fmt.Errorf("failed to resolve interaction: %w", err)
		}

		// Soft match: messaging without a prior like opens the pair record.
		in = &domain.Interaction{
			ID:       uuid.New(),
			ActorID:  senderID,
			TargetID: recipientID,
			Status:   domain.StatusPending,
		}
		if err := uc.interactions.Create(ctx, in); err != nil {
			if !errors.Is(err, domain.ErrInteractionExists) {
				return nil, fmt.Errorf("failed to create interaction: %w", err)
			}
			in, err = uc.interactions.GetByPair(ctx, senderID, recipientID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve interaction: %w", err)
			}
		}
	}

	msg := &domain.Message{
		ID:            uuid.New(),
		InteractionID: in.ID,
		SenderID:      senderID,
		Text:          text,
	}
	if err := uc.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	if err := uc.interactions.RecordMessage(ctx, in.ID, text, msg.CreatedAt, recipientID); err != nil {
		return nil, fmt.Errorf("failed to update conversation: %w", err)
	}

	payload := map[string]interface{}{
		"id":             msg.ID.String(),
		"interaction_id": in.ID.String(),
		"sender_id":      senderID.String(),
		"text":           text,
		"created_at":     msg.CreatedAt,
	}
	// Sender's other sessions get the event too.
	uc.publisher.Publish(recipientID.String(), "new_message", payload)
	uc.publisher.Publish(senderID.String(), "new_message", payload)

	if recipient.FCMToken != nil {
		sender, err := uc.profiles.GetByID(ctx, senderID)
		if err == nil {
			err = uc.notifier.Notify(ctx, *recipient.FCMToken,
				fmt.Sprintf("Message from %s", sender.Name),
				text,
				map[string]string{
					"type":     "chat_message",
					"matchId":  in.ID.String(),
					"senderId": senderID.String(),
				},
			)
		}
		if err != nil {
			uc.logger.Warn("message push failed", zap.Error(err))
		}
	}

	return msg, nil
}

// GetConversation returns the message history with another user, oldest
// first. No record between the pair means an empty history, not an error.
func (uc *ChatUseCase) GetConversation(ctx context.Context, viewerID, otherID uuid.UUID) ([]*domain.Message, error) {
	in, err := uc.interactions.GetByPair(ctx, viewerID, otherID)
	if err != nil {
		if errors.Is(err, domain.ErrInteractionNotFound) {
			return []*domain.Message{}, nil
		}
		return nil, fmt.Errorf("failed to resolve interaction: %w", err)
	}
	return uc.messages.ListByInteraction(ctx, in.ID)
}

// GetMessages returns the history for a known interaction id. The viewer
// must be a participant.
func (uc *ChatUseCase) GetMessages(ctx context.Context, viewerID, interactionID uuid.UUID) ([]*domain.Message, error) {
	in, err := uc.interactions.GetByID(ctx, interactionID)
	if err != nil {
		return nil, err
	}
	if !in.HasUser(viewerID) {
		return nil, domain.ErrNotInConversation
	}
	return uc.messages.ListByInteraction(ctx, in.ID)
}

// MarkRead zeroes the viewer's unread counter for the conversation with the
// other user.
func (uc *ChatUseCase) MarkRead(ctx context.Context, viewerID, otherID uuid.UUID) error {
	in, err := uc.interactions.GetByPair(ctx, viewerID, otherID)
	if err != nil {
		return err
	}
	return uc.interactions.ResetUnread(ctx, in.ID, viewerID)
}

// ListConversations returns every matched or messaged pair with the other
// profile, the viewer's unread count and the last message. Conversations
// whose other profile was deleted are skipped.
func (uc *ChatUseCase) ListConversations(ctx context.Context, viewerID uuid.UUID) ([]*ConversationSummary, error) {
	list, err := uc.interactions.ListConversational(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	conversations := make([]*ConversationSummary, 0, len(list))
	for _, in := range list {
		otherID, ok := in.OtherID(viewerID)
		if !ok {
			continue
		}
		other, err := uc.profiles.GetByID(ctx, otherID)
		if err != nil {
			// Deleted-user tombstone.
			continue
		}
		conversations = append(conversations, &ConversationSummary{
			InteractionID: in.ID,
			UserID:        other.ID,
			Name:          other.Name,
			ProfileImages: other.ProfileImages,
			Matched:       in.Status == domain.StatusMatched,
			LastMessage:   in.LastMessage,
			LastMessageAt: in.LastMessageAt,
			UnreadCount:   in.UnreadFor(viewerID),
		})
	}
	return conversations, nil
}
