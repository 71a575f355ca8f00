// Package match implements the like/reject state machine over the
// interaction ledger: none -> pending -> matched, none -> rejected,
// pending -> rejected. No transition leaves matched or rejected.
package match

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

type MatchUseCase struct {
	interactions repository.InteractionRepository
	profiles     repository.ProfileRepository
	publisher    realtime.Publisher
	notifier     notification.Notifier
	logger       *zap.Logger
}

func NewMatchUseCase(
	interactions repository.InteractionRepository,
	profiles repository.ProfileRepository,
	publisher realtime.Publisher,
	notifier notification.Notifier,
	logger *zap.Logger,
) *MatchUseCase {
	return &MatchUseCase{
		interactions: interactions,
		profiles:     profiles,
		publisher:    publisher,
		notifier:     notifier,
		logger:       logger,
	}
}

// LikeResponse reports what a like did.
type LikeResponse struct {
	Outcome     domain.LikeOutcome  `json:"outcome"`
	Interaction *domain.Interaction `json:"interaction,omitempty"`
}

// ProfileSummary is the trimmed profile attached to match listings.
type ProfileSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Age           int       `json:"age"`
	ProfileImages []string  `json:"profile_images"`
	State         string    `json:"state"`
	City          string    `json:"city"`
}

type MatchSummary struct {
	InteractionID uuid.UUID      `json:"interaction_id"`
	User          ProfileSummary `json:"user"`
	MatchedAt     time.Time      `json:"matched_at"`
}

type LikeSummary struct {
	InteractionID uuid.UUID      `json:"interaction_id"`
	User          ProfileSummary `json:"user"`
	LikedAt       time.Time      `json:"liked_at"`
}

// Like records actor's like on target. Two users liking each other
// concurrently is resolved by the unique pair index: whichever insert loses
// observes the existing record and flips it to matched instead of inserting
// a second one.
func (uc *MatchUseCase) Like(ctx context.Context, actorID, targetID uuid.UUID) (*LikeResponse, error) {
	if actorID == targetID {
		return nil, domain.ErrSelfInteraction
	}
	if _, err := uc.profiles.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	in, err := uc.interactions.GetByPair(ctx, actorID, targetID)
	if err != nil {
		if !errors.Is(err, domain.ErrInteractionNotFound) {
			return nil, fmt.Errorf("failed to resolve interaction: %w", err)
		}

		in = &domain.Interaction{
			ID:       uuid.New(),
			ActorID:  actorID,
			TargetID: targetID,
			Status:   domain.StatusPending,
		}
		err = uc.interactions.Create(ctx, in)
		if err == nil {
			uc.notifyLiked(ctx, actorID, targetID)
			return &LikeResponse{Outcome: domain.OutcomeLiked, Interaction: in}, nil
		}
		if !errors.Is(err, domain.ErrInteractionExists) {
			return nil, fmt.Errorf("failed to create interaction: %w", err)
		}
		// Lost the race against the other side; fall through to the record
		// that beat us.
		in, err = uc.interactions.GetByPair(ctx, actorID, targetID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve interaction: %w", err)
		}
	}

	return uc.likeExisting(ctx, in, actorID)
}

func (uc *MatchUseCase) likeExisting(ctx context.Context, in *domain.Interaction, actorID uuid.UUID) (*LikeResponse, error) {
	if in.ActorID == actorID {
		if in.Status == domain.StatusMatched {
			return &LikeResponse{Outcome: domain.OutcomeAlreadyMatched, Interaction: in}, nil
		}
		return nil, domain.ErrAlreadyInteracted
	}

	switch in.Status {
	case domain.StatusMatched:
		return &LikeResponse{Outcome: domain.OutcomeAlreadyMatched, Interaction: in}, nil

	case domain.StatusRejected:
		// The pair is closed. The like is accepted silently but nothing
		// forms and nobody is notified.
		return &LikeResponse{Outcome: domain.OutcomeLiked, Interaction: in}, nil

	default:
		changed, err := uc.interactions.TransitionStatus(ctx, in.ID, domain.StatusPending, domain.StatusMatched)
		if err != nil {
			return nil, fmt.Errorf("failed to update interaction: %w", err)
		}
		if !changed {
			// Someone got there first; reload to see what it became.
			in, err = uc.interactions.GetByID(ctx, in.ID)
			if err != nil {
				return nil, err
			}
			return uc.likeExisting(ctx, in, actorID)
		}
		in.Status = domain.StatusMatched
		uc.notifyMatched(ctx, in)
		return &LikeResponse{Outcome: domain.OutcomeMatched, Interaction: in}, nil
	}
}

// Reject records actor passing on target. Terminal: the target never shows
// up in actor's discovery again and a later like from the target cannot form
// a match.
func (uc *MatchUseCase) Reject(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return domain.ErrSelfInteraction
	}
	if _, err := uc.profiles.GetByID(ctx, targetID); err != nil {
		return err
	}

	in, err := uc.interactions.GetByPair(ctx, actorID, targetID)
	if err != nil {
		if !errors.Is(err, domain.ErrInteractionNotFound) {
			return fmt.Errorf("failed to resolve interaction: %w", err)
		}

		in = &domain.Interaction{
			ID:       uuid.New(),
			ActorID:  actorID,
			TargetID: targetID,
			Status:   domain.StatusRejected,
		}
		err = uc.interactions.Create(ctx, in)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrInteractionExists) {
			return fmt.Errorf("failed to create interaction: %w", err)
		}
		in, err = uc.interactions.GetByPair(ctx, actorID, targetID)
		if err != nil {
			return fmt.Errorf("failed to resolve interaction: %w", err)
		}
	}

	if in.ActorID == actorID || in.Status != domain.StatusPending {
		return domain.ErrAlreadyInteracted
	}

	// Declining a like someone sent us.
	changed, err := uc.interactions.TransitionStatus(ctx, in.ID, domain.StatusPending, domain.StatusRejected)
	if err != nil {
		return fmt.Errorf("failed to update interaction: %w", err)
	}
	if !changed {
		return domain.ErrAlreadyInteracted
	}
	return nil
}

// GetMatches returns all mutual matches with the other side's profile.
// Records pointing at deleted profiles are skipped.
func (uc *MatchUseCase) GetMatches(ctx context.Context, userID uuid.UUID) ([]*MatchSummary, error) {
	list, err := uc.interactions.ListMatched(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	matches := make([]*MatchSummary, 0, len(list))
	for _, in := range list {
		otherID, ok := in.OtherID(userID)
		if !ok {
			continue
		}
		other, err := uc.profiles.GetByID(ctx, otherID)
		if err != nil {
			continue
		}
		matches = append(matches, &MatchSummary{
			InteractionID: in.ID,
			User:          summarize(other),
			MatchedAt:     in.UpdatedAt,
		})
	}
	return matches, nil
}

// GetPendingLikes returns likes the user received and has not answered.
func (uc *MatchUseCase) GetPendingLikes(ctx context.Context, userID uuid.UUID) ([]*LikeSummary, error) {
	list, err := uc.interactions.ListPendingReceived(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending likes: %w", err)
	}
	return uc.summaries(ctx, list, userID), nil
}

// GetSentLikes returns likes the user sent that await reciprocation.
func (uc *MatchUseCase) GetSentLikes(ctx context.Context, userID uuid.UUID) ([]*LikeSummary, error) {
	list, err := uc.interactions.ListPendingSent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent likes: %w", err)
	}
	return uc.summaries(ctx, list, userID), nil
}

func (uc *MatchUseCase) summaries(ctx context.Context, list []*domain.Interaction, userID uuid.UUID) []*LikeSummary {
	likes := make([]*LikeSummary, 0, len(list))
	for _, in := range list {
		otherID, ok := in.OtherID(userID)
		if !ok {
			continue
		}
		other, err := uc.profiles.GetByID(ctx, otherID)
		if err != nil {
			continue
		}
		likes = append(likes, &LikeSummary{
			InteractionID: in.ID,
			User:          summarize(other),
			LikedAt:       in.CreatedAt,
		})
	}
	return likes
}

func summarize(p *domain.Profile) ProfileSummary {
	return ProfileSummary{
		ID:            p.ID,
		Name:          p.Name,
		Age:           p.CurrentAge(),
		ProfileImages: p.ProfileImages,
		State:         p.State,
		City:          p.City,
	}
}

func (uc *MatchUseCase) notifyLiked(ctx context.Context, actorID, targetID uuid.UUID) {
	actor, err := uc.profiles.GetByID(ctx, actorID)
	if err != nil {
		uc.logger.Warn("skipping like notification", zap.Error(err))
		return
	}
	target, err := uc.profiles.GetByID(ctx, targetID)
	if err != nil {
		uc.logger.Warn("skipping like notification", zap.Error(err))
		return
	}

	uc.publisher.Publish(targetID.String(), "new_like", map[string]interface{}{
		"user_id": actorID.String(),
		"name":    actor.Name,
	})

	if target.FCMToken != nil {
		err := uc.notifier.Notify(ctx, *target.FCMToken,
			"New Like! 💖",
			fmt.Sprintf("%s liked your profile!", actor.Name),
			map[string]string{"type": "like", "userId": actorID.String()},
		)
		if err != nil {
			uc.logger.Warn("like push failed", zap.Error(err))
		}
	}
}

func (uc *MatchUseCase) notifyMatched(ctx context.Context, in *domain.Interaction) {
	sides := [2]uuid.UUID{in.ActorID, in.TargetID}
	for i, userID := range sides {
		other, err := uc.profiles.GetByID(ctx, sides[1-i])
		if err != nil {
			continue
		}
		self, err := uc.profiles.GetByID(ctx, userID)
		if err != nil {
			continue
		}

		uc.publisher.Publish(userID.String(), "new_match", map[string]interface{}{
			"interaction_id": in.ID.String(),
			"user_id":        other.ID.String(),
			"name":           other.Name,
		})

		if self.FCMToken != nil {
			err := uc.notifier.Notify(ctx, *self.FCMToken,
				"It's a Match! 💕",
				fmt.Sprintf("You and %s liked each other", other.Name),
				map[string]string{"type": "match", "matchId": in.ID.String()},
			)
			if err != nil {
				uc.logger.Warn("match push failed", zap.Error(err))
			}
		}
	}
}
