package domain

import (
	"time"

	"github.com/google/uuid"
)

// InteractionStatus is the state of the single record kept per user pair.
//
//	pending  - the actor liked (or messaged) the target, no answer yet
//	matched  - both sides liked each other
//	rejected - one side passed; terminal, no transition leaves it
type InteractionStatus string

const (
	StatusPending  InteractionStatus = "pending"
	StatusMatched  InteractionStatus = "matched"
	StatusRejected InteractionStatus = "rejected"
)

// Interaction is the ledger record between two profiles. ActorID is the user
// who acted first; the pair is unique regardless of direction, enforced by a
// unique index on (LEAST(actor,target), GREATEST(actor,target)). Conversation
// metadata lives on the same record, keyed by the record's own ID.
type Interaction struct {
	ID            uuid.UUID         `json:"id" db:"id"`
	ActorID       uuid.UUID         `json:"actor_id" db:"actor_id"`
	TargetID      uuid.UUID         `json:"target_id" db:"target_id"`
	Status        InteractionStatus `json:"status" db:"status"`
	LastMessage   *string           `json:"last_message" db:"last_message"`
	LastMessageAt *time.Time        `json:"last_message_at" db:"last_message_at"`
	UnreadActor   int               `json:"-" db:"unread_actor"`
	UnreadTarget  int               `json:"-" db:"unread_target"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
}

func (i *Interaction) HasUser(userID uuid.UUID) bool {
	return i.ActorID == userID || i.TargetID == userID
}

// OtherID returns the profile on the other side of the record.
func (i *Interaction) OtherID(userID uuid.UUID) (uuid.UUID, bool) {
	if i.ActorID == userID {
		return i.TargetID, true
	}
	if i.TargetID == userID {
		return i.ActorID, true
	}
	return uuid.Nil, false
}

// UnreadFor returns the unread counter belonging to the given side.
func (i *Interaction) UnreadFor(userID uuid.UUID) int {
	if i.ActorID == userID {
		return i.UnreadActor
	}
	return i.UnreadTarget
}

// LikeOutcome is the result of recording a like.
type LikeOutcome string

const (
	// OutcomeLiked: a one-sided like was recorded, or the like landed on a
	// pair the other side already rejected (accepted silently, nothing forms).
	OutcomeLiked LikeOutcome = "liked"
	// OutcomeMatched: the like completed a mutual match.
	OutcomeMatched LikeOutcome = "matched"
	// OutcomeAlreadyMatched: the pair was matched before this call; no-op.
	OutcomeAlreadyMatched LikeOutcome = "already_matched"
)
