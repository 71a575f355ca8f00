package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message belongs to exactly one interaction record and is immutable once
// created. Ordering within a conversation is by CreatedAt ascending.
type Message struct {
	ID            uuid.UUID `json:"id" db:"id"`
	InteractionID uuid.UUID `json:"interaction_id" db:"interaction_id"`
	SenderID      uuid.UUID `json:"sender_id" db:"sender_id"`
	Text          string    `json:"text" db:"text"`
	Read          bool      `json:"read" db:"read"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
