package domain

import "errors"

// Sentinel errors shared across layers. Handlers map them to HTTP statuses:
// not-found -> 404, conflicts -> 409, authorization -> 401, invalid -> 400.
var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrInteractionNotFound = errors.New("interaction not found")
	ErrInteractionExists   = errors.New("interaction already exists")
	ErrAlreadyInteracted   = errors.New("already interacted with this user")
	ErrSelfInteraction     = errors.New("cannot interact with yourself")
	ErrNotInConversation   = errors.New("not a participant of this conversation")
	ErrNoDemoProfiles      = errors.New("no demo profiles available")
	ErrInvalidOTP          = errors.New("invalid otp")
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidInput        = errors.New("invalid input")
)
