package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/milanapp/milan-backend/internal/domain"
)

// DiscoveryFilter narrows the candidate pool before random sampling. Zero
// values disable the corresponding filter.
type DiscoveryFilter struct {
	ExcludeIDs []uuid.UUID
	Gender     domain.Gender // empty: no gender restriction
	AgeMin     int
	AgeMax     int
	PhotosOnly bool
	// State/City scope the candidates to one location; demo profiles always
	// pass the scope because their displayed location is overridden later.
	// Empty State disables the scope entirely.
	State     string
	City      string
	Interests []string // non-empty: require overlap
	Limit     int
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateFCMToken(ctx context.Context, id uuid.UUID, token string) error
	// Discover returns the filtered candidate pool, unordered.
	Discover(ctx context.Context, f DiscoveryFilter) ([]*domain.Profile, error)
	// RandomDemo picks one demo profile uniformly at random, restricted to
	// the given gender when non-empty.
	RandomDemo(ctx context.Context, gender domain.Gender) (*domain.Profile, error)
}
