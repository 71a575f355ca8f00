// Package discovery builds the candidate feed: preference filters, exclusion
// of already-interacted profiles, location scope and demo-profile blending.
// It only ever reads; actions on candidates go through the match use case.
package discovery

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/repository"
)

const (
	defaultPageSize = 10
	candidatePool   = 500
)

type DiscoveryUseCase struct {
	profiles     repository.ProfileRepository
	interactions repository.InteractionRepository
	logger       *zap.Logger
}

func NewDiscoveryUseCase(
	profiles repository.ProfileRepository,
	interactions repository.InteractionRepository,
	logger *zap.Logger,
) *DiscoveryUseCase {
	return &DiscoveryUseCase{
		profiles:     profiles,
		interactions: interactions,
		logger:       logger,
	}
}

// Candidate is a feed entry. Demo profiles carry the viewer's own state and
// city and a small random display distance; neither is persisted.
type Candidate struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Gender        domain.Gender `json:"gender"`
	Age           int           `json:"age"`
	Bio           *string       `json:"bio"`
	MaritalStatus *string       `json:"marital_status"`
	Hobbies       []string      `json:"hobbies"`
	Interests     []string      `json:"interests"`
	LookingFor    []string      `json:"looking_for"`
	ProfileImages []string      `json:"profile_images"`
	State         string        `json:"state"`
	City          string        `json:"city"`
	DistanceKm    *float64      `json:"distance_km,omitempty"`
}

// SearchRequest carries explicit search filters. Zero values disable the
// corresponding filter. The location scope is keyed on State: City narrows it
// further and is rejected when supplied on its own.
type SearchRequest struct {
	Gender    string   `json:"gender"`
	AgeMin    int      `json:"age_min"`
	AgeMax    int      `json:"age_max"`
	Interests []string `json:"interests"`
	State     string   `json:"state"`
	City      string   `json:"city"`
	Limit     int      `json:"limit"`
}

// Discover returns a uniformly random sample of the filtered candidate pool.
// The page number is accepted for API compatibility but results are not
// stable across calls: the pool shrinks as the viewer interacts and the
// sample is re-randomized every time.
func (uc *DiscoveryUseCase) Discover(ctx context.Context, viewerID uuid.UUID, page, pageSize int) ([]*Candidate, error) {
	viewer, err := uc.profiles.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	_ = page

	excluded, err := uc.excludedIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	filter := repository.DiscoveryFilter{
		ExcludeIDs: excluded,
		AgeMin:     viewer.PrefAgeMin,
		AgeMax:     viewer.PrefAgeMax,
		PhotosOnly: viewer.PhotosOnly,
		Limit:      candidatePool,
	}
	if viewer.PrefGender != domain.PrefEveryone {
		filter.Gender = domain.Gender(viewer.PrefGender)
	}
	if !viewer.ExpandSearch {
		filter.State = viewer.State
		filter.City = viewer.City
	}

	pool, err := uc.profiles.Discover(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}

	sample := samplePool(pool, pageSize)
	return uc.present(sample, viewer.State, viewer.City), nil
}

// Search filters candidates by explicit attributes. When a location filter is
// supplied, real profiles are restricted to it while demo profiles always
// pass; demo display location becomes the searched one, falling back to the
// viewer's own when the search carried none.
func (uc *DiscoveryUseCase) Search(ctx context.Context, viewerID uuid.UUID, req *SearchRequest) ([]*Candidate, error) {
	if req.City != "" && req.State == "" {
		return nil, fmt.Errorf("%w: city requires a state", domain.ErrInvalidInput)
	}

	viewer, err := uc.profiles.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	excluded, err := uc.excludedIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	filter := repository.DiscoveryFilter{
		ExcludeIDs: excluded,
		AgeMin:     req.AgeMin,
		AgeMax:     req.AgeMax,
		State:      req.State,
		City:       req.City,
		Interests:  req.Interests,
		Limit:      candidatePool,
	}
	if req.Gender != "" && req.Gender != domain.PrefEveryone {
		filter.Gender = domain.Gender(req.Gender)
	}

	pool, err := uc.profiles.Discover(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	displayState, displayCity := req.State, req.City
	if displayState == "" {
		displayState, displayCity = viewer.State, viewer.City
	}

	sample := samplePool(pool, limit)
	return uc.present(sample, displayState, displayCity), nil
}

func (uc *DiscoveryUseCase) excludedIDs(ctx context.Context, viewerID uuid.UUID) ([]uuid.UUID, error) {
	interacted, err := uc.interactions.ListInteractedIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interacted profiles: %w", err)
	}
	return append(interacted, viewerID), nil
}

// samplePool draws a uniform random sample of size n without replacement.
func samplePool(pool []*domain.Profile, n int) []*domain.Profile {
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > n {
		pool = pool[:n]
	}
	return pool
}

func (uc *DiscoveryUseCase) present(pool []*domain.Profile, demoState, demoCity string) []*Candidate {
	out := make([]*Candidate, 0, len(pool))
	for _, p := range pool {
		c := &Candidate{
			ID:            p.ID,
			Name:          p.Name,
			Gender:        p.Gender,
			Age:           p.CurrentAge(),
			Bio:           p.Bio,
			MaritalStatus: p.MaritalStatus,
			Hobbies:       p.Hobbies,
			Interests:     p.Interests,
			LookingFor:    p.LookingFor,
			ProfileImages: p.ProfileImages,
			State:         p.State,
			City:          p.City,
		}
		if p.UserType == domain.UserTypeDemo {
			// Demo profiles have no real location; make them look local
			// with a plausible display distance.
			c.State = demoState
			c.City = demoCity
			d := 2 + rand.Float64()*23
			c.DistanceKm = &d
		}
		out = append(out, c)
	}
	return out
}
