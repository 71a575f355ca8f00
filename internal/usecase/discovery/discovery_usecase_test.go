package discovery

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/repository/memory"
)

func newTestSetup(t *testing.T) (*DiscoveryUseCase, *memory.ProfileRepository, *memory.InteractionRepository) {
	t.Helper()
	profiles := memory.NewProfileRepository()
	interactions := memory.NewInteractionRepository()
	uc := NewDiscoveryUseCase(profiles, interactions, zap.NewNop())
	return uc, profiles, interactions
}

type profileOpts struct {
	gender   domain.Gender
	age      int
	state    string
	city     string
	userType domain.UserType
	images   []string
}

func addProfile(t *testing.T, profiles *memory.ProfileRepository, name string, opts profileOpts) uuid.UUID {
	t.Helper()
	if opts.userType == "" {
		opts.userType = domain.UserTypeReal
	}
	p := &domain.Profile{
		ID:            uuid.New(),
		PhoneNumber:   "+1555" + name,
		Name:          name,
		Gender:        opts.gender,
		Age:           opts.age,
		State:         opts.state,
		City:          opts.city,
		ProfileImages: opts.images,
		PrefGender:    domain.PrefEveryone,
		PrefAgeMin:    domain.DefaultPrefAgeMin,
		PrefAgeMax:    domain.DefaultPrefAgeMax,
		ExpandSearch:  true,
		UserType:      opts.userType,
	}
	require.NoError(t, profiles.Create(context.Background(), p))
	return p.ID
}

func ids(candidates []*Candidate) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.ID)
	}
	return out
}

func TestDiscover_ExcludesSelfAndInteracted(t *testing.T) {
	uc, profiles, interactions := newTestSetup(t)
	viewer := addProfile(t, profiles, "viewer", profileOpts{gender: domain.GenderMen, age: 28})
	liked := addProfile(t, profiles, "liked", profileOpts{gender: domain.GenderWomen, age: 25})
	fresh := addProfile(t, profiles, "fresh", profileOpts{gender: domain.GenderWomen, age: 24})

	require.NoError(t, interactions.Create(context.Background(), &domain.Interaction{
		ID:       uuid.New(),
		ActorID:  viewer,
		TargetID: liked,
		Status:   domain.StatusPending,
	}))

	candidates, err := uc.Discover(context.Background(), viewer, 1, 10)
	require.NoError(t, err)
	got := ids(candidates)
	assert.Contains(t, got, fresh)
	assert.NotContains(t, got, viewer)
	assert.NotContains(t, got, liked)
}

func TestDiscover_PendingLikeReceivedStaysVisible(t *testing.T) {
	uc, profiles, interactions := newTestSetup(t)
	viewer := addProfile(t, profiles, "viewer", profileOpts{gender: domain.GenderMen, age: 28})
	admirer := addProfile(t, profiles, "admirer", profileOpts{gender: domain.GenderWomen, age: 25})

	// Admirer liked the viewer; the viewer has not answered.
	require.NoError(t, interactions.Create(context.Background(), &domain.Interaction{
		ID:       uuid.New(),
		ActorID:  admirer,
		TargetID: viewer,
		Status:   domain.StatusPending,
	}))

	candidates, err := uc.Discover(context.Background(), viewer, 1, 10)
	require.NoError(t, err)
	assert.Contains(t, ids(candidates), admirer)
}

func TestDiscover_AppliesViewerPreferences(t *testing.T) {
	uc, profiles, _ := newTestSetup(t)

	viewerID := uuid.New()
	viewer := &domain.Profile{
		ID:           viewerID,
		PhoneNumber:  "+1555viewer",
		Name:         "viewer",
		Gender:       domain.GenderMen,
		Age:          30,
		State:        "Karnataka",
		City:         "Bengaluru",
		PrefGender:   string(domain.GenderWomen),
		PrefAgeMin:   21,
		PrefAgeMax:   27,
		PhotosOnly:   true,
		ExpandSearch: false,
		UserType:     domain.UserTypeReal,
	}
	require.NoError(t, profiles.Create(context.Background(), viewer))

	img := []string{"https://example.com/a.jpg"}
	match := addProfile(t, profiles, "match", profileOpts{
		gender: domain.GenderWomen, age: 24, state: "Karnataka", city: "Bengaluru", images: img,
	})
	tooOld := addProfile(t, profiles, "tooOld", profileOpts{
		gender: domain.GenderWomen, age: 35, state: "Karnataka", city: "Bengaluru", images: img,
	})
	wrongGender := addProfile(t, profiles, "wrongGender", profileOpts{
		gender: domain.GenderMen, age: 24, state: "Karnataka", city: "Bengaluru", images: img,
	})
	noPhotos := addProfile(t, profiles, "noPhotos", profileOpts{
		gender: domain.GenderWomen, age: 24, state: "Karnataka", city: "Bengaluru",
	})
	elsewhere := addProfile(t, profiles, "elsewhere", profileOpts{
		gender: domain.GenderWomen, age: 24, state: "Maharashtra", city: "Mumbai", images: img,
	})
	demoElsewhere := addProfile(t, profiles, "demoElsewhere", profileOpts{
		gender: domain.GenderWomen, age: 24, state: "Delhi", city: "New Delhi",
		userType: domain.UserTypeDemo, images: img,
	})

	candidates, err := uc.Discover(context.Background(), viewerID, 1, 10)
	require.NoError(t, err)
	got := ids(candidates)
	assert.Contains(t, got, match)
	assert.NotContains(t, got, tooOld)
	assert.NotContains(t, got, wrongGender)
	assert.NotContains(t, got, noPhotos)
	assert.NotContains(t, got, elsewhere)
	// Demo profiles always pass the location scope.
	assert.Contains(t, got, demoElsewhere)
}

func TestDiscover_DemoDisplayLocation(t *testing.T) {
	uc, profiles, _ := newTestSetup(t)
	viewer := addProfile(t, profiles, "viewer", profileOpts{
		gender: domain.GenderMen, age: 28, state: "Maharashtra", city: "Pune",
	})
	addProfile(t, profiles, "demo", profileOpts{
		gender: domain.GenderWomen, age: 24, state: "Delhi", city: "New Delhi",
		userType: domain.UserTypeDemo,
	})

	candidates, err := uc.Discover(context.Background(), viewer, 1, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	demo := candidates[0]
	assert.Equal(t, "Maharashtra", demo.State)
	assert.Equal(t, "Pune", demo.City)
	require.NotNil(t, demo.DistanceKm)
	assert.GreaterOrEqual(t, *demo.DistanceKm, 2.0)
	assert.LessOrEqual(t, *demo.DistanceKm, 25.0)
}

func TestDiscover_SampleSize(t *testing.T) {
	uc, profiles, _ := newTestSetup(t)
	viewer := addProfile(t, profiles, "viewer", profileOpts{gender: domain.GenderMen, age: 28})
	for i := 0; i < 30; i++ {
		addProfile(t, profiles, fmt.Sprintf("candidate%d", i), profileOpts{
			gender: domain.GenderWomen, age: 20 + i%10,
		})
	}

	candidates, err := uc.Discover(context.Background(), viewer, 1, 10)
	require.NoError(t, err)
	assert.Len(t, candidates, 10)

	// Default page size applies when none is given.
	candidates, err = uc.Discover(context.Background(), viewer, 1, 0)
	require.NoError(t, err)
	assert.Len(t, candidates, 10)
}

func TestSearch_DemoLocationFollowsSearchedLocation(t *testing.T) {
	uc, profiles, _ := newTestSetup(t)
	viewer := addProfile(t, profiles, "viewer", profileOpts{
		gender: domain.GenderMen, age: 28, state: "Maharashtra", city: "Pune",
	})
	addProfile(t, profiles, "demo", profileOpts{
		gender: domain.GenderWomen, age: 24, state: "Delhi", city: "New Delhi",
		userType: domain.UserTypeDemo,
	})

	candidates, err := uc.Search(context.Background(), viewer, &SearchRequest{
		State: "Karnataka",
		City:  "Bengaluru",
	})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Karnataka", candidates[0].State)
	assert.Equal(t, "Bengaluru", candidates[0].City)

	// Without a searched location the viewer's own is displayed.
	candidates, err = uc.Search(context.Background(), viewer, &SearchRequest{})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Maharashtra", candidates[0].State)
	assert.Equal(t, "Pune", candidates[0].City)
}

func TestSearch_PartialAgeRange(t *testing.T) {
	uc, profiles, _ := newTestSetup(t)
	viewer := addProfile(t, profiles, "viewer", profileOpts{gender: domain.GenderMen, age: 28})
	younger := addProfile(t, profiles, "younger", profileOpts{gender: domain.GenderWomen, age: 24})
	older := addProfile(t, profiles, "older", profileOpts{gender: domain.GenderWomen, age: 40})

	// Only a lower bound: everyone at or above it qualifies.
	candidates, err := uc.Search(context.Background(), viewer, &SearchRequest{AgeMin: 30})
	require.NoError(t, err)
	got := ids(candidates)
	assert.Contains(t, got, older)
	assert.NotContains(t, got, younger)

	// Only an upper bound.
	candidates, err = uc.Search(context.Background(), viewer, &SearchRequest{AgeMax: 30})
	require.NoError(t, err)
	got = ids(candidates)
	assert.Contains(t, got, younger)
	assert.NotContains(t, got, older)
}

func TestSearch_CityWithoutState(t *testing.T) {
	uc, profiles, _ := newTestSetup(t)
	viewer := addProfile(t, profiles, "viewer", profileOpts{gender: domain.GenderMen, age: 28})

	_, err := uc.Search(context.Background(), viewer, &SearchRequest{City: "Pune"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearch_Filters(t *testing.T) {
	uc, profiles, _ := newTestSetup(t)
	viewer := addProfile(t, profiles, "viewer", profileOpts{gender: domain.GenderMen, age: 28})

	hiker := &domain.Profile{
		ID:          uuid.New(),
		PhoneNumber: "+1555hiker",
		Name:        "hiker",
		Gender:      domain.GenderWomen,
		Age:         25,
		Interests:   []string{"Hiking", "Coffee"},
		UserType:    domain.UserTypeReal,
	}
	require.NoError(t, profiles.Create(context.Background(), hiker))

	gamer := &domain.Profile{
		ID:          uuid.New(),
		PhoneNumber: "+1555gamer",
		Name:        "gamer",
		Gender:      domain.GenderWomen,
		Age:         25,
		Interests:   []string{"Gaming"},
		UserType:    domain.UserTypeReal,
	}
	require.NoError(t, profiles.Create(context.Background(), gamer))

	candidates, err := uc.Search(context.Background(), viewer, &SearchRequest{
		Gender:    string(domain.GenderWomen),
		AgeMin:    20,
		AgeMax:    30,
		Interests: []string{"Hiking"},
	})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, hiker.ID, candidates[0].ID)
}
