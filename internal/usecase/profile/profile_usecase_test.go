package profile

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/repository/memory"
)

func newTestSetup(t *testing.T) (*ProfileUseCase, *memory.ProfileRepository, uuid.UUID) {
	t.Helper()
	profiles := memory.NewProfileRepository()
	uc := NewProfileUseCase(profiles, zap.NewNop())

	p := &domain.Profile{
		ID:          uuid.New(),
		PhoneNumber: "+15551234567",
		Name:        "Asha",
		Gender:      domain.GenderWomen,
		Age:         26,
		State:       "Karnataka",
		City:        "Bengaluru",
		PrefGender:  domain.PrefEveryone,
		PrefAgeMin:  domain.DefaultPrefAgeMin,
		PrefAgeMax:  domain.DefaultPrefAgeMax,
		UserType:    domain.UserTypeReal,
	}
	require.NoError(t, profiles.Create(context.Background(), p))
	return uc, profiles, p.ID
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }

func TestUpdateMe_PartialUpdate(t *testing.T) {
	uc, _, id := newTestSetup(t)

	updated, err := uc.UpdateMe(context.Background(), id, &UpdateRequest{
		Bio:             strPtr("sunsets and filter coffee"),
		PreferredGender: strPtr("Male"),
		PreferredAgeMin: intPtr(24),
		PreferredAgeMax: intPtr(32),
		ExpandSearch:    boolPtr(false),
	})
	require.NoError(t, err)

	// Untouched fields keep their values.
	assert.Equal(t, "Asha", updated.Name)
	assert.Equal(t, "Bengaluru", updated.City)

	require.NotNil(t, updated.Bio)
	assert.Equal(t, "sunsets and filter coffee", *updated.Bio)
	// Legacy client value is normalized.
	assert.Equal(t, string(domain.GenderMen), updated.PrefGender)
	assert.Equal(t, 24, updated.PrefAgeMin)
	assert.Equal(t, 32, updated.PrefAgeMax)
	assert.False(t, updated.ExpandSearch)

	// The change is persisted, not just echoed.
	got, err := uc.GetMe(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 24, got.PrefAgeMin)
}

func TestUpdateMe_InvalidAgeRange(t *testing.T) {
	uc, _, id := newTestSetup(t)

	_, err := uc.UpdateMe(context.Background(), id, &UpdateRequest{
		PreferredAgeMin: intPtr(40),
		PreferredAgeMax: intPtr(25),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateMe_DOB(t *testing.T) {
	uc, _, id := newTestSetup(t)

	updated, err := uc.UpdateMe(context.Background(), id, &UpdateRequest{
		DOB: strPtr("1998-06-15"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.DOB)
	assert.Equal(t, 1998, updated.DOB.Year())

	_, err = uc.UpdateMe(context.Background(), id, &UpdateRequest{
		DOB: strPtr("15/06/1998"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpgradePremium_FreshSubscription(t *testing.T) {
	uc, _, id := newTestSetup(t)

	updated, err := uc.UpgradePremium(context.Background(), id, 30)
	require.NoError(t, err)
	assert.True(t, updated.IsPremium)
	require.NotNil(t, updated.PremiumExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *updated.PremiumExpiresAt, time.Minute)
}

func TestUpgradePremium_ExtendsActiveSubscription(t *testing.T) {
	uc, _, id := newTestSetup(t)

	_, err := uc.UpgradePremium(context.Background(), id, 30)
	require.NoError(t, err)

	updated, err := uc.UpgradePremium(context.Background(), id, 30)
	require.NoError(t, err)
	require.NotNil(t, updated.PremiumExpiresAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 60), *updated.PremiumExpiresAt, time.Minute)

	_, err = uc.UpgradePremium(context.Background(), id, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete(t *testing.T) {
	uc, _, id := newTestSetup(t)

	require.NoError(t, uc.Delete(context.Background(), id))
	_, err := uc.GetMe(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	assert.ErrorIs(t, uc.Delete(context.Background(), id), domain.ErrProfileNotFound)
}

func TestUpdatePushToken(t *testing.T) {
	uc, profiles, id := newTestSetup(t)

	require.NoError(t, uc.UpdatePushToken(context.Background(), id, "device-token"))

	got, err := profiles.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, got.FCMToken)
	assert.Equal(t, "device-token", *got.FCMToken)

	assert.ErrorIs(t, uc.UpdatePushToken(context.Background(), id, ""), domain.ErrInvalidInput)
}
