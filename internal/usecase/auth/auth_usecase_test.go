package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milanapp/milan-backend/internal/config"
	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/repository/memory"
)

type fakeScheduler struct {
	scheduled []uuid.UUID
}

func (s *fakeScheduler) Schedule(_ context.Context, targetID uuid.UUID) error {
	s.scheduled = append(s.scheduled, targetID)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "0123456789abcdef0123456789abcdef",
			ExpiryDays: 30,
		},
		Auth: config.AuthConfig{
			DemoOTP: true,
			OTPTTL:  5 * time.Minute,
		},
	}
}

func newTestSetup(t *testing.T) (*AuthUseCase, *memory.ProfileRepository, *fakeScheduler) {
	t.Helper()
	profiles := memory.NewProfileRepository()
	scheduler := &fakeScheduler{}
	uc := NewAuthUseCase(profiles, nil, scheduler, testConfig(), zap.NewNop())
	return uc, profiles, scheduler
}

func TestVerifyOTP_DemoCode(t *testing.T) {
	uc, profiles, _ := newTestSetup(t)

	// Unknown phone: the code is accepted but registration is required.
	resp, err := uc.VerifyOTP(context.Background(), "+15551230001", demoOTPCode)
	require.NoError(t, err)
	assert.True(t, resp.IsNewUser)
	assert.Empty(t, resp.Token)

	p := &domain.Profile{
		ID:          uuid.New(),
		PhoneNumber: "+15551230002",
		Name:        "Asha",
		Gender:      domain.GenderWomen,
		Age:         26,
		UserType:    domain.UserTypeReal,
	}
	require.NoError(t, profiles.Create(context.Background(), p))

	resp, err = uc.VerifyOTP(context.Background(), "+15551230002", demoOTPCode)
	require.NoError(t, err)
	assert.False(t, resp.IsNewUser)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, p.ID, resp.Profile.ID)
}

func TestVerifyOTP_Validation(t *testing.T) {
	uc, _, _ := newTestSetup(t)

	_, err := uc.VerifyOTP(context.Background(), "", demoOTPCode)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.VerifyOTP(context.Background(), "+15551230001", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_DefaultsAndNormalization(t *testing.T) {
	uc, _, scheduler := newTestSetup(t)

	resp, err := uc.Register(context.Background(), &RegisterRequest{
		PhoneNumber: "+15551230003",
		Name:        "Rohan",
		Gender:      "Male",
		Age:         29,
		State:       "Karnataka",
		City:        "Bengaluru",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsNewUser)
	assert.NotEmpty(t, resp.Token)

	p := resp.Profile
	assert.Equal(t, domain.GenderMen, p.Gender)
	assert.Equal(t, domain.PrefEveryone, p.PrefGender)
	assert.Equal(t, domain.DefaultPrefAgeMin, p.PrefAgeMin)
	assert.Equal(t, domain.DefaultPrefAgeMax, p.PrefAgeMax)
	assert.True(t, p.ExpandSearch)
	assert.Equal(t, domain.UserTypeReal, p.UserType)

	// Demo activity is queued for the new account.
	require.Len(t, scheduler.scheduled, 1)
	assert.Equal(t, p.ID, scheduler.scheduled[0])
}

func TestRegister_ExplicitPreferences(t *testing.T) {
	uc, _, _ := newTestSetup(t)

	ageMin, ageMax := 25, 35
	dob := "1996-02-29"
	resp, err := uc.Register(context.Background(), &RegisterRequest{
		PhoneNumber:     "+15551230004",
		Name:            "Priya",
		Gender:          "Female",
		Age:             29,
		DOB:             &dob,
		State:           "Maharashtra",
		City:            "Mumbai",
		InterestedIn:    string(domain.GenderMen),
		PreferredAgeMin: &ageMin,
		PreferredAgeMax: &ageMax,
	})
	require.NoError(t, err)

	p := resp.Profile
	assert.Equal(t, domain.GenderWomen, p.Gender)
	assert.Equal(t, string(domain.GenderMen), p.PrefGender)
	assert.Equal(t, 25, p.PrefAgeMin)
	assert.Equal(t, 35, p.PrefAgeMax)
	require.NotNil(t, p.DOB)
	assert.Equal(t, 1996, p.DOB.Year())
}

func TestRegister_DuplicatePhone(t *testing.T) {
	uc, _, _ := newTestSetup(t)

	req := &RegisterRequest{
		PhoneNumber: "+15551230005",
		Name:        "Asha",
		Gender:      "Female",
		Age:         26,
		State:       "Delhi",
		City:        "New Delhi",
	}
	_, err := uc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestRegister_BadDOB(t *testing.T) {
	uc, _, _ := newTestSetup(t)

	dob := "29-02-1996"
	_, err := uc.Register(context.Background(), &RegisterRequest{
		PhoneNumber: "+15551230006",
		Name:        "Asha",
		Gender:      "Female",
		Age:         26,
		DOB:         &dob,
		State:       "Delhi",
		City:        "New Delhi",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheckUser(t *testing.T) {
	uc, profiles, _ := newTestSetup(t)

	exists, err := uc.CheckUser(context.Background(), "+15551230007")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, profiles.Create(context.Background(), &domain.Profile{
		ID:          uuid.New(),
		PhoneNumber: "+15551230007",
		Name:        "Asha",
		Gender:      domain.GenderWomen,
		Age:         26,
		UserType:    domain.UserTypeReal,
	}))

	exists, err = uc.CheckUser(context.Background(), "+15551230007")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestToken_RoundTrip(t *testing.T) {
	uc, _, _ := newTestSetup(t)

	id := uuid.New()
	token, expiresAt, err := uc.GenerateToken(id)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now().AddDate(0, 0, 29)))

	got, err := uc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParseToken_Invalid(t *testing.T) {
	uc, _, _ := newTestSetup(t)

	_, err := uc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	// Token signed with a different secret.
	otherCfg := testConfig()
	otherCfg.JWT.Secret = "ffffffffffffffffffffffffffffffff"
	other := NewAuthUseCase(memory.NewProfileRepository(), nil, nil, otherCfg, zap.NewNop())
	token, _, err := other.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = uc.ParseToken(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
