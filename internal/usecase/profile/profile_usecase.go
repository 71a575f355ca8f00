package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/repository"
)

type ProfileUseCase struct {
	profiles repository.ProfileRepository
	logger   *zap.Logger
}

func NewProfileUseCase(profiles repository.ProfileRepository, logger *zap.Logger) *ProfileUseCase {
	return &ProfileUseCase{profiles: profiles, logger: logger}
}

// UpdateRequest carries a partial profile update. Nil fields are left
// untouched; slices replace the stored value wholesale.
type UpdateRequest struct {
	Name             *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Gender           *string  `json:"gender" validate:"omitempty"`
	Age              *int     `json:"age" validate:"omitempty,gte=18,lte=100"`
	DOB              *string  `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Bio              *string  `json:"bio" validate:"omitempty,max=1000"`
	MaritalStatus    *string  `json:"marital_status"`
	Hobbies          []string `json:"hobbies"`
	Interests        []string `json:"interests"`
	LookingFor       []string `json:"looking_for"`
	ProfileImages    []string `json:"profile_images" validate:"omitempty,max=6,dive,url"`
	State            *string  `json:"state"`
	City             *string  `json:"city"`
	PreferredGender  *string  `json:"preferred_gender"`
	PreferredAgeMin  *int     `json:"preferred_age_min" validate:"omitempty,gte=18"`
	PreferredAgeMax  *int     `json:"preferred_age_max" validate:"omitempty,lte=100"`
	ShowOnlyWithPics *bool    `json:"show_only_with_photos"`
	ExpandSearch     *bool    `json:"expand_search"`
}

func (uc *ProfileUseCase) GetMe(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return uc.profiles.GetByID(ctx, userID)
}

func (uc *ProfileUseCase) UpdateMe(ctx context.Context, userID uuid.UUID, req *UpdateRequest) (*domain.Profile, error) {
	p, err := uc.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Gender != nil {
		p.Gender = domain.NormalizeGender(*req.Gender)
	}
	if req.Age != nil {
		p.Age = *req.Age
	}
	if req.DOB != nil {
		dob, err := time.Parse("2006-01-02", *req.DOB)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		p.DOB = &dob
	}
	if req.Bio != nil {
		p.Bio = req.Bio
	}
	if req.MaritalStatus != nil {
		p.MaritalStatus = req.MaritalStatus
	}
	if req.Hobbies != nil {
		p.Hobbies = req.Hobbies
	}
	if req.Interests != nil {
		p.Interests = req.Interests
	}
	if req.LookingFor != nil {
		p.LookingFor = req.LookingFor
	}
	if req.ProfileImages != nil {
		p.ProfileImages = req.ProfileImages
	}
	if req.State != nil {
		p.State = *req.State
	}
	if req.City != nil {
		p.City = *req.City
	}
	if req.PreferredGender != nil {
		p.PrefGender = string(domain.NormalizeGender(*req.PreferredGender))
	}
	if req.PreferredAgeMin != nil {
		p.PrefAgeMin = *req.PreferredAgeMin
	}
	if req.PreferredAgeMax != nil {
		p.PrefAgeMax = *req.PreferredAgeMax
	}
	if p.PrefAgeMin > p.PrefAgeMax {
		return nil, domain.ErrInvalidInput
	}
	if req.ShowOnlyWithPics != nil {
		p.PhotosOnly = *req.ShowOnlyWithPics
	}
	if req.ExpandSearch != nil {
		p.ExpandSearch = *req.ExpandSearch
	}

	if err := uc.profiles.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return p, nil
}

// Delete removes the account. Interaction records referencing the user are
// kept as tombstones and filtered out by readers.
func (uc *ProfileUseCase) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := uc.profiles.Delete(ctx, userID); err != nil {
		return err
	}
	uc.logger.Info("profile deleted", zap.String("user_id", userID.String()))
	return nil
}

// UpgradePremium extends the premium window by the given number of days.
// An active subscription is extended from its current expiry, an expired or
// missing one from now.
func (uc *ProfileUseCase) UpgradePremium(ctx context.Context, userID uuid.UUID, durationDays int) (*domain.Profile, error) {
	if durationDays <= 0 {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	base := time.Now()
	if p.PremiumExpiresAt != nil && p.PremiumExpiresAt.After(base) {
		base = *p.PremiumExpiresAt
	}
	expires := base.AddDate(0, 0, durationDays)
	p.IsPremium = true
	p.PremiumExpiresAt = &expires

	if err := uc.profiles.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to upgrade profile: %w", err)
	}
	return p, nil
}

func (uc *ProfileUseCase) UpdatePushToken(ctx context.Context, userID uuid.UUID, token string) error {
	if token == "" {
		return domain.ErrInvalidInput
	}
	return uc.profiles.UpdateFCMToken(ctx, userID, token)
}
