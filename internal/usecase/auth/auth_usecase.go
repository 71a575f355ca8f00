// Package auth implements the phone-OTP login flow and session tokens. The
// core trusts "current user" once a token is presented; OTP dispatch over SMS
// is an external collaborator and is skipped entirely in demo mode.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/milanapp/milan-backend/internal/config"
	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/repository"
)

// demoOTPCode is accepted for any phone number when demo mode is on.
const demoOTPCode = "123456"

const otpKeyPrefix = "otp:"

// ActivityScheduler queues demo activity for a freshly registered profile.
type ActivityScheduler interface {
	Schedule(ctx context.Context, targetID uuid.UUID) error
}

type AuthUseCase struct {
	profiles  repository.ProfileRepository
	redis     *redis.Client
	scheduler ActivityScheduler
	cfg       *config.Config
	logger    *zap.Logger
}

func NewAuthUseCase(
	profiles repository.ProfileRepository,
	redisClient *redis.Client,
	scheduler ActivityScheduler,
	cfg *config.Config,
	logger *zap.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		profiles:  profiles,
		redis:     redisClient,
		scheduler: scheduler,
		cfg:       cfg,
		logger:    logger,
	}
}

// RegisterRequest carries the registration payload. Age range bounds are
// optional; when omitted the 18-99 defaults apply.
type RegisterRequest struct {
	PhoneNumber     string   `json:"phone_number" validate:"required"`
	Name            string   `json:"name" validate:"required"`
	Gender          string   `json:"gender" validate:"required"`
	Age             int      `json:"age" validate:"required,gte=18"`
	DOB             *string  `json:"dob"`
	Bio             *string  `json:"bio"`
	MaritalStatus   *string  `json:"marital_status"`
	Hobbies         []string `json:"hobbies"`
	Interests       []string `json:"interests"`
	LookingFor      []string `json:"looking_for"`
	ProfileImages   []string `json:"profile_images"`
	State           string   `json:"state" validate:"required"`
	City            string   `json:"city" validate:"required"`
	InterestedIn    string   `json:"interested_in"`
	PreferredAgeMin *int     `json:"preferred_age_min"`
	PreferredAgeMax *int     `json:"preferred_age_max"`
}

type AuthResponse struct {
	Token     string          `json:"token,omitempty"`
	ExpiresAt time.Time       `json:"expires_at,omitempty"`
	Profile   *domain.Profile `json:"profile,omitempty"`
	IsNewUser bool            `json:"is_new_user"`
}

// RequestOTP issues a one-time code for the phone number and stores its hash
// with a TTL. In demo mode no SMS is dispatched; the fixed demo code works.
func (uc *AuthUseCase) RequestOTP(ctx context.Context, phoneNumber string) error {
	if phoneNumber == "" {
		return domain.ErrInvalidInput
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash otp: %w", err)
	}

	if err := uc.redis.Set(ctx, otpKeyPrefix+phoneNumber, hash, uc.cfg.Auth.OTPTTL).Err(); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if uc.cfg.Auth.DemoOTP {
		uc.logger.Debug("demo mode, otp not dispatched", zap.String("phone", phoneNumber))
		return nil
	}

	// SMS dispatch is an external collaborator; the code is handed off here.
	uc.logger.Info("otp issued", zap.String("phone", phoneNumber))
	return nil
}

// VerifyOTP checks the code and returns a session token when a profile
// already exists for the phone number; otherwise flags a new user so the
// client proceeds to registration.
func (uc *AuthUseCase) VerifyOTP(ctx context.Context, phoneNumber, code string) (*AuthResponse, error) {
	if phoneNumber == "" || code == "" {
		return nil, domain.ErrInvalidInput
	}

	if !uc.cfg.Auth.DemoOTP || code != demoOTPCode {
		hash, err := uc.redis.Get(ctx, otpKeyPrefix+phoneNumber).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil, domain.ErrInvalidOTP
			}
			return nil, fmt.Errorf("failed to load otp: %w", err)
		}
		if bcrypt.CompareHashAndPassword(hash, []byte(code)) != nil {
			return nil, domain.ErrInvalidOTP
		}
		uc.redis.Del(ctx, otpKeyPrefix+phoneNumber)
	}

	profile, err := uc.profiles.GetByPhone(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return &AuthResponse{IsNewUser: true}, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	token, expiresAt, err := uc.GenerateToken(profile.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, ExpiresAt: expiresAt, Profile: profile}, nil
}

// Register creates a new profile and schedules demo activity for it.
func (uc *AuthUseCase) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	profile := &domain.Profile{
		ID:            uuid.New(),
		PhoneNumber:   req.PhoneNumber,
		Name:          req.Name,
		Gender:        domain.NormalizeGender(req.Gender),
		Age:           req.Age,
		Bio:           req.Bio,
		MaritalStatus: req.MaritalStatus,
		Hobbies:       req.Hobbies,
		Interests:     req.Interests,
		LookingFor:    req.LookingFor,
		ProfileImages: req.ProfileImages,
		State:         req.State,
		City:          req.City,
		PrefGender:    domain.PrefEveryone,
		PrefAgeMin:    domain.DefaultPrefAgeMin,
		PrefAgeMax:    domain.DefaultPrefAgeMax,
		ExpandSearch:  true,
		UserType:      domain.UserTypeReal,
	}

	if req.InterestedIn != "" {
		profile.PrefGender = req.InterestedIn
	}
	if req.PreferredAgeMin != nil {
		profile.PrefAgeMin = *req.PreferredAgeMin
	}
	if req.PreferredAgeMax != nil {
		profile.PrefAgeMax = *req.PreferredAgeMax
	}
	if req.DOB != nil {
		dob, err := time.Parse("2006-01-02", *req.DOB)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		profile.DOB = &dob
	}

	if err := uc.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	if uc.scheduler != nil {
		if err := uc.scheduler.Schedule(ctx, profile.ID); err != nil {
			uc.logger.Error("failed to schedule demo activity",
				zap.String("profile_id", profile.ID.String()),
				zap.Error(err),
			)
		}
	}

	token, expiresAt, err := uc.GenerateToken(profile.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, ExpiresAt: expiresAt, Profile: profile, IsNewUser: true}, nil
}

// CheckUser reports whether a profile exists for the phone number.
func (uc *AuthUseCase) CheckUser(ctx context.Context, phoneNumber string) (bool, error) {
	_, err := uc.profiles.GetByPhone(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GenerateToken issues an HS256 session token for the profile.
func (uc *AuthUseCase) GenerateToken(profileID uuid.UUID) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(uc.cfg.JWT.ExpiryDays) * 24 * time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   profileID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.cfg.JWT.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// ParseToken validates a session token and returns the profile id.
func (uc *AuthUseCase) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(uc.cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, domain.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidToken
	}
	return id, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
