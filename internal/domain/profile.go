package domain

import (
	"time"

	"github.com/google/uuid"
)

// Gender values are normalized at registration (Male -> Men, Female -> Women).
type Gender string

const (
	GenderMen   Gender = "Men"
	GenderWomen Gender = "Women"
	GenderOther Gender = "Other"
)

// PrefEveryone is the preference value that disables the gender filter.
const PrefEveryone = "Everyone"

// UserType separates real accounts from demo accounts. Demo accounts are
// seeded, never registered, and exist only to populate discovery and chat.
type UserType string

const (
	UserTypeReal UserType = "real"
	UserTypeDemo UserType = "demo"
)

const (
	DefaultPrefAgeMin = 18
	DefaultPrefAgeMax = 99
)

type Profile struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	PhoneNumber      string     `json:"phone_number" db:"phone_number"`
	Name             string     `json:"name" db:"name"`
	Gender           Gender     `json:"gender" db:"gender"`
	Age              int        `json:"age" db:"age"`
	DOB              *time.Time `json:"dob,omitempty" db:"dob"`
	Bio              *string    `json:"bio" db:"bio"`
	MaritalStatus    *string    `json:"marital_status" db:"marital_status"`
	Hobbies          []string   `json:"hobbies" db:"hobbies"`
	Interests        []string   `json:"interests" db:"interests"`
	LookingFor       []string   `json:"looking_for" db:"looking_for"`
	ProfileImages    []string   `json:"profile_images" db:"profile_images"`
	State            string     `json:"state" db:"state"`
	City             string     `json:"city" db:"city"`
	PrefGender       string     `json:"pref_gender" db:"pref_gender"`
	PrefAgeMin       int        `json:"pref_age_min" db:"pref_age_min"`
	PrefAgeMax       int        `json:"pref_age_max" db:"pref_age_max"`
	PhotosOnly       bool       `json:"photos_only" db:"photos_only"`
	ExpandSearch     bool       `json:"expand_search" db:"expand_search"`
	UserType         UserType   `json:"user_type" db:"user_type"`
	IsPremium        bool       `json:"is_premium" db:"is_premium"`
	PremiumExpiresAt *time.Time `json:"premium_expires_at" db:"premium_expires_at"`
	FCMToken         *string    `json:"-" db:"fcm_token"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// CurrentAge derives age from date of birth when available, else returns the
// stored age.
func (p *Profile) CurrentAge() int {
	if p.DOB == nil {
		return p.Age
	}
	now := time.Now()
	age := now.Year() - p.DOB.Year()
	if now.YearDay() < p.DOB.YearDay() {
		age--
	}
	return age
}

// HasPhotos reports whether the profile carries at least one image URL.
func (p *Profile) HasPhotos() bool {
	return len(p.ProfileImages) > 0
}

// NormalizeGender maps legacy client values to the canonical enum.
func NormalizeGender(g string) Gender {
	switch g {
	case "Male":
		return GenderMen
	case "Female":
		return GenderWomen
	case string(GenderMen), string(GenderWomen):
		return Gender(g)
	default:
		return GenderOther
	}
}

// OppositeGender returns the gender a demo account prefers when reaching out
// to a freshly registered user. Second return is false when no preference can
// be determined.
func OppositeGender(g Gender) (Gender, bool) {
	switch g {
	case GenderMen:
		return GenderWomen, true
	case GenderWomen:
		return GenderMen, true
	default:
		return "", false
	}
}
