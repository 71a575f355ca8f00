package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/repository"
)

const uniqueViolation = "23505"

const profileColumns = `
	id, phone_number, name, gender, age, dob, bio, marital_status,
	hobbies, interests, looking_for, profile_images, state, city,
	pref_gender, pref_age_min, pref_age_max, photos_only, expand_search,
	user_type, is_premium, premium_expires_at, fcm_token,
	created_at, updated_at`

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func scanProfile(row sqlx.ColScanner) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID, &p.PhoneNumber, &p.Name, &p.Gender, &p.Age, &p.DOB, &p.Bio,
		&p.MaritalStatus, pq.Array(&p.Hobbies), pq.Array(&p.Interests),
		pq.Array(&p.LookingFor), pq.Array(&p.ProfileImages), &p.State, &p.City,
		&p.PrefGender, &p.PrefAgeMin, &p.PrefAgeMax, &p.PhotosOnly,
		&p.ExpandSearch, &p.UserType, &p.IsPremium, &p.PremiumExpiresAt,
		&p.FCMToken, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (
			id, phone_number, name, gender, age, dob, bio, marital_status,
			hobbies, interests, looking_for, profile_images, state, city,
			pref_gender, pref_age_min, pref_age_max, photos_only, expand_search,
			user_type, is_premium, premium_expires_at, fcm_token
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		profile.ID, profile.PhoneNumber, profile.Name, profile.Gender,
		profile.Age, profile.DOB, profile.Bio, profile.MaritalStatus,
		pq.Array(profile.Hobbies), pq.Array(profile.Interests),
		pq.Array(profile.LookingFor), pq.Array(profile.ProfileImages),
		profile.State, profile.City, profile.PrefGender, profile.PrefAgeMin,
		profile.PrefAgeMax, profile.PhotosOnly, profile.ExpandSearch,
		profile.UserType, profile.IsPremium, profile.PremiumExpiresAt,
		profile.FCMToken,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := `SELECT` + profileColumns + ` FROM profiles WHERE id = $1`
	profile, err := scanProfile(r.db.QueryRowxContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (r *profileRepository) GetByPhone(ctx context.Context, phoneNumber string) (*domain.Profile, error) {
	query := `SELECT` + profileColumns + ` FROM profiles WHERE phone_number = $1`
	profile, err := scanProfile(r.db.QueryRowxContext(ctx, query, phoneNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET name = $1, gender = $2, age = $3, dob = $4, bio = $5,
		    marital_status = $6, hobbies = $7, interests = $8, looking_for = $9,
		    profile_images = $10, state = $11, city = $12, pref_gender = $13,
		    pref_age_min = $14, pref_age_max = $15, photos_only = $16,
		    expand_search = $17, is_premium = $18, premium_expires_at = $19,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $20
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		profile.Name, profile.Gender, profile.Age, profile.DOB, profile.Bio,
		profile.MaritalStatus, pq.Array(profile.Hobbies),
		pq.Array(profile.Interests), pq.Array(profile.LookingFor),
		pq.Array(profile.ProfileImages), profile.State, profile.City,
		profile.PrefGender, profile.PrefAgeMin, profile.PrefAgeMax,
		profile.PhotosOnly, profile.ExpandSearch, profile.IsPremium,
		profile.PremiumExpiresAt, profile.ID,
	).Scan(&profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProfileNotFound
	}
	return err
}

func (r *profileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) UpdateFCMToken(ctx context.Context, id uuid.UUID, token string) error {
	query := `UPDATE profiles SET fcm_token = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, token, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// Derive from date of birth when present, else use the stored age.
const effectiveAge = "(CASE WHEN dob IS NOT NULL THEN date_part('year', age(dob))::int ELSE age END)"

// buildDiscoverQuery assembles the candidate query. Every filter contributes
// an independent predicate, so a partial age range (only a lower or only an
// upper bound) still narrows instead of producing an empty BETWEEN.
func buildDiscoverQuery(f repository.DiscoveryFilter) (string, []interface{}) {
	query := `SELECT` + profileColumns + ` FROM profiles WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if len(f.ExcludeIDs) > 0 {
		query += fmt.Sprintf(" AND NOT (id = ANY($%d))", argCount)
		args = append(args, pq.Array(f.ExcludeIDs))
		argCount++
	}

	if f.Gender != "" {
		query += fmt.Sprintf(" AND gender = $%d", argCount)
		args = append(args, f.Gender)
		argCount++
	}

	if f.AgeMin > 0 {
		query += fmt.Sprintf(" AND %s >= $%d", effectiveAge, argCount)
		args = append(args, f.AgeMin)
		argCount++
	}

	if f.AgeMax > 0 {
		query += fmt.Sprintf(" AND %s <= $%d", effectiveAge, argCount)
		args = append(args, f.AgeMax)
		argCount++
	}

	if f.PhotosOnly {
		query += " AND cardinality(profile_images) > 0"
	}

	if f.State != "" {
		// Demo profiles always pass the location scope; their displayed
		// location is overridden by the caller.
		query += fmt.Sprintf(" AND ((state = $%d AND city = $%d) OR user_type = '%s')",
			argCount, argCount+1, domain.UserTypeDemo)
		args = append(args, f.State, f.City)
		argCount += 2
	}

	if len(f.Interests) > 0 {
		query += fmt.Sprintf(" AND interests && $%d", argCount)
		args = append(args, pq.Array(f.Interests))
		argCount++
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 500
	}
	query += fmt.Sprintf(" LIMIT $%d", argCount)
	args = append(args, limit)

	return query, args
}

func (r *profileRepository) Discover(ctx context.Context, f repository.DiscoveryFilter) ([]*domain.Profile, error) {
	query, args := buildDiscoverQuery(f)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *profileRepository) RandomDemo(ctx context.Context, gender domain.Gender) (*domain.Profile, error) {
	query := `SELECT` + profileColumns + ` FROM profiles WHERE user_type = $1`
	args := []interface{}{domain.UserTypeDemo}
	if gender != "" {
		query += ` AND gender = $2`
		args = append(args, gender)
	}
	query += ` ORDER BY random() LIMIT 1`

	profile, err := scanProfile(r.db.QueryRowxContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoDemoProfiles
		}
		return nil, err
	}
	return profile, nil
}
