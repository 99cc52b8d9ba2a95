package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const profileColumns = `
	id, full_name, username, email, gender, birthdate, bio, avatar_url,
	location_lat, location_lng,
	pref_min_age, pref_max_age, pref_max_distance_km, pref_genders,
	is_verified, is_online, last_active, created_at, updated_at`

// profileRow mirrors the users table. Preferences are flattened into
// pref_* columns.
type profileRow struct {
	ID                uuid.UUID      `db:"id"`
	FullName          string         `db:"full_name"`
	Username          string         `db:"username"`
	Email             string         `db:"email"`
	Gender            string         `db:"gender"`
	Birthdate         time.Time      `db:"birthdate"`
	Bio               string         `db:"bio"`
	AvatarURL         string         `db:"avatar_url"`
	LocationLat       *float64       `db:"location_lat"`
	LocationLng       *float64       `db:"location_lng"`
	PrefMinAge        int            `db:"pref_min_age"`
	PrefMaxAge        int            `db:"pref_max_age"`
	PrefMaxDistanceKm int            `db:"pref_max_distance_km"`
	PrefGenders       pq.StringArray `db:"pref_genders"`
	IsVerified        bool           `db:"is_verified"`
	IsOnline          bool           `db:"is_online"`
	LastActive        *time.Time     `db:"last_active"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

func (r *profileRow) toDomain() *domain.UserProfile {
	genders := make([]domain.Gender, 0, len(r.PrefGenders))
	for _, g := range r.PrefGenders {
		genders = append(genders, domain.Gender(g))
	}
	return &domain.UserProfile{
		ID:          r.ID,
		FullName:    r.FullName,
		Username:    r.Username,
		Email:       r.Email,
		Gender:      domain.Gender(r.Gender),
		Birthdate:   r.Birthdate,
		Bio:         r.Bio,
		AvatarURL:   r.AvatarURL,
		LocationLat: r.LocationLat,
		LocationLon: r.LocationLng,
		Preferences: domain.Preferences{
			MinAge:        r.PrefMinAge,
			MaxAge:        r.PrefMaxAge,
			MaxDistanceKm: r.PrefMaxDistanceKm,
			Genders:       genders,
		},
		IsVerified: r.IsVerified,
		IsOnline:   r.IsOnline,
		LastActive: r.LastActive,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func genderArray(genders []domain.Gender) pq.StringArray {
	out := make(pq.StringArray, 0, len(genders))
	for _, g := range genders {
		out = append(out, string(g))
	}
	return out
}

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func mapUsernameConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == "users_username_key" {
		return domain.ErrUsernameTaken
	}
	return err
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	var row profileRow
	query := `SELECT` + profileColumns + ` FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *profileRepository) ListExcluding(ctx context.Context, excludeID uuid.UUID, limit int) ([]*domain.UserProfile, error) {
	var rows []profileRow
	query := `SELECT` + profileColumns + `
		FROM users
		WHERE id <> $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	if err := r.db.SelectContext(ctx, &rows, query, excludeID, limit); err != nil {
		return nil, err
	}

	profiles := make([]*domain.UserProfile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, rows[i].toDomain())
	}
	return profiles, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	query := `
		UPDATE users
		SET full_name = $1, username = $2, gender = $3, birthdate = $4,
		    bio = $5, avatar_url = $6, location_lat = $7, location_lng = $8,
		    pref_min_age = $9, pref_max_age = $10, pref_max_distance_km = $11,
		    pref_genders = $12, updated_at = CURRENT_TIMESTAMP
		WHERE id = $13
		RETURNING updated_at
	`
	prefs := profile.Preferences
	err := r.db.QueryRowContext(
		ctx, query,
		profile.FullName, profile.Username, profile.Gender, profile.Birthdate,
		profile.Bio, profile.AvatarURL, profile.LocationLat, profile.LocationLon,
		prefs.MinAge, prefs.MaxAge, prefs.MaxDistanceKm, genderArray(prefs.Genders),
		profile.ID,
	).Scan(&profile.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProfileNotFound
	}
	return mapUsernameConflict(err)
}

// Upsert inserts the profile or overwrites every mutable column of an
// existing row with the same id.
func (r *profileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	query := `
		INSERT INTO users (
			id, full_name, username, email, gender, birthdate, bio, avatar_url,
			location_lat, location_lng,
			pref_min_age, pref_max_age, pref_max_distance_km, pref_genders,
			is_verified, is_online
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			gender = EXCLUDED.gender,
			birthdate = EXCLUDED.birthdate,
			bio = EXCLUDED.bio,
			avatar_url = EXCLUDED.avatar_url,
			location_lat = EXCLUDED.location_lat,
			location_lng = EXCLUDED.location_lng,
			pref_min_age = EXCLUDED.pref_min_age,
			pref_max_age = EXCLUDED.pref_max_age,
			pref_max_distance_km = EXCLUDED.pref_max_distance_km,
			pref_genders = EXCLUDED.pref_genders,
			is_verified = EXCLUDED.is_verified,
			is_online = EXCLUDED.is_online,
			updated_at = CURRENT_TIMESTAMP
		RETURNING created_at, updated_at
	`
	prefs := profile.Preferences
	err := r.db.QueryRowContext(
		ctx, query,
		profile.ID, profile.FullName, profile.Username, profile.Email, profile.Gender,
		profile.Birthdate, profile.Bio, profile.AvatarURL,
		profile.LocationLat, profile.LocationLon,
		prefs.MinAge, prefs.MaxAge, prefs.MaxDistanceKm, genderArray(prefs.Genders),
		profile.IsVerified, profile.IsOnline,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	return mapUsernameConflict(err)
}
