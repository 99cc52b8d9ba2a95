package domain

import (
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

const (
	// PlatformMinAge is the youngest age anyone may ask to be matched with.
	PlatformMinAge = 18
	PlatformMaxAge = 100

	DefaultMaxDistanceKm = 100
)

// Preferences describes what the owner of a profile is looking for.
// An empty Genders set accepts everyone.
type Preferences struct {
	MinAge        int      `json:"min_age" validate:"gte=18,lte=100"`
	MaxAge        int      `json:"max_age" validate:"gte=18,lte=100,gtefield=MinAge"`
	MaxDistanceKm int      `json:"max_distance_km" validate:"gte=1,lte=20000"`
	Genders       []Gender `json:"genders" validate:"dive,oneof=male female other"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		MinAge:        PlatformMinAge,
		MaxAge:        PlatformMaxAge,
		MaxDistanceKm: DefaultMaxDistanceKm,
		Genders:       []Gender{},
	}
}

// WithDefaults fills zero-valued fields from DefaultPreferences, the same
// fallback applied to users who never saved preferences.
func (p Preferences) WithDefaults() Preferences {
	def := DefaultPreferences()
	if p.MinAge == 0 {
		p.MinAge = def.MinAge
	}
	if p.MaxAge == 0 {
		p.MaxAge = def.MaxAge
	}
	if p.MaxDistanceKm == 0 {
		p.MaxDistanceKm = def.MaxDistanceKm
	}
	if p.Genders == nil {
		p.Genders = def.Genders
	}
	return p
}

var preferencesValidator = validator.New()

func (p Preferences) Validate() error {
	if err := preferencesValidator.Struct(p); err != nil {
		return Wrap(ErrInvalidPreferences, "validate preferences", err)
	}
	return nil
}

func (p Preferences) AcceptsGender(g Gender) bool {
	return len(p.Genders) == 0 || slices.Contains(p.Genders, g)
}

func (p Preferences) AcceptsAge(age int) bool {
	return age >= p.MinAge && age <= p.MaxAge
}

type UserProfile struct {
	ID          uuid.UUID   `json:"id"`
	FullName    string      `json:"full_name"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Gender      Gender      `json:"gender"`
	Birthdate   time.Time   `json:"birthdate"`
	Bio         string      `json:"bio"`
	AvatarURL   string      `json:"avatar_url"`
	LocationLat *float64    `json:"location_lat"`
	LocationLon *float64    `json:"location_lng"`
	Preferences Preferences `json:"preferences"`
	IsVerified  bool        `json:"is_verified"`
	IsOnline    bool        `json:"is_online"`
	LastActive  *time.Time  `json:"last_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (p *UserProfile) AgeAt(now time.Time) int {
	return CalculateAge(p.Birthdate, now)
}

// Coordinates reports the profile location; ok is false unless both
// latitude and longitude are set.
func (p *UserProfile) Coordinates() (lat, lon float64, ok bool) {
	if p.LocationLat == nil || p.LocationLon == nil {
		return 0, 0, false
	}
	return *p.LocationLat, *p.LocationLon, true
}

// PublicProfile is what another user is allowed to see.
type PublicProfile struct {
	ID          uuid.UUID   `json:"id"`
	FullName    string      `json:"full_name"`
	Username    string      `json:"username"`
	Gender      Gender      `json:"gender"`
	Birthdate   time.Time   `json:"birthdate"`
	Age         int         `json:"age"`
	Bio         string      `json:"bio"`
	AvatarURL   string      `json:"avatar_url"`
	LocationLat *float64    `json:"location_lat"`
	LocationLon *float64    `json:"location_lng"`
	Preferences Preferences `json:"preferences"`
	IsVerified  bool        `json:"is_verified"`
	IsOnline    bool        `json:"is_online"`
	LastActive  *time.Time  `json:"last_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (p *UserProfile) Public(now time.Time) *PublicProfile {
	genders := make([]Gender, len(p.Preferences.Genders))
	copy(genders, p.Preferences.Genders)
	prefs := p.Preferences
	prefs.Genders = genders

	return &PublicProfile{
		ID:          p.ID,
		FullName:    p.FullName,
		Username:    p.Username,
		Gender:      p.Gender,
		Birthdate:   p.Birthdate,
		Age:         p.AgeAt(now),
		Bio:         p.Bio,
		AvatarURL:   p.AvatarURL,
		LocationLat: p.LocationLat,
		LocationLon: p.LocationLon,
		Preferences: prefs,
		IsVerified:  p.IsVerified,
		IsOnline:    p.IsOnline,
		LastActive:  p.LastActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CalculateAge returns whole calendar years between birthdate and now.
// A birthdate in the future yields 0.
func CalculateAge(birthdate, now time.Time) int {
	age := now.Year() - birthdate.Year()
	if now.Month() < birthdate.Month() ||
		(now.Month() == birthdate.Month() && now.Day() < birthdate.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
