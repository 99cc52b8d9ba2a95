package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/repository"
	"github.com/gdugdh24/heartmatch-backend/internal/usecase/candidate"
	"github.com/gdugdh24/heartmatch-backend/pkg/geo"
	"github.com/google/uuid"
)

const birthdateLayout = "2006-01-02"

type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	now         func() time.Time
}

func NewProfileUseCase(profileRepo repository.ProfileRepository) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// CreateProfileRequest represents profile creation request (onboarding)
type CreateProfileRequest struct {
	FullName    string              `json:"full_name" binding:"required,min=2,max=100"`
	Username    string              `json:"username" binding:"required,min=3,max=30"`
	Email       string              `json:"email" binding:"omitempty,email"`
	Gender      domain.Gender       `json:"gender" binding:"required,oneof=male female other"`
	Birthdate   string              `json:"birthdate" binding:"required,datetime=2006-01-02"`
	Bio         string              `json:"bio" binding:"omitempty,max=500"`
	AvatarURL   string              `json:"avatar_url" binding:"omitempty,url"`
	LocationLat *float64            `json:"location_lat" binding:"omitempty,min=-90,max=90"`
	LocationLon *float64            `json:"location_lng" binding:"omitempty,min=-180,max=180"`
	Preferences *domain.Preferences `json:"preferences"`
}

// UpdateProfileRequest represents profile update request. Nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	FullName    *string             `json:"full_name" binding:"omitempty,min=2,max=100"`
	Username    *string             `json:"username" binding:"omitempty,min=3,max=30"`
	Gender      *domain.Gender      `json:"gender" binding:"omitempty,oneof=male female other"`
	Birthdate   *string             `json:"birthdate" binding:"omitempty,datetime=2006-01-02"`
	Bio         *string             `json:"bio" binding:"omitempty,max=500"`
	AvatarURL   *string             `json:"avatar_url" binding:"omitempty,max=2048"`
	LocationLat *float64            `json:"location_lat" binding:"omitempty,min=-90,max=90"`
	LocationLon *float64            `json:"location_lng" binding:"omitempty,min=-180,max=180"`
	Preferences *domain.Preferences `json:"preferences"`
}

// GetMyProfile returns the owner's full profile, email included.
func (uc *ProfileUseCase) GetMyProfile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrNotAuthenticated
	}
	return uc.load(ctx, userID)
}

// GetProfile returns another user's public profile, with the distance from
// the viewer when both locations are known.
func (uc *ProfileUseCase) GetProfile(ctx context.Context, viewerID, targetID uuid.UUID) (*candidate.CandidateProfile, error) {
	if viewerID == uuid.Nil {
		return nil, domain.ErrNotAuthenticated
	}
	target, err := uc.load(ctx, targetID)
	if err != nil {
		return nil, err
	}

	view := &candidate.CandidateProfile{PublicProfile: *target.Public(uc.now())}
	if viewerID == targetID {
		return view, nil
	}

	viewer, err := uc.load(ctx, viewerID)
	if err != nil {
		// A viewer without a profile still sees the target, without distance.
		if errors.Is(err, domain.ErrProfileNotFound) {
			return view, nil
		}
		return nil, err
	}
	if lat1, lon1, ok := viewer.Coordinates(); ok {
		if lat2, lon2, ok := target.Coordinates(); ok {
			d := geo.DistanceKm(lat1, lon1, lat2, lon2)
			view.DistanceKm = &d
		}
	}
	return view, nil
}

// CreateProfile creates the caller's profile (onboarding)
func (uc *ProfileUseCase) CreateProfile(ctx context.Context, userID uuid.UUID, req *CreateProfileRequest) (*domain.UserProfile, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrNotAuthenticated
	}

	// Check if profile already exists
	if _, err := uc.profileRepo.GetByID(ctx, userID); err == nil {
		return nil, domain.ErrProfileAlreadyExists
	} else if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, domain.Wrap(domain.ErrDataStore, "check existing profile", err)
	}

	birthdate, err := uc.parseBirthdate(req.Birthdate)
	if err != nil {
		return nil, err
	}

	prefs := domain.DefaultPreferences()
	if req.Preferences != nil {
		prefs = req.Preferences.WithDefaults()
	}

	profile := &domain.UserProfile{
		ID:          userID,
		FullName:    req.FullName,
		Username:    req.Username,
		Email:       req.Email,
		Gender:      req.Gender,
		Birthdate:   birthdate,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		LocationLat: req.LocationLat,
		LocationLon: req.LocationLon,
		Preferences: prefs,
	}
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	if err := uc.profileRepo.Upsert(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, err
		}
		return nil, domain.Wrap(domain.ErrDataStore, "create profile", err)
	}
	return profile, nil
}

// UpdateProfile applies the non-nil fields of req to the caller's profile.
func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*domain.UserProfile, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrNotAuthenticated
	}
	profile, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Update fields if provided
	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.Username != nil {
		profile.Username = *req.Username
	}
	if req.Gender != nil {
		profile.Gender = *req.Gender
	}
	if req.Birthdate != nil {
		birthdate, err := uc.parseBirthdate(*req.Birthdate)
		if err != nil {
			return nil, err
		}
		profile.Birthdate = birthdate
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if req.LocationLat != nil {
		profile.LocationLat = req.LocationLat
	}
	if req.LocationLon != nil {
		profile.LocationLon = req.LocationLon
	}
	if req.Preferences != nil {
		profile.Preferences = *req.Preferences
		if profile.Preferences.Genders == nil {
			profile.Preferences.Genders = []domain.Gender{}
		}
	}

	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) || errors.Is(err, domain.ErrUsernameTaken) {
			return nil, err
		}
		return nil, domain.Wrap(domain.ErrDataStore, "update profile", err)
	}
	return profile, nil
}

func (uc *ProfileUseCase) load(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	p, err := uc.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		return nil, domain.Wrap(domain.ErrDataStore, "load profile", err)
	}
	return p, nil
}

func (uc *ProfileUseCase) parseBirthdate(s string) (time.Time, error) {
	birthdate, err := time.Parse(birthdateLayout, s)
	if err != nil {
		return time.Time{}, domain.Wrap(domain.ErrInvalidInput, "parse birthdate", err)
	}
	if age := domain.CalculateAge(birthdate, uc.now()); age < domain.PlatformMinAge {
		return time.Time{}, domain.Wrap(domain.ErrInvalidInput, "check birthdate",
			fmt.Errorf("must be at least %d years old, got %d", domain.PlatformMinAge, age))
	}
	return birthdate, nil
}

func validateProfile(p *domain.UserProfile) error {
	if !p.Gender.Valid() {
		return domain.Wrap(domain.ErrInvalidInput, "validate profile", fmt.Errorf("unknown gender %q", p.Gender))
	}
	if (p.LocationLat == nil) != (p.LocationLon == nil) {
		return domain.Wrap(domain.ErrInvalidInput, "validate profile",
			errors.New("location_lat and location_lng must be set together"))
	}
	return p.Preferences.Validate()
}
