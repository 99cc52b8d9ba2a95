// Package seed loads demo profiles for local development.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Demo profiles are placed inside this box (San Francisco).
const (
	minLat, maxLat = 37.7, 37.8
	minLon, maxLon = -122.5, -122.4
)

type demoProfile struct {
	fullName  string
	username  string
	gender    domain.Gender
	birthdate string
	bio       string
	avatarURL string
	minAge    int
	maxAge    int
	distance  int
	wants     domain.Gender
}

var demoProfiles = []demoProfile{
	{"Nguyễn Thị Mai", "mai_nguyen", domain.GenderFemale, "1995-03-15", "Hiking, coffee and long conversations.", "", 25, 35, 50, domain.GenderMale},
	{"Trần Văn Nam", "nam_tran", domain.GenderMale, "1992-07-22", "Photographer, always packing for the next trip.", "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=400&h=400&fit=crop&crop=face", 28, 38, 30, domain.GenderFemale},
	{"Lê Thu Hằng", "hang_le", domain.GenderFemale, "1990-11-08", "Books, yoga and conversations that matter.", "https://images.unsplash.com/photo-1544005313-94ddf0286df2?w=400&h=400&fit=crop&crop=face", 30, 40, 25, domain.GenderMale},
	{"Hoàng Văn Tuấn", "tuan_hoang", domain.GenderMale, "1988-05-12", "Tech and gym. Looking for someone to share good food with.", "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400&h=400&fit=crop&crop=face", 25, 35, 40, domain.GenderFemale},
	{"Phạm Thu Thảo", "thao_pham", domain.GenderFemale, "1993-09-18", "Painter running on espresso.", "https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=400&h=400&fit=crop&crop=face", 26, 36, 35, domain.GenderMale},
	{"Đặng Minh Quân", "quan_dang", domain.GenderMale, "1989-12-03", "Guitar, mountains and good vibes.", "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=400&h=400&fit=crop&crop=face", 24, 34, 45, domain.GenderFemale},
	{"Phan Thị Lan", "lan_phan", domain.GenderFemale, "1994-02-28", "Food blogger hunting for hidden gems.", "https://images.unsplash.com/photo-1517841905240-472988babdf9?w=400&h=400&fit=crop&crop=face", 27, 37, 30, domain.GenderMale},
	{"Trương Quang Hải", "hai_truong", domain.GenderMale, "1991-06-14", "Founder and fitness coach.", "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=400&h=400&fit=crop&crop=face", 25, 35, 50, domain.GenderFemale},
	{"Ngô Ánh Tuyết", "tuyet_ngo", domain.GenderFemale, "1996-08-07", "Dance instructor spreading good energy.", "https://images.unsplash.com/photo-1524504388940-b1c1722653e1?w=400&h=400&fit=crop&crop=face", 23, 33, 25, domain.GenderMale},
	{"Đỗ Gia Hưng", "hung_do", domain.GenderMale, "1987-04-25", "Software engineer and board game nerd.", "https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?w=400&h=400&fit=crop&crop=face", 26, 36, 40, domain.GenderFemale},
}

// DemoUserID is the stable id of a demo username, so reseeding updates the
// same rows.
func DemoUserID(username string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("heartmatch:demo:"+username))
}

type SeedUseCase struct {
	profileRepo repository.ProfileRepository
	log         zerolog.Logger
}

func NewSeedUseCase(profileRepo repository.ProfileRepository, log zerolog.Logger) *SeedUseCase {
	return &SeedUseCase{profileRepo: profileRepo, log: log}
}

// Seed upserts the demo profiles. The same randSeed always yields the same
// coordinates.
func (uc *SeedUseCase) Seed(ctx context.Context, randSeed uint64) ([]*domain.UserProfile, error) {
	rng := rand.New(rand.NewPCG(randSeed, randSeed^0x9e3779b97f4a7c15))

	seeded := make([]*domain.UserProfile, 0, len(demoProfiles))
	for i, d := range demoProfiles {
		birthdate, err := time.Parse("2006-01-02", d.birthdate)
		if err != nil {
			return seeded, fmt.Errorf("demo profile %s: %w", d.username, err)
		}
		lat := minLat + rng.Float64()*(maxLat-minLat)
		lon := minLon + rng.Float64()*(maxLon-minLon)

		p := &domain.UserProfile{
			ID:          DemoUserID(d.username),
			FullName:    d.fullName,
			Username:    d.username,
			Email:       d.username + "@example.com",
			Gender:      d.gender,
			Birthdate:   birthdate,
			Bio:         d.bio,
			AvatarURL:   d.avatarURL,
			LocationLat: &lat,
			LocationLon: &lon,
			Preferences: domain.Preferences{
				MinAge:        d.minAge,
				MaxAge:        d.maxAge,
				MaxDistanceKm: d.distance,
				Genders:       []domain.Gender{d.wants},
			},
			IsVerified: true,
		}
		if err := p.Preferences.Validate(); err != nil {
			return seeded, fmt.Errorf("demo profile %s: %w", d.username, err)
		}
		if err := uc.profileRepo.Upsert(ctx, p); err != nil {
			return seeded, domain.Wrap(domain.ErrDataStore, "seed "+d.username, err)
		}

		uc.log.Info().
			Int("n", i+1).
			Str("username", p.Username).
			Str("user_id", p.ID.String()).
			Msg("seeded profile")
		seeded = append(seeded, p)
	}
	return seeded, nil
}
