package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/repository/memory"
	"github.com/gdugdh24/heartmatch-backend/internal/repository/mocks"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func TestSeed_UpsertsDemoProfiles(t *testing.T) {
	repo := memory.NewProfileRepository()
	uc := NewSeedUseCase(repo, zerolog.Nop())

	seeded, err := uc.Seed(context.Background(), 42)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if len(seeded) != len(demoProfiles) || repo.Len() != len(demoProfiles) {
		t.Fatalf("expected %d profiles, seeded %d, stored %d", len(demoProfiles), len(seeded), repo.Len())
	}

	for _, p := range seeded {
		lat, lon, ok := p.Coordinates()
		if !ok {
			t.Fatalf("%s has no coordinates", p.Username)
		}
		if lat < minLat || lat > maxLat || lon < minLon || lon > maxLon {
			t.Errorf("%s outside demo area: %f,%f", p.Username, lat, lon)
		}
		if !p.IsVerified {
			t.Errorf("%s should be verified", p.Username)
		}
		if p.ID != DemoUserID(p.Username) {
			t.Errorf("%s has unstable id", p.Username)
		}
	}
}

func TestSeed_IsRepeatable(t *testing.T) {
	repo := memory.NewProfileRepository()
	uc := NewSeedUseCase(repo, zerolog.Nop())

	first, err := uc.Seed(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	second, err := uc.Seed(context.Background(), 7)
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if repo.Len() != len(demoProfiles) {
		t.Fatalf("reseeding should update in place, have %d rows", repo.Len())
	}
	for i := range first {
		if *first[i].LocationLat != *second[i].LocationLat || *first[i].LocationLon != *second[i].LocationLon {
			t.Errorf("%s coordinates changed between runs", first[i].Username)
		}
	}
}

func TestSeed_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProfileRepository(ctrl)
	repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	_, err := NewSeedUseCase(repo, zerolog.Nop()).Seed(context.Background(), 1)
	if !errors.Is(err, domain.ErrDataStore) {
		t.Fatalf("expected data store error, got %v", err)
	}
}
