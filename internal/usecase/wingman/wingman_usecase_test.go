package wingman

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/repository/memory"
	"github.com/gdugdh24/heartmatch-backend/internal/repository/mocks"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

type stubGenerator struct {
	explanation    string
	explanationErr error
	icebreakers    []string
	icebreakersErr error
}

func (g *stubGenerator) GenerateMatchExplanation(ctx context.Context, a, b *domain.PublicProfile) (string, error) {
	return g.explanation, g.explanationErr
}

func (g *stubGenerator) GenerateIcebreakers(ctx context.Context, a, b *domain.PublicProfile) ([]string, error) {
	return g.icebreakers, g.icebreakersErr
}

type fixture struct {
	matches  *memory.MatchRepository
	profiles *memory.ProfileRepository
	event    *domain.MatchCreatedEvent
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{matches: memory.NewMatchRepository(), profiles: memory.NewProfileRepository()}

	a := &domain.UserProfile{ID: uuid.New(), FullName: "Mai", Gender: domain.GenderFemale}
	b := &domain.UserProfile{ID: uuid.New(), FullName: "Nam", Gender: domain.GenderMale}
	for _, p := range []*domain.UserProfile{a, b} {
		if err := f.profiles.Upsert(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	m := domain.NewMatch(a.ID, b.ID, time.Now())
	if _, err := f.matches.CreateIfAbsent(ctx, m); err != nil {
		t.Fatal(err)
	}
	f.event = domain.NewMatchCreatedEvent(m)
	return f
}

func (f *fixture) stored(t *testing.T) *domain.Match {
	t.Helper()
	m, err := f.matches.GetByUsers(context.Background(), f.event.User1ID, f.event.User2ID)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestEnrichMatch_UsesGenerator(t *testing.T) {
	f := newFixture(t)
	gen := &stubGenerator{explanation: "Both of you love hiking.", icebreakers: []string{"Favourite trail?"}}
	uc := NewWingmanUseCase(f.matches, f.profiles, gen, zerolog.Nop())

	if err := uc.EnrichMatch(context.Background(), f.event); err != nil {
		t.Fatalf("EnrichMatch: %v", err)
	}
	m := f.stored(t)
	if m.Explanation == nil || *m.Explanation != gen.explanation {
		t.Errorf("explanation = %v", m.Explanation)
	}
	if len(m.Icebreakers) != 1 || m.Icebreakers[0] != "Favourite trail?" {
		t.Errorf("icebreakers = %v", m.Icebreakers)
	}
}

func TestEnrichMatch_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
	}{
		{"no generator", nil},
		{"generator fails", &stubGenerator{
			explanationErr: errors.New("circuit breaker is open"),
			icebreakersErr: errors.New("circuit breaker is open"),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			uc := NewWingmanUseCase(f.matches, f.profiles, tt.gen, zerolog.Nop())
			if err := uc.EnrichMatch(context.Background(), f.event); err != nil {
				t.Fatalf("EnrichMatch: %v", err)
			}
			m := f.stored(t)
			if m.Explanation == nil || *m.Explanation == "" {
				t.Error("fallback explanation not stored")
			}
			if len(m.Icebreakers) != 3 {
				t.Errorf("icebreakers = %v, want 3 fallback lines", m.Icebreakers)
			}
		})
	}
}

func TestEnrichMatch_SkipsVanishedRows(t *testing.T) {
	f := newFixture(t)
	uc := NewWingmanUseCase(f.matches, f.profiles, nil, zerolog.Nop())

	missingProfile := *f.event
	missingProfile.User2ID = uuid.New()
	if err := uc.EnrichMatch(context.Background(), &missingProfile); err != nil {
		t.Errorf("missing profile should be skipped, got %v", err)
	}

	missingMatch := *f.event
	missingMatch.MatchID = uuid.New()
	if err := uc.EnrichMatch(context.Background(), &missingMatch); err != nil {
		t.Errorf("missing match should be skipped, got %v", err)
	}
}

func TestEnrichMatch_RetriesStoreFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	profiles := mocks.NewMockProfileRepository(ctrl)
	matches := mocks.NewMockMatchRepository(ctrl)
	boom := errors.New("connection refused")

	event := &domain.MatchCreatedEvent{MatchID: uuid.New(), User1ID: uuid.New(), User2ID: uuid.New()}
	profiles.EXPECT().GetByID(gomock.Any(), event.User1ID).Return(nil, boom)

	uc := NewWingmanUseCase(matches, profiles, nil, zerolog.Nop())
	err := uc.EnrichMatch(context.Background(), event)
	if !errors.Is(err, domain.ErrDataStore) || !errors.Is(err, boom) {
		t.Errorf("err = %v, want ErrDataStore wrapping cause", err)
	}
}
