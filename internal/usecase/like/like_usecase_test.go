package like

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/repository/memory"
	"github.com/gdugdh24/heartmatch-backend/internal/repository/mocks"
	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*domain.MatchCreatedEvent
	err    error
}

func (p *recordingPublisher) PublishMatchCreated(ctx context.Context, event *domain.MatchCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type fixture struct {
	likes     *memory.LikeRepository
	matches   *memory.MatchRepository
	profiles  *memory.ProfileRepository
	publisher *recordingPublisher
	uc        *LikeUseCase
	alice     *domain.UserProfile
	bob       *domain.UserProfile
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		likes:     memory.NewLikeRepository(),
		matches:   memory.NewMatchRepository(),
		profiles:  memory.NewProfileRepository(),
		publisher: &recordingPublisher{},
	}
	f.alice = &domain.UserProfile{ID: uuid.New(), FullName: "Alice", Email: "alice@example.com", Gender: domain.GenderFemale, Birthdate: time.Date(1995, 3, 15, 0, 0, 0, 0, time.UTC)}
	f.bob = &domain.UserProfile{ID: uuid.New(), FullName: "Bob", Email: "bob@example.com", Gender: domain.GenderMale, Birthdate: time.Date(1992, 7, 22, 0, 0, 0, 0, time.UTC)}
	for _, p := range []*domain.UserProfile{f.alice, f.bob} {
		if err := f.profiles.Upsert(context.Background(), p); err != nil {
			t.Fatal(err)
		}
	}
	f.uc = NewLikeUseCase(f.likes, f.matches, f.profiles,
		WithClock(func() time.Time { return now }),
		WithPublisher(f.publisher),
	)
	return f
}

func TestRecordLike_OneSided(t *testing.T) {
	f := newFixture(t)

	res, err := f.uc.RecordLike(context.Background(), f.alice.ID, f.bob.ID)
	if err != nil {
		t.Fatalf("RecordLike: %v", err)
	}
	if res.IsMatch || res.Match != nil || res.MatchedProfile != nil {
		t.Errorf("one-sided like should not match: %+v", res)
	}
	if f.likes.Count() != 1 || f.matches.Count() != 0 {
		t.Errorf("likes=%d matches=%d, want 1 and 0", f.likes.Count(), f.matches.Count())
	}
	if f.publisher.count() != 0 {
		t.Error("event published without a match")
	}
}

func TestRecordLike_MutualCreatesMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.uc.RecordLike(ctx, f.alice.ID, f.bob.ID); err != nil {
		t.Fatal(err)
	}
	res, err := f.uc.RecordLike(ctx, f.bob.ID, f.alice.ID)
	if err != nil {
		t.Fatalf("RecordLike: %v", err)
	}
	if !res.IsMatch || res.Match == nil {
		t.Fatalf("expected a match, got %+v", res)
	}

	wantLow, wantHigh := domain.CanonicalPair(f.alice.ID, f.bob.ID)
	if res.Match.User1ID != wantLow || res.Match.User2ID != wantHigh {
		t.Errorf("match pair not canonical: %v %v", res.Match.User1ID, res.Match.User2ID)
	}
	if !res.Match.IsActive {
		t.Error("new match should be active")
	}
	if res.MatchedProfile == nil || res.MatchedProfile.ID != f.alice.ID {
		t.Fatalf("matched profile should be the liked user, got %+v", res.MatchedProfile)
	}
	if res.MatchedProfile.Age != 31 {
		t.Errorf("age = %d, want 31", res.MatchedProfile.Age)
	}
	if f.publisher.count() != 1 {
		t.Errorf("published %d events, want 1", f.publisher.count())
	}
}

func TestRecordLike_RepeatIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.uc.RecordLike(ctx, f.alice.ID, f.bob.ID); err != nil {
		t.Fatal(err)
	}
	first, err := f.uc.RecordLike(ctx, f.bob.ID, f.alice.ID)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		again, err := f.uc.RecordLike(ctx, f.bob.ID, f.alice.ID)
		if err != nil {
			t.Fatal(err)
		}
		if !again.IsMatch || again.Match.ID != first.Match.ID {
			t.Errorf("repeat like returned match %v, want existing %v", again.Match, first.Match.ID)
		}
	}
	if _, err := f.uc.RecordLike(ctx, f.alice.ID, f.bob.ID); err != nil {
		t.Fatal(err)
	}

	if f.likes.Count() != 2 {
		t.Errorf("likes = %d, want 2", f.likes.Count())
	}
	if f.matches.Count() != 1 {
		t.Errorf("matches = %d, want 1", f.matches.Count())
	}
	if f.publisher.count() != 1 {
		t.Errorf("published %d events, want exactly one per match", f.publisher.count())
	}
}

func TestRecordLike_ConcurrentMutualLikesConverge(t *testing.T) {
	for round := 0; round < 50; round++ {
		f := newFixture(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		results := make([]*LikeResult, 2)
		errs := make([]error, 2)
		pairs := [][2]uuid.UUID{{f.alice.ID, f.bob.ID}, {f.bob.ID, f.alice.ID}}
		for i, p := range pairs {
			wg.Add(1)
			go func(i int, from, to uuid.UUID) {
				defer wg.Done()
				results[i], errs[i] = f.uc.RecordLike(ctx, from, to)
			}(i, p[0], p[1])
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				t.Fatal(err)
			}
		}
		if !results[0].IsMatch && !results[1].IsMatch {
			t.Fatalf("round %d: neither like observed the match", round)
		}
		if f.matches.Count() != 1 {
			t.Fatalf("round %d: %d matches stored, want 1", round, f.matches.Count())
		}
		if results[0].IsMatch && results[1].IsMatch && results[0].Match.ID != results[1].Match.ID {
			t.Fatalf("round %d: callers saw different matches", round)
		}
		if f.publisher.count() != 1 {
			t.Fatalf("round %d: %d events, want 1", round, f.publisher.count())
		}
	}
}

func TestRecordLike_InputErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		actor  uuid.UUID
		target uuid.UUID
		want   error
	}{
		{"anonymous actor", uuid.Nil, f.bob.ID, domain.ErrNotAuthenticated},
		{"missing target", f.alice.ID, uuid.Nil, domain.ErrInvalidInput},
		{"self like", f.alice.ID, f.alice.ID, domain.ErrCannotLikeSelf},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.RecordLike(ctx, tt.actor, tt.target)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if f.likes.Count() != 0 {
		t.Errorf("rejected likes were stored: %d", f.likes.Count())
	}
}

func TestRecordLike_PublishFailureDoesNotFailLike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.publisher.err = errors.New("nats: no servers available")

	if _, err := f.uc.RecordLike(ctx, f.alice.ID, f.bob.ID); err != nil {
		t.Fatal(err)
	}
	res, err := f.uc.RecordLike(ctx, f.bob.ID, f.alice.ID)
	if err != nil {
		t.Fatalf("publish failure leaked into RecordLike: %v", err)
	}
	if !res.IsMatch {
		t.Error("expected match despite publish failure")
	}
}

func TestRecordLike_CollaboratorFailures(t *testing.T) {
	actor, target := uuid.New(), uuid.New()
	boom := errors.New("connection reset by peer")

	tests := []struct {
		name  string
		setup func(likes *mocks.MockLikeRepository, matches *mocks.MockMatchRepository, profiles *mocks.MockProfileRepository)
		want  error
	}{
		{
			name: "like insert fails",
			setup: func(likes *mocks.MockLikeRepository, _ *mocks.MockMatchRepository, _ *mocks.MockProfileRepository) {
				likes.EXPECT().Create(gomock.Any(), gomock.Any()).Return(boom)
			},
			want: domain.ErrLikeWrite,
		},
		{
			name: "reciprocal lookup fails",
			setup: func(likes *mocks.MockLikeRepository, _ *mocks.MockMatchRepository, _ *mocks.MockProfileRepository) {
				likes.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				likes.EXPECT().Exists(gomock.Any(), target, actor).Return(false, boom)
			},
			want: domain.ErrMatchCheck,
		},
		{
			name: "match insert fails",
			setup: func(likes *mocks.MockLikeRepository, matches *mocks.MockMatchRepository, _ *mocks.MockProfileRepository) {
				likes.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				likes.EXPECT().Exists(gomock.Any(), target, actor).Return(true, nil)
				matches.EXPECT().CreateIfAbsent(gomock.Any(), gomock.Any()).Return(false, boom)
			},
			want: domain.ErrMatchCheck,
		},
		{
			name: "matched profile missing",
			setup: func(likes *mocks.MockLikeRepository, matches *mocks.MockMatchRepository, profiles *mocks.MockProfileRepository) {
				likes.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				likes.EXPECT().Exists(gomock.Any(), target, actor).Return(true, nil)
				matches.EXPECT().CreateIfAbsent(gomock.Any(), gomock.Any()).Return(true, nil)
				profiles.EXPECT().GetByID(gomock.Any(), target).Return(nil, domain.ErrProfileNotFound)
			},
			want: domain.ErrProfileNotFound,
		},
		{
			name: "matched profile query fails",
			setup: func(likes *mocks.MockLikeRepository, matches *mocks.MockMatchRepository, profiles *mocks.MockProfileRepository) {
				likes.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				likes.EXPECT().Exists(gomock.Any(), target, actor).Return(true, nil)
				matches.EXPECT().CreateIfAbsent(gomock.Any(), gomock.Any()).Return(true, nil)
				profiles.EXPECT().GetByID(gomock.Any(), target).Return(nil, boom)
			},
			want: domain.ErrDataStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			likes := mocks.NewMockLikeRepository(ctrl)
			matches := mocks.NewMockMatchRepository(ctrl)
			profiles := mocks.NewMockProfileRepository(ctrl)
			tt.setup(likes, matches, profiles)

			uc := NewLikeUseCase(likes, matches, profiles)
			_, err := uc.RecordLike(context.Background(), actor, target)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
