package candidate

import (
	"context"
	"errors"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/heartmatch-backend/internal/repository"
	"github.com/gdugdh24/heartmatch-backend/pkg/geo"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultPoolSize bounds how many profiles one selection looks at.
// Eligibility is exhaustive over the pool only.
const DefaultPoolSize = 100

// Rejection names the first rule a candidate failed. Accepted is empty.
type Rejection string

const (
	Accepted            Rejection = ""
	RejectGender        Rejection = "gender"
	RejectAge           Rejection = "age"
	RejectReverseGender Rejection = "reverse_gender"
	RejectReverseAge    Rejection = "reverse_age"
	RejectDistance      Rejection = "distance"
)

// CandidateProfile is a public profile plus its distance from the
// requester, when both locations are known.
type CandidateProfile struct {
	domain.PublicProfile
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

type CandidateUseCase struct {
	profileRepo repository.ProfileRepository
	poolSize    int
	now         func() time.Time
	log         zerolog.Logger
}

type Option func(*CandidateUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *CandidateUseCase) { uc.now = now }
}

func WithPoolSize(n int) Option {
	return func(uc *CandidateUseCase) {
		if n > 0 {
			uc.poolSize = n
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(uc *CandidateUseCase) { uc.log = log }
}

func NewCandidateUseCase(profileRepo repository.ProfileRepository, opts ...Option) *CandidateUseCase {
	uc := &CandidateUseCase{
		profileRepo: profileRepo,
		poolSize:    DefaultPoolSize,
		now:         time.Now,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// SelectCandidates returns the profiles the requester may be shown, in
// the order the store returned them (newest first).
func (uc *CandidateUseCase) SelectCandidates(ctx context.Context, requesterID uuid.UUID) ([]*CandidateProfile, error) {
	if requesterID == uuid.Nil {
		return nil, domain.ErrNotAuthenticated
	}

	var (
		requester *domain.UserProfile
		pool      []*domain.UserProfile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := uc.profileRepo.GetByID(gctx, requesterID)
		if err != nil {
			if errors.Is(err, domain.ErrProfileNotFound) {
				return err
			}
			return domain.Wrap(domain.ErrDataStore, "load requester profile", err)
		}
		requester = p
		return nil
	})
	g.Go(func() error {
		p, err := uc.profileRepo.ListExcluding(gctx, requesterID, uc.poolSize)
		if err != nil {
			return domain.Wrap(domain.ErrDataStore, "load candidate pool", err)
		}
		pool = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := uc.now()
	candidates := make([]*CandidateProfile, 0, len(pool))
	for _, c := range pool {
		if c.ID == requester.ID {
			continue
		}
		reason, distance := evaluate(requester, c, now)
		if reason != Accepted {
			metrics.CandidateRejections.WithLabelValues(string(reason)).Inc()
			continue
		}
		candidates = append(candidates, &CandidateProfile{
			PublicProfile: *c.Public(now),
			DistanceKm:    distance,
		})
	}

	metrics.CandidatesReturned.Observe(float64(len(candidates)))
	uc.log.Debug().
		Str("user_id", requesterID.String()).
		Int("pool", len(pool)).
		Int("candidates", len(candidates)).
		Msg("candidates selected")

	return candidates, nil
}

// Evaluate applies the two-sided filter: each side must accept the other's
// gender and age, and the candidate must lie within the requester's
// distance limit when both locations are known.
func Evaluate(requester, candidate *domain.UserProfile, now time.Time) Rejection {
	reason, _ := evaluate(requester, candidate, now)
	return reason
}

func evaluate(requester, candidate *domain.UserProfile, now time.Time) (Rejection, *float64) {
	mine := requester.Preferences.WithDefaults()
	theirs := candidate.Preferences.WithDefaults()

	if !mine.AcceptsGender(candidate.Gender) {
		return RejectGender, nil
	}
	if !mine.AcceptsAge(candidate.AgeAt(now)) {
		return RejectAge, nil
	}
	if !theirs.AcceptsGender(requester.Gender) {
		return RejectReverseGender, nil
	}
	if !theirs.AcceptsAge(requester.AgeAt(now)) {
		return RejectReverseAge, nil
	}

	lat1, lon1, ok1 := requester.Coordinates()
	lat2, lon2, ok2 := candidate.Coordinates()
	if !ok1 || !ok2 {
		return Accepted, nil
	}
	d := geo.DistanceKm(lat1, lon1, lat2, lon2)
	if d > float64(mine.MaxDistanceKm) {
		return RejectDistance, nil
	}
	return Accepted, &d
}
