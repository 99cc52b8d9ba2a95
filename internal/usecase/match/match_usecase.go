package match

import (
	"context"
	"errors"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	profileFetchConcurrency = 8
)

type MatchUseCase struct {
	matchRepo   repository.MatchRepository
	profileRepo repository.ProfileRepository
	now         func() time.Time
	log         zerolog.Logger
}

func NewMatchUseCase(
	matchRepo repository.MatchRepository,
	profileRepo repository.ProfileRepository,
	log zerolog.Logger,
) *MatchUseCase {
	return &MatchUseCase{
		matchRepo:   matchRepo,
		profileRepo: profileRepo,
		now:         time.Now,
		log:         log,
	}
}

// MatchedUser is one active match seen from the caller's side.
type MatchedUser struct {
	MatchID     uuid.UUID             `json:"match_id"`
	MatchedAt   time.Time             `json:"matched_at"`
	Explanation *string               `json:"explanation,omitempty"`
	Icebreakers []string              `json:"icebreakers,omitempty"`
	User        *domain.PublicProfile `json:"user"`
}

// ListMatches returns the caller's active matches, newest first, each with
// the other participant's public profile. Matches whose other participant
// no longer has a profile are skipped.
func (uc *MatchUseCase) ListMatches(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*MatchedUser, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrNotAuthenticated
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	matches, err := uc.matchRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, domain.Wrap(domain.ErrDataStore, "list matches", err)
	}

	now := uc.now()
	resolved := make([]*MatchedUser, len(matches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(profileFetchConcurrency)
	for i, m := range matches {
		otherID, ok := m.GetOtherUserID(userID)
		if !ok {
			continue
		}
		g.Go(func() error {
			p, err := uc.profileRepo.GetByID(gctx, otherID)
			if err != nil {
				if errors.Is(err, domain.ErrProfileNotFound) {
					uc.log.Warn().
						Str("match_id", m.ID.String()).
						Str("user_id", otherID.String()).
						Msg("matched user has no profile, skipping")
					return nil
				}
				return domain.Wrap(domain.ErrDataStore, "load matched profile", err)
			}
			resolved[i] = &MatchedUser{
				MatchID:     m.ID,
				MatchedAt:   m.CreatedAt,
				Explanation: m.Explanation,
				Icebreakers: m.Icebreakers,
				User:        p.Public(now),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*MatchedUser, 0, len(resolved))
	for _, r := range resolved {
		if r != nil {
			result = append(result, r)
		}
	}
	return result, nil
}
