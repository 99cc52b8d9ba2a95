package like

import (
	"context"
	"errors"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/heartmatch-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MatchEventPublisher delivers match.created events to downstream
// collaborators (chat, wingman).
type MatchEventPublisher interface {
	PublishMatchCreated(ctx context.Context, event *domain.MatchCreatedEvent) error
}

type LikeUseCase struct {
	likeRepo    repository.LikeRepository
	matchRepo   repository.MatchRepository
	profileRepo repository.ProfileRepository
	publisher   MatchEventPublisher
	now         func() time.Time
	log         zerolog.Logger
}

type Option func(*LikeUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *LikeUseCase) { uc.now = now }
}

func WithPublisher(p MatchEventPublisher) Option {
	return func(uc *LikeUseCase) { uc.publisher = p }
}

func WithLogger(log zerolog.Logger) Option {
	return func(uc *LikeUseCase) { uc.log = log }
}

func NewLikeUseCase(
	likeRepo repository.LikeRepository,
	matchRepo repository.MatchRepository,
	profileRepo repository.ProfileRepository,
	opts ...Option,
) *LikeUseCase {
	uc := &LikeUseCase{
		likeRepo:    likeRepo,
		matchRepo:   matchRepo,
		profileRepo: profileRepo,
		now:         time.Now,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// LikeRequest represents a like action
type LikeRequest struct {
	TargetUserID uuid.UUID `json:"target_user_id" binding:"required"`
}

// LikeResult reports whether the like completed a mutual match.
type LikeResult struct {
	IsMatch        bool                  `json:"is_match"`
	Match          *domain.Match         `json:"match,omitempty"`
	MatchedProfile *domain.PublicProfile `json:"matched_user,omitempty"`
}

// RecordLike stores actor's like for target and resolves a match when
// target already liked actor. Repeating a like is harmless: the like is
// stored once and the pair keeps a single match.
func (uc *LikeUseCase) RecordLike(ctx context.Context, actorID, targetID uuid.UUID) (*LikeResult, error) {
	if actorID == uuid.Nil {
		return nil, domain.ErrNotAuthenticated
	}
	if targetID == uuid.Nil {
		return nil, domain.Wrap(domain.ErrInvalidInput, "record like", errors.New("target user id is required"))
	}
	if actorID == targetID {
		return nil, domain.ErrCannotLikeSelf
	}

	now := uc.now()

	// The like must be durable before the reciprocal check. Two users
	// liking each other at once then both see at least one of the likes.
	if err := uc.likeRepo.Create(ctx, domain.NewLike(actorID, targetID, now)); err != nil {
		return nil, domain.Wrap(domain.ErrLikeWrite, "insert like", err)
	}

	reciprocal, err := uc.likeRepo.Exists(ctx, targetID, actorID)
	if err != nil {
		return nil, domain.Wrap(domain.ErrMatchCheck, "lookup reciprocal like", err)
	}
	if !reciprocal {
		metrics.LikesTotal.WithLabelValues("like").Inc()
		return &LikeResult{IsMatch: false}, nil
	}

	match := domain.NewMatch(actorID, targetID, now)
	created, err := uc.matchRepo.CreateIfAbsent(ctx, match)
	if err != nil {
		return nil, domain.Wrap(domain.ErrMatchCheck, "create match", err)
	}
	if created {
		metrics.MatchesCreated.Inc()
		uc.log.Info().
			Str("match_id", match.ID.String()).
			Str("user1_id", match.User1ID.String()).
			Str("user2_id", match.User2ID.String()).
			Msg("match created")
		uc.publishMatchCreated(ctx, match)
	}

	target, err := uc.profileRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		return nil, domain.Wrap(domain.ErrDataStore, "load matched profile", err)
	}

	metrics.LikesTotal.WithLabelValues("match").Inc()

	return &LikeResult{
		IsMatch:        true,
		Match:          match,
		MatchedProfile: target.Public(now),
	}, nil
}

// publishMatchCreated logs and drops publish errors.
func (uc *LikeUseCase) publishMatchCreated(ctx context.Context, match *domain.Match) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.PublishMatchCreated(ctx, domain.NewMatchCreatedEvent(match)); err != nil {
		uc.log.Error().
			Err(err).
			Str("match_id", match.ID.String()).
			Msg("failed to publish match created event")
	}
}
