package wingman

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/heartmatch-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Generator writes the AI wingman content for a freshly matched pair.
type Generator interface {
	GenerateMatchExplanation(ctx context.Context, a, b *domain.PublicProfile) (string, error)
	GenerateIcebreakers(ctx context.Context, a, b *domain.PublicProfile) ([]string, error)
}

type WingmanUseCase struct {
	matchRepo   repository.MatchRepository
	profileRepo repository.ProfileRepository
	generator   Generator
	now         func() time.Time
	log         zerolog.Logger
}

// NewWingmanUseCase builds the enricher. A nil generator always uses the
// canned fallback content.
func NewWingmanUseCase(
	matchRepo repository.MatchRepository,
	profileRepo repository.ProfileRepository,
	generator Generator,
	log zerolog.Logger,
) *WingmanUseCase {
	return &WingmanUseCase{
		matchRepo:   matchRepo,
		profileRepo: profileRepo,
		generator:   generator,
		now:         time.Now,
		log:         log,
	}
}

// EnrichMatch stores an explanation and icebreakers for the match in
// event. A returned error means the event should be retried.
func (uc *WingmanUseCase) EnrichMatch(ctx context.Context, event *domain.MatchCreatedEvent) error {
	log := uc.log.With().Str("match_id", event.MatchID.String()).Logger()

	now := uc.now()
	a, err := uc.profileRepo.GetByID(ctx, event.User1ID)
	if err != nil {
		return uc.skipOrRetry(log, "load first profile", err)
	}
	b, err := uc.profileRepo.GetByID(ctx, event.User2ID)
	if err != nil {
		return uc.skipOrRetry(log, "load second profile", err)
	}
	pa, pb := a.Public(now), b.Public(now)

	result := "ai"
	explanation, icebreakers := "", []string(nil)
	if uc.generator != nil {
		explanation, err = uc.generator.GenerateMatchExplanation(ctx, pa, pb)
		if err != nil {
			log.Warn().Err(err).Msg("explanation generation failed, using fallback")
			explanation = ""
		}
		icebreakers, err = uc.generator.GenerateIcebreakers(ctx, pa, pb)
		if err != nil {
			log.Warn().Err(err).Msg("icebreaker generation failed, using fallback")
			icebreakers = nil
		}
	}
	if explanation == "" {
		explanation = FallbackExplanation(pa, pb)
		result = "fallback"
	}
	if len(icebreakers) == 0 {
		icebreakers = FallbackIcebreakers(pb)
		result = "fallback"
	}

	if err := uc.matchRepo.UpdateAIFields(ctx, event.MatchID, explanation, icebreakers); err != nil {
		return uc.skipOrRetry(log, "store AI fields", err)
	}

	metrics.WingmanEnrichments.WithLabelValues(result).Inc()
	log.Info().Str("result", result).Int("icebreakers", len(icebreakers)).Msg("match enriched")
	return nil
}

// skipOrRetry drops events that point at rows which no longer exist and
// asks for a retry on anything else.
func (uc *WingmanUseCase) skipOrRetry(log zerolog.Logger, op string, err error) error {
	if errors.Is(err, domain.ErrProfileNotFound) || errors.Is(err, domain.ErrMatchNotFound) {
		metrics.WingmanEnrichments.WithLabelValues("skipped").Inc()
		log.Warn().Err(err).Str("op", op).Msg("skipping match enrichment")
		return nil
	}
	metrics.WingmanEnrichments.WithLabelValues("error").Inc()
	return domain.Wrap(domain.ErrDataStore, op, err)
}

func FallbackExplanation(a, b *domain.PublicProfile) string {
	if a.FullName == "" || b.FullName == "" {
		return "You liked each other, which is the best start there is."
	}
	return fmt.Sprintf("%s and %s both said yes. Say hello and see where it goes!", a.FullName, b.FullName)
}

func FallbackIcebreakers(other *domain.PublicProfile) []string {
	name := other.FullName
	if name == "" {
		name = "there"
	}
	return []string{
		fmt.Sprintf("Hi %s! What made you swipe right?", name),
		"What's the best thing you did this week?",
		"Coffee, tea, or something stronger for a first date?",
	}
}
