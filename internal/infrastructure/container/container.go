package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdugdh24/heartmatch-backend/internal/config"
	"github.com/gdugdh24/heartmatch-backend/internal/delivery/http"
	"github.com/gdugdh24/heartmatch-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/heartmatch-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/database"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/events"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/ratelimit"
	"github.com/gdugdh24/heartmatch-backend/internal/infrastructure/server"
	"github.com/gdugdh24/heartmatch-backend/internal/repository"
	"github.com/gdugdh24/heartmatch-backend/internal/repository/memory"
	"github.com/gdugdh24/heartmatch-backend/internal/repository/postgres"
	"github.com/gdugdh24/heartmatch-backend/internal/usecase/auth"
	"github.com/gdugdh24/heartmatch-backend/internal/usecase/candidate"
	"github.com/gdugdh24/heartmatch-backend/internal/usecase/like"
	"github.com/gdugdh24/heartmatch-backend/internal/usecase/match"
	"github.com/gdugdh24/heartmatch-backend/internal/usecase/profile"
	"github.com/gdugdh24/heartmatch-backend/internal/usecase/seed"
	"github.com/gdugdh24/heartmatch-backend/internal/usecase/wingman"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Log    zerolog.Logger

	DB     *sqlx.DB
	Redis  *redis.Client
	NATS   *events.NATSPublisher
	Gemini *gemini.GeminiClient

	Profiles repository.ProfileRepository
	Likes    repository.LikeRepository
	Matches  repository.MatchRepository

	Tokens  *auth.TokenService
	Wingman *wingman.WingmanUseCase
	Seeder  *seed.SeedUseCase
	Server  *server.Server
}

// NewContainer creates a new dependency injection container. Redis, NATS
// and Gemini are optional and skipped when not configured.
func NewContainer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	if err := c.initStores(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initClients(ctx); err != nil {
		c.Close()
		return nil, err
	}

	c.Tokens = auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Audience, cfg.JWT.TTL)

	var generator wingman.Generator
	if c.Gemini != nil {
		generator = c.Gemini
	}
	c.Wingman = wingman.NewWingmanUseCase(c.Matches, c.Profiles, generator, log.With().Str("component", "wingman").Logger())
	c.Seeder = seed.NewSeedUseCase(c.Profiles, log.With().Str("component", "seed").Logger())

	c.Server = server.NewServer(&cfg.Server, c.newRouter().Setup(), log)
	return c, nil
}

func (c *Container) initStores() error {
	switch c.Config.Store.Driver {
	case config.StoreDriverMemory:
		c.Log.Warn().Msg("using in-memory store, data is lost on exit")
		c.Profiles = memory.NewProfileRepository()
		c.Likes = memory.NewLikeRepository()
		c.Matches = memory.NewMatchRepository()
	default:
		db, err := database.NewPostgresDB(&c.Config.Database)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		c.Profiles = postgres.NewProfileRepository(db)
		c.Likes = postgres.NewLikeRepository(db)
		c.Matches = postgres.NewMatchRepository(db)
	}
	return nil
}

func (c *Container) initClients(ctx context.Context) error {
	if c.Config.Redis.Enabled() {
		client, err := database.NewRedisClient(&c.Config.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		c.Redis = client
	}

	if c.Config.Events.NATSURL != "" {
		nc, err := events.NewNATSPublisher(events.DefaultNATSConfig(c.Config.Events.NATSURL), c.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize nats: %w", err)
		}
		c.NATS = nc
	}

	if c.Config.Gemini.APIKey != "" {
		client, err := gemini.NewGeminiClient(ctx, c.Config.Gemini.APIKey, c.Config.Gemini.Model, c.Log)
		if err != nil {
			// AI content is optional; wingman falls back to canned text
			c.Log.Warn().Err(err).Msg("failed to initialize gemini client")
		} else {
			c.Gemini = client
		}
	}
	return nil
}

// Publisher fans match events out to every configured sink.
func (c *Container) Publisher() *events.Fanout {
	var sinks []events.Sink
	if c.Redis != nil {
		sinks = append(sinks, events.NewRedisStreamPublisher(c.Redis, c.Config.Events.Stream))
	}
	if c.NATS != nil {
		sinks = append(sinks, c.NATS)
	}
	return events.NewFanout(sinks...)
}

func (c *Container) newRouter() *http.Router {
	log := c.Log
	cfg := c.Config

	profileUseCase := profile.NewProfileUseCase(c.Profiles)
	candidateUseCase := candidate.NewCandidateUseCase(c.Profiles,
		candidate.WithPoolSize(cfg.Matching.PoolSize),
		candidate.WithLogger(log),
	)
	likeOpts := []like.Option{like.WithLogger(log)}
	if pub := c.Publisher(); pub.Len() > 0 {
		likeOpts = append(likeOpts, like.WithPublisher(pub))
	}
	likeUseCase := like.NewLikeUseCase(c.Likes, c.Matches, c.Profiles, likeOpts...)
	matchUseCase := match.NewMatchUseCase(c.Matches, c.Profiles, log)

	deps := http.RouterDeps{
		AuthHandler:      handler.NewAuthHandler(),
		ProfileHandler:   handler.NewProfileHandler(profileUseCase),
		CandidateHandler: handler.NewCandidateHandler(candidateUseCase),
		LikeHandler:      handler.NewLikeHandler(likeUseCase),
		MatchHandler:     handler.NewMatchHandler(matchUseCase),
		AuthMiddleware:   middleware.NewAuthMiddleware(c.Tokens),
		LikeRule:         ratelimit.LikeRule(cfg.RateLimit.LikeLimit, cfg.RateLimit.LikeWindow),
		Logger:           log,
	}
	if c.Redis != nil {
		deps.Limiter = ratelimit.NewLimiter(c.Redis, log)
	} else {
		log.Warn().Msg("redis not configured, likes are not rate limited")
	}
	return http.NewRouter(deps)
}

// NewWingmanConsumer builds the match:created consumer that enriches new
// matches. It needs Redis.
func (c *Container) NewWingmanConsumer(consumerName string) (*events.RedisStreamConsumer, error) {
	if c.Redis == nil {
		return nil, errors.New("wingman consumer requires REDIS_HOST")
	}
	return events.NewRedisStreamConsumer(c.Redis, events.ConsumerConfig{
		Stream:   c.Config.Events.Stream,
		Group:    events.GroupWingman,
		Consumer: consumerName,
		Handler:  c.Wingman.EnrichMatch,
		Logger:   c.Log.With().Str("component", "wingman-consumer").Logger(),
	}), nil
}

// Close closes all connections
func (c *Container) Close() error {
	var errs []error
	if c.NATS != nil {
		if err := c.NATS.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close nats: %w", err))
		}
	}
	if c.Gemini != nil {
		if err := c.Gemini.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close gemini: %w", err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
