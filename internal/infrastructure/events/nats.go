package events

import (
	"context"
	"fmt"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// SubjectMatchCreated is suffixed with .<user_id>; each participant gets
// its own copy so a chat service can subscribe per user.
const SubjectMatchCreated = "match.created"

// NATSConfig holds NATS connection settings.
type NATSConfig struct {
	URL           string
	Name          string
	ReconnectWait time.Duration
	MaxReconnects int
}

func DefaultNATSConfig(url string) NATSConfig {
	return NATSConfig{
		URL:           url,
		Name:          "heartmatch",
		ReconnectWait: 2 * time.Second,
		MaxReconnects: -1, // infinite reconnects
	}
}

// NATSPublisher notifies both participants of a new match.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(config NATSConfig, log zerolog.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name(config.Name),
		nats.ReconnectWait(config.ReconnectWait),
		nats.MaxReconnects(config.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Info().Msg("nats connection closed")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	log.Info().Str("url", nc.ConnectedUrl()).Msg("nats connected")
	return &NATSPublisher{conn: nc}, nil
}

func (p *NATSPublisher) Name() string { return "nats" }

func MatchCreatedSubject(userID string) string {
	return SubjectMatchCreated + "." + userID
}

func (p *NATSPublisher) PublishMatchCreated(ctx context.Context, event *domain.MatchCreatedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	for _, id := range []string{event.User1ID.String(), event.User2ID.String()} {
		if err := p.conn.Publish(MatchCreatedSubject(id), data); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
	}
	return nil
}

// Conn exposes the connection for subscribers in the same process.
func (p *NATSPublisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains pending publishes before closing.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
