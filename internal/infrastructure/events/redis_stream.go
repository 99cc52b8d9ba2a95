package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Stream and group names
const (
	StreamMatchCreated = "match:created"
	GroupWingman       = "wingman"

	dataField = "data"
)

// RedisStreamPublisher appends match events to a Redis stream.
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewRedisStreamPublisher(client *redis.Client, stream string) *RedisStreamPublisher {
	if stream == "" {
		stream = StreamMatchCreated
	}
	return &RedisStreamPublisher{client: client, stream: stream, maxLen: 100000}
}

func (p *RedisStreamPublisher) Name() string { return "redis_stream" }

func (p *RedisStreamPublisher) PublishMatchCreated(ctx context.Context, event *domain.MatchCreatedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{dataField: string(data)},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", p.stream, err)
	}
	return nil
}

// MatchCreatedHandler processes one decoded event. Returning an error
// leaves the message pending so it is retried.
type MatchCreatedHandler func(ctx context.Context, event *domain.MatchCreatedEvent) error

// RedisStreamConsumer reads match events through a consumer group.
type RedisStreamConsumer struct {
	client   *redis.Client
	stream   string
	group    string
	consumer string
	handler  MatchCreatedHandler
	log      zerolog.Logger

	block           time.Duration
	pendingInterval time.Duration
	pendingIdle     time.Duration
	maxRetries      int64
}

// ConsumerConfig holds consumer configuration.
type ConsumerConfig struct {
	Stream   string
	Group    string
	Consumer string
	Handler  MatchCreatedHandler
	Logger   zerolog.Logger

	// Optional, defaults apply when zero.
	Block           time.Duration
	PendingInterval time.Duration
	PendingIdle     time.Duration
	MaxRetries      int64
}

func NewRedisStreamConsumer(client *redis.Client, cfg ConsumerConfig) *RedisStreamConsumer {
	c := &RedisStreamConsumer{
		client:          client,
		stream:          cfg.Stream,
		group:           cfg.Group,
		consumer:        cfg.Consumer,
		handler:         cfg.Handler,
		log:             cfg.Logger,
		block:           cfg.Block,
		pendingInterval: cfg.PendingInterval,
		pendingIdle:     cfg.PendingIdle,
		maxRetries:      cfg.MaxRetries,
	}
	if c.stream == "" {
		c.stream = StreamMatchCreated
	}
	if c.group == "" {
		c.group = GroupWingman
	}
	if c.block == 0 {
		c.block = 5 * time.Second
	}
	if c.pendingInterval == 0 {
		c.pendingInterval = 30 * time.Second
	}
	if c.pendingIdle == 0 {
		c.pendingIdle = 2 * time.Minute
	}
	if c.maxRetries == 0 {
		c.maxRetries = 3
	}
	return c
}

// Run consumes until ctx is cancelled.
func (c *RedisStreamConsumer) Run(ctx context.Context) error {
	c.log.Info().
		Str("stream", c.stream).
		Str("group", c.group).
		Str("consumer", c.consumer).
		Msg("starting consumer")

	if err := c.ensureGroup(ctx); err != nil {
		return err
	}

	go c.reclaimLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := c.ReadOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Error().Err(err).Msg("error reading from stream")
			time.Sleep(time.Second)
			continue
		}
		if n > 0 {
			c.log.Debug().Int("messages", n).Msg("batch processed")
		}
	}
}

func (c *RedisStreamConsumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group %s: %w", c.group, err)
	}
	return nil
}

// ReadOnce reads and handles one batch of new messages. It returns the
// number of messages read.
func (c *RedisStreamConsumer) ReadOnce(ctx context.Context) (int, error) {
	result, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.consumer,
		Streams:  []string{c.stream, ">"},
		Count:    10,
		Block:    c.block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}

	n := 0
	for _, stream := range result {
		for _, msg := range stream.Messages {
			n++
			c.handle(ctx, msg)
		}
	}
	return n, nil
}

func (c *RedisStreamConsumer) handle(ctx context.Context, msg redis.XMessage) {
	event, err := decodeEvent(msg)
	if err != nil {
		c.log.Error().Err(err).Str("id", msg.ID).Msg("dropping malformed message")
		c.deadLetter(ctx, msg, err)
		return
	}

	if err := c.handler(ctx, event); err != nil {
		c.log.Error().
			Err(err).
			Str("id", msg.ID).
			Str("match_id", event.MatchID.String()).
			Msg("error processing message, leaving pending")
		return
	}

	if err := c.client.XAck(ctx, c.stream, c.group, msg.ID).Err(); err != nil {
		c.log.Error().Err(err).Str("id", msg.ID).Msg("error acknowledging message")
	}
}

func decodeEvent(msg redis.XMessage) (*domain.MatchCreatedEvent, error) {
	raw, ok := msg.Values[dataField].(string)
	if !ok {
		return nil, errors.New("invalid message format: missing data field")
	}
	var event domain.MatchCreatedEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return nil, fmt.Errorf("invalid message payload: %w", err)
	}
	return &event, nil
}

// reclaimLoop retries messages left pending by a failed handler or a
// crashed consumer.
func (c *RedisStreamConsumer) reclaimLoop(ctx context.Context) {
	ticker := time.NewTicker(c.pendingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.ReclaimPending(ctx)
		}
	}
}

// ReclaimPending claims messages idle longer than the pending threshold and
// handles them again. Messages past the retry limit go to the dead letter
// stream.
func (c *RedisStreamConsumer) ReclaimPending(ctx context.Context) {
	pending, err := c.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: c.stream,
		Group:  c.group,
		Idle:   c.pendingIdle,
		Start:  "-",
		End:    "+",
		Count:  100,
	}).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Error().Err(err).Msg("error listing pending messages")
		}
		return
	}

	for _, p := range pending {
		claimed, err := c.client.XClaim(ctx, &redis.XClaimArgs{
			Stream:   c.stream,
			Group:    c.group,
			Consumer: c.consumer,
			MinIdle:  c.pendingIdle,
			Messages: []string{p.ID},
		}).Result()
		if err != nil {
			c.log.Error().Err(err).Str("id", p.ID).Msg("error claiming message")
			continue
		}
		for _, msg := range claimed {
			if p.RetryCount >= c.maxRetries {
				c.log.Warn().Str("id", msg.ID).Int64("retries", p.RetryCount).Msg("message exceeded max retries")
				c.deadLetter(ctx, msg, errors.New("max retries exceeded"))
				continue
			}
			c.handle(ctx, msg)
		}
	}
}

// deadLetter copies msg to dlq:<stream> and acknowledges the original.
func (c *RedisStreamConsumer) deadLetter(ctx context.Context, msg redis.XMessage, cause error) {
	values := map[string]interface{}{
		"original_stream": c.stream,
		"original_id":     msg.ID,
		"failed_at":       time.Now().UTC().Format(time.RFC3339),
		"error":           cause.Error(),
	}
	for k, v := range msg.Values {
		values["original_"+k] = v
	}

	dlq := "dlq:" + c.stream
	if err := c.client.XAdd(ctx, &redis.XAddArgs{Stream: dlq, Values: values}).Err(); err != nil {
		c.log.Error().Err(err).Str("id", msg.ID).Msg("error moving message to DLQ")
		return
	}
	if err := c.client.XAck(ctx, c.stream, c.group, msg.ID).Err(); err != nil {
		c.log.Error().Err(err).Str("id", msg.ID).Msg("error acknowledging dead-lettered message")
	}
}
