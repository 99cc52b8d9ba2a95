// Package ratelimit throttles per-user actions with a Redis INCR + EXPIRE
// fixed window.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Rule is a key prefix plus the number of requests allowed per window.
type Rule struct {
	Name   string
	Key    string
	Limit  int
	Window time.Duration
}

// LikeRule builds the rule applied to POST /likes.
func LikeRule(limit int, window time.Duration) Rule {
	return Rule{Name: "like", Key: "rl:like:", Limit: limit, Window: window}
}

// Limiter checks counters in Redis. It fails open: a Redis outage never
// blocks a request.
type Limiter struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewLimiter(client *redis.Client, log zerolog.Logger) *Limiter {
	return &Limiter{client: client, log: log}
}

// Allow increments the counter for identifier and reports whether it is
// still within rule.Limit. On Redis errors it returns true with the error.
func (l *Limiter) Allow(ctx context.Context, identifier string, rule Rule) (bool, error) {
	key := rule.Key + identifier

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("rate limit INCR failed, failing open")
		return true, err
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, rule.Window).Err(); err != nil {
			l.log.Warn().Err(err).Str("key", key).Msg("rate limit EXPIRE failed, failing open")
			// a key without TTL would block the identifier forever
			l.client.Del(ctx, key)
			return true, err
		}
	}

	return int(count) <= rule.Limit, nil
}

// Remaining returns how many requests identifier has left in the current
// window. Missing keys and Redis errors report the full limit.
func (l *Limiter) Remaining(ctx context.Context, identifier string, rule Rule) (int, error) {
	key := rule.Key + identifier

	count, err := l.client.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return rule.Limit, nil
	}
	if err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("rate limit GET failed, failing open")
		return rule.Limit, err
	}

	return max(rule.Limit-count, 0), nil
}
