package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const loginFailuresKeyPrefix = "login_failures:"

// LoginThrottle limits repeated failed signins per username.
// Store errors never block a signin.
type LoginThrottle interface {
	Allow(ctx context.Context, username string) bool
	RecordFailure(ctx context.Context, username string)
	Reset(ctx context.Context, username string)
}

type redisThrottle struct {
	client      *redis.Client
	maxAttempts int64
	lockout     time.Duration
	log         logrus.FieldLogger
}

// NewRedisLoginThrottle creates a LoginThrottle that counts failures in Redis.
// A username is blocked once maxAttempts failures occur within lockout.
func NewRedisLoginThrottle(client *redis.Client, maxAttempts int, lockout time.Duration, log logrus.FieldLogger) LoginThrottle {
	return &redisThrottle{
		client:      client,
		maxAttempts: int64(maxAttempts),
		lockout:     lockout,
		log:         log,
	}
}

func loginFailuresKey(username string) string {
	return fmt.Sprintf("%s%s", loginFailuresKeyPrefix, username)
}

func (t *redisThrottle) Allow(ctx context.Context, username string) bool {
	count, err := t.client.Get(ctx, loginFailuresKey(username)).Int64()
	if errors.Is(err, redis.Nil) {
		return true
	}
	if err != nil {
		t.log.WithError(err).Warn("login throttle unavailable, allowing signin")
		return true
	}
	return count < t.maxAttempts
}

func (t *redisThrottle) RecordFailure(ctx context.Context, username string) {
	key := loginFailuresKey(username)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		t.log.WithError(err).Warn("failed to record signin failure")
		return
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.lockout).Err(); err != nil {
			t.log.WithError(err).Warn("failed to set signin failure window")
		}
	}
}

func (t *redisThrottle) Reset(ctx context.Context, username string) {
	if err := t.client.Del(ctx, loginFailuresKey(username)).Err(); err != nil {
		t.log.WithError(err).Warn("failed to reset signin failures")
	}
}

type noopThrottle struct{}

// NewNoopLoginThrottle returns a LoginThrottle that never blocks.
func NewNoopLoginThrottle() LoginThrottle {
	return noopThrottle{}
}

func (noopThrottle) Allow(context.Context, string) bool { return true }

func (noopThrottle) RecordFailure(context.Context, string) {}

func (noopThrottle) Reset(context.Context, string) {}
