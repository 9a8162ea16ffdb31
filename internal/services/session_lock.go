package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrSessionBusy = errors.New("interview session already in progress")

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// SessionLocker allows one live connection per interview.
type SessionLocker interface {
	Acquire(ctx context.Context, interviewID uuid.UUID) (release func(), err error)
}

type redisSessionLock struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewSessionLocker(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) SessionLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisSessionLock{rdb: rdb, ttl: ttl, logger: logger}
}

// Acquire takes the lock and keeps it alive until release is called.
func (l *redisSessionLock) Acquire(ctx context.Context, interviewID uuid.UUID) (func(), error) {
	key := "interview:live:" + interviewID.String()
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !ok {
		return nil, ErrSessionBusy
	}

	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(l.ttl / 3)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				err := refreshScript.Run(context.Background(), l.rdb, []string{key}, token, l.ttl.Milliseconds()).Err()
				if err != nil {
					l.logger.Warn("Failed to refresh session lock", zap.String("interview_id", interviewID.String()), zap.Error(err))
				}
			}
		}
	}()

	var once sync.Once
	release := func() {
		once.Do(func() {
			close(stop)
			<-done

			if err := releaseScript.Run(context.Background(), l.rdb, []string{key}, token).Err(); err != nil {
				l.logger.Warn("Failed to release session lock", zap.String("interview_id", interviewID.String()), zap.Error(err))
			}
		})
	}

	return release, nil
}
