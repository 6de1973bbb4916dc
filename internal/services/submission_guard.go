package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
)

// SubmissionGuard rejects a second concurrent submission for the same
// candidate and job. It is best-effort; the unique index is authoritative.
type SubmissionGuard interface {
	// Acquire reports whether the caller holds the slot. release is never nil.
	Acquire(ctx context.Context, candidateID, jobID uuid.UUID) (release func(), ok bool)
}

func submissionKey(candidateID, jobID uuid.UUID) string {
	return "hirebridge:submit:" + candidateID.String() + ":" + jobID.String()
}

// releaseScript deletes the key only while it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisSubmissionGuard struct {
	log *logger.Logger
	rdb goredis.UniversalClient
	ttl time.Duration
}

func NewRedisSubmissionGuard(log *logger.Logger, rdb goredis.UniversalClient, ttl time.Duration) SubmissionGuard {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &redisSubmissionGuard{log: log.With("service", "SubmissionGuard"), rdb: rdb, ttl: ttl}
}

func (g *redisSubmissionGuard) Acquire(ctx context.Context, candidateID, jobID uuid.UUID) (func(), bool) {
	key := submissionKey(candidateID, jobID)
	token := uuid.NewString()
	ok, err := g.rdb.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		// Redis outages must not block submissions.
		g.log.Warn("submission guard unavailable", "error", err)
		return func() {}, true
	}
	if !ok {
		return func() {}, false
	}
	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, g.rdb, []string{key}, token).Err(); err != nil && !errors.Is(err, goredis.Nil) {
			g.log.Warn("submission guard release failed", "error", err)
		}
	}, true
}

type memorySubmissionGuard struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	holders map[string]time.Time
}

func NewMemorySubmissionGuard(ttl time.Duration) SubmissionGuard {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &memorySubmissionGuard{ttl: ttl, now: time.Now, holders: map[string]time.Time{}}
}

func (g *memorySubmissionGuard) Acquire(_ context.Context, candidateID, jobID uuid.UUID) (func(), bool) {
	key := submissionKey(candidateID, jobID)
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if exp, held := g.holders[key]; held && now.Before(exp) {
		return func() {}, false
	}
	exp := now.Add(g.ttl)
	g.holders[key] = exp
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if cur, ok := g.holders[key]; ok && cur.Equal(exp) {
			delete(g.holders, key)
		}
	}, true
}
