package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
)

func exerciseGuard(t *testing.T, g SubmissionGuard) {
	t.Helper()
	ctx := context.Background()
	cand, job := uuid.New(), uuid.New()

	release, ok := g.Acquire(ctx, cand, job)
	if !ok {
		t.Fatalf("first Acquire: want ok")
	}
	if _, ok := g.Acquire(ctx, cand, job); ok {
		t.Fatalf("second Acquire: want rejected while held")
	}
	if rel, ok := g.Acquire(ctx, cand, uuid.New()); !ok {
		t.Fatalf("other job: want ok")
	} else {
		rel()
	}
	release()
	release2, ok := g.Acquire(ctx, cand, job)
	if !ok {
		t.Fatalf("Acquire after release: want ok")
	}
	release2()
}

func TestMemorySubmissionGuard(t *testing.T) {
	exerciseGuard(t, NewMemorySubmissionGuard(time.Minute))
}

func TestMemorySubmissionGuardExpires(t *testing.T) {
	g := NewMemorySubmissionGuard(time.Minute).(*memorySubmissionGuard)
	now := time.Now()
	g.now = func() time.Time { return now }
	cand, job := uuid.New(), uuid.New()
	if _, ok := g.Acquire(context.Background(), cand, job); !ok {
		t.Fatalf("first Acquire: want ok")
	}
	now = now.Add(2 * time.Minute)
	if _, ok := g.Acquire(context.Background(), cand, job); !ok {
		t.Fatalf("Acquire after ttl: want ok")
	}
}

func TestRedisSubmissionGuard(t *testing.T) {
	addr := os.Getenv("HB_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set HB_TEST_REDIS_ADDR to run")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	defer rdb.Close()
	exerciseGuard(t, NewRedisSubmissionGuard(logger.Nop(), rdb, time.Minute))
}

func TestRedisSubmissionGuardFailsOpen(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	g := NewRedisSubmissionGuard(logger.Nop(), rdb, time.Minute)
	release, ok := g.Acquire(context.Background(), uuid.New(), uuid.New())
	if !ok {
		t.Fatalf("Acquire with redis down: want ok (fail open)")
	}
	release()
}
