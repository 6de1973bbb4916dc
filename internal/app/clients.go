package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/hirebridge-backend/internal/observability"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
	"github.com/yungbote/hirebridge-backend/internal/platform/objectstore"
	"github.com/yungbote/hirebridge-backend/internal/platform/supabase"
)

type Clients struct {
	Redis    *goredis.Client
	Supabase *supabase.Client
	Bucket   objectstore.BucketService
}

func needsSupabase(cfg Config) bool {
	return cfg.AuthProvider == AuthProviderSupabase || objectstore.Mode(cfg.ObjectStorageMode) == objectstore.ModeSupabase
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis
	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			// The submission guard fails open, so an unreachable Redis is not fatal.
			log.Warn("redis ping failed", "addr", cfg.RedisAddr, "error", err)
		}
		out.Redis = rdb
	}

	// Supabase
	if needsSupabase(cfg) {
		client, err := supabase.New(supabase.Config{
			URL:        cfg.SupabaseURL,
			AnonKey:    cfg.SupabaseAnonKey,
			ServiceKey: cfg.SupabaseServiceKey,
			JWTSecret:  cfg.SupabaseJWTSecret,
			HTTPClient: &http.Client{
				Timeout:   30 * time.Second,
				Transport: observability.NewHTTPTransport(nil),
			},
		})
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init supabase client: %w", err)
		}
		out.Supabase = client
	}

	// Object storage
	bucket, err := resolveBucketService(log, cfg, out.Supabase, metrics)
	if err != nil {
		out.Close()
		return Clients{}, err
	}
	out.Bucket = bucket
	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
