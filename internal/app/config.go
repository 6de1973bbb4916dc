package app

import (
	"strings"
	"time"

	"github.com/yungbote/hirebridge-backend/internal/platform/envutil"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
)

const (
	AuthProviderLocal    = "local"
	AuthProviderSupabase = "supabase"
)

type Config struct {
	Port        string
	LogMode     string
	Environment string
	Version     string

	AuthProvider    string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string
	SupabaseJWTSecret  string

	ObjectStorageMode   string
	StorageEmulatorHost string

	RedisAddr          string
	RedisPassword      string
	SubmissionGuardTTL time.Duration

	ReplicationEndpointURL  string
	ReplicationFetchTimeout time.Duration
	ReplicationMaxBytes     int64
	// ReplicationRateLimit is requests per minute per caller.
	ReplicationRateLimit int
	ReplicationRateBurst int

	MatcherAPIKey string

	MetricsEnabled bool
	MetricsAddr    string

	CORSAllowedOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		LogMode:     envutil.String("LOG_MODE", "development"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),

		AuthProvider:    strings.ToLower(envutil.String("AUTH_PROVIDER", AuthProviderLocal)),
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", ""),
		AccessTokenTTL:  envutil.Duration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: envutil.Duration("REFRESH_TOKEN_TTL", 24*time.Hour),

		SupabaseURL:        envutil.String("SUPABASE_URL", ""),
		SupabaseAnonKey:    envutil.String("SUPABASE_ANON_KEY", ""),
		SupabaseServiceKey: envutil.String("SUPABASE_SERVICE_KEY", ""),
		SupabaseJWTSecret:  envutil.String("SUPABASE_JWT_SECRET", ""),

		ObjectStorageMode:   envutil.String("OBJECT_STORAGE_MODE", ""),
		StorageEmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", ""),

		RedisAddr:          envutil.String("REDIS_ADDR", ""),
		RedisPassword:      envutil.String("REDIS_PASSWORD", ""),
		SubmissionGuardTTL: envutil.Duration("SUBMISSION_GUARD_TTL", 2*time.Minute),

		ReplicationEndpointURL:  envutil.String("REPLICATION_ENDPOINT_URL", ""),
		ReplicationFetchTimeout: envutil.Duration("REPLICATION_FETCH_TIMEOUT", 60*time.Second),
		ReplicationMaxBytes:     int64(envutil.Int("REPLICATION_MAX_BYTES", 20<<20)),
		ReplicationRateLimit:    envutil.Int("REPLICATION_RATE_LIMIT", 30),
		ReplicationRateBurst:    envutil.Int("REPLICATION_RATE_BURST", 5),

		MatcherAPIKey: envutil.String("MATCHER_API_KEY", ""),

		MetricsEnabled: envutil.Bool("METRICS_ENABLED", false),
		MetricsAddr:    envutil.String("METRICS_ADDR", ":9090"),

		CORSAllowedOrigins: envutil.CSV("CORS_ALLOWED_ORIGINS", nil),
	}
	if cfg.AuthProvider == AuthProviderLocal && cfg.JWTSecretKey == "" {
		cfg.JWTSecretKey = "defaultsecret"
		if log != nil {
			log.Warn("JWT_SECRET_KEY not set, using insecure default")
		}
	}
	return cfg
}
