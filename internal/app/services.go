package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/hirebridge-backend/internal/observability"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
	"github.com/yungbote/hirebridge-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	User        services.UserService
	Profile     services.ProfileService
	Job         services.JobService
	Application services.ApplicationService
	Guard       services.SubmissionGuard
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	auth, err := wireAuth(db, log, cfg, reposet, clients)
	if err != nil {
		return Services{}, err
	}

	replicator := wireReplicator(log, cfg, clients, metrics)

	var guard services.SubmissionGuard
	if clients.Redis != nil {
		guard = services.NewRedisSubmissionGuard(log, clients.Redis, cfg.SubmissionGuardTTL)
	} else {
		guard = services.NewMemorySubmissionGuard(cfg.SubmissionGuardTTL)
	}

	return Services{
		Auth:    auth,
		User:    services.NewUserService(log, reposet.User),
		Profile: services.NewProfileService(db, log, reposet.CandidateProfile, reposet.Application, clients.Bucket, metrics),
		Job:     services.NewJobService(log, reposet.Job),
		Application: services.NewApplicationService(
			log,
			reposet.Job,
			reposet.Application,
			reposet.CandidateProfile,
			reposet.User,
			replicator,
			clients.Bucket,
			guard,
			metrics,
		),
		Guard: guard,
	}, nil
}

func wireAuth(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (services.AuthService, error) {
	switch cfg.AuthProvider {
	case AuthProviderSupabase:
		if clients.Supabase == nil {
			return nil, fmt.Errorf("AUTH_PROVIDER=supabase requires SUPABASE_URL and keys")
		}
		return services.NewSupabaseAuthService(log, clients.Supabase, reposet.User, cfg.AccessTokenTTL), nil
	case AuthProviderLocal, "":
		return services.NewAuthService(db, log, reposet.User, reposet.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL), nil
	default:
		return nil, fmt.Errorf("unsupported AUTH_PROVIDER %q", cfg.AuthProvider)
	}
}

// wireReplicator calls a remote replication endpoint when one is configured
// and replicates in-process otherwise. Remote replicas live in the endpoint's
// store, so failed submissions cannot clean them up from here.
func wireReplicator(log *logger.Logger, cfg Config, clients Clients, metrics *observability.Metrics) services.Replicator {
	if cfg.ReplicationEndpointURL != "" {
		log.Info("Using remote replication endpoint", "endpoint_url", cfg.ReplicationEndpointURL)
		client := &http.Client{
			Timeout:   cfg.ReplicationFetchTimeout + 10*time.Second,
			Transport: observability.NewHTTPTransport(nil),
		}
		return services.NewRemoteReplicator(log, cfg.ReplicationEndpointURL, client, metrics)
	}
	fetcher := services.NewHTTPFetcher(cfg.ReplicationFetchTimeout, cfg.ReplicationMaxBytes)
	return services.NewResumeReplicator(log, fetcher, clients.Bucket, metrics)
}

// NewReplicator wires a standalone replicator from the environment for
// one-off operational use. The returned func releases its clients.
func NewReplicator(ctx context.Context, log *logger.Logger) (services.Replicator, func(), error) {
	cfg := LoadConfig(log)
	// Only storage is needed; skip the identity provider's client.
	cfg.AuthProvider = AuthProviderLocal
	cfg.RedisAddr = ""
	clients, err := wireClients(ctx, log, cfg, nil)
	if err != nil {
		return nil, func() {}, err
	}
	return wireReplicator(log, cfg, clients, nil), clients.Close, nil
}
