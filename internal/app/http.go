package app

import (
	"gorm.io/gorm"

	apphttp "github.com/yungbote/hirebridge-backend/internal/http"
	httpH "github.com/yungbote/hirebridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/hirebridge-backend/internal/http/middleware"
	"github.com/yungbote/hirebridge-backend/internal/observability"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	Auth        *httpH.AuthHandler
	Candidate   *httpH.CandidateHandler
	HR          *httpH.HRHandler
	Replication *httpH.ReplicationHandler
	Matcher     *httpH.MatcherHandler
}

type Middleware struct {
	Auth               *httpMW.AuthMiddleware
	ReplicationLimiter *httpMW.RateLimiter
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	var pinger httpH.Pinger
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			pinger = sqlDB
		}
	}
	return Handlers{
		Health:      httpH.NewHealthHandler(pinger),
		Auth:        httpH.NewAuthHandler(services.Auth, services.User),
		Candidate:   httpH.NewCandidateHandler(services.Profile, services.Job, services.Application),
		HR:          httpH.NewHRHandler(log, services.Job, services.Application),
		Replication: httpH.NewReplicationHandler(services.Application),
		Matcher:     httpH.NewMatcherHandler(services.Application),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:               httpMW.NewAuthMiddleware(log, services.Auth),
		ReplicationLimiter: httpMW.NewRateLimiter(cfg.ReplicationRateLimit, cfg.ReplicationRateBurst),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *apphttp.Server {
	return apphttp.NewServer(log, apphttp.RouterConfig{
		Log:                log,
		Metrics:            metrics,
		ServiceName:        "hirebridge-api",
		CORSOrigins:        cfg.CORSAllowedOrigins,
		AuthMiddleware:     middleware.Auth,
		ReplicationLimiter: middleware.ReplicationLimiter,
		MatcherAPIKey:      cfg.MatcherAPIKey,

		HealthHandler:      handlers.Health,
		AuthHandler:        handlers.Auth,
		CandidateHandler:   handlers.Candidate,
		HRHandler:          handlers.HR,
		ReplicationHandler: handlers.Replication,
		MatcherHandler:     handlers.Matcher,
	})
}
