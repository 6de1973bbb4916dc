package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	types "github.com/yungbote/hirebridge-backend/internal/domain"
	httpH "github.com/yungbote/hirebridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/hirebridge-backend/internal/http/middleware"
	"github.com/yungbote/hirebridge-backend/internal/observability"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	CORSOrigins    []string
	AuthMiddleware *httpMW.AuthMiddleware
	// ReplicationLimiter throttles the public replication endpoint.
	ReplicationLimiter *httpMW.RateLimiter
	MatcherAPIKey      string

	AuthHandler        *httpH.AuthHandler
	CandidateHandler   *httpH.CandidateHandler
	HRHandler          *httpH.HRHandler
	ReplicationHandler *httpH.ReplicationHandler
	MatcherHandler     *httpH.MatcherHandler
	HealthHandler      *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
			protected.GET("/me", cfg.AuthHandler.Me)
		}

		// Resume replication
		if cfg.ReplicationHandler != nil {
			chain := []gin.HandlerFunc{httpMW.RequireRole(types.UserTypeCandidate)}
			if cfg.ReplicationLimiter != nil {
				chain = append(chain, cfg.ReplicationLimiter.Handler())
			}
			chain = append(chain, cfg.ReplicationHandler.Download)
			protected.POST("/resume/download", chain...)
		}
	}

	candidate := protected.Group("/candidate")
	candidate.Use(httpMW.RequireRole(types.UserTypeCandidate))
	if cfg.CandidateHandler != nil {
		candidate.GET("/profile", cfg.CandidateHandler.GetProfile)
		candidate.PUT("/profile", cfg.CandidateHandler.SaveProfile)
		candidate.POST("/resume", cfg.CandidateHandler.UploadResume)
		candidate.GET("/jobs", cfg.CandidateHandler.ListJobs)
		candidate.GET("/applications/job-ids", cfg.CandidateHandler.AppliedJobIDs)
		candidate.POST("/jobs/:id/apply", cfg.CandidateHandler.Apply)
	}

	hr := protected.Group("/hr")
	hr.Use(httpMW.RequireRole(types.UserTypeHR))
	if cfg.HRHandler != nil {
		hr.POST("/jobs", cfg.HRHandler.CreateJob)
		hr.GET("/jobs", cfg.HRHandler.ListJobs)
		hr.PATCH("/jobs/:id/active", cfg.HRHandler.SetJobActive)
		hr.GET("/jobs/:id/applications", cfg.HRHandler.ListApplications)
		hr.PATCH("/applications/:id/status", cfg.HRHandler.UpdateApplicationStatus)
		hr.GET("/applications/:id/resume", cfg.HRHandler.DownloadResume)
	}

	// Match-score intake
	if cfg.MatcherHandler != nil {
		internal := r.Group("/internal", httpMW.RequireMatcherKey(cfg.MatcherAPIKey))
		internal.GET("/applications/unscored", cfg.MatcherHandler.ListUnscored)
		internal.PUT("/applications/:id/match", cfg.MatcherHandler.SetMatch)
	}

	return r
}
