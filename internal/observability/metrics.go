package observability

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/hirebridge-backend/internal/platform/envutil"
	"github.com/yungbote/hirebridge-backend/internal/platform/logger"
)

const namespace = "hirebridge"

type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	replications       *prometheus.CounterVec
	replicationLatency *prometheus.HistogramVec
	submissions        *prometheus.CounterVec
	resumeUploads      *prometheus.CounterVec
	storageBootstrap   *prometheus.CounterVec

	pgStats *prometheus.GaugeVec
	redisUp prometheus.Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Current returns the process-wide instance, or nil before Init. All methods
// are safe on a nil receiver.
func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		instance = New(prometheus.NewRegistry())
		if log != nil {
			log.Info("metrics initialized")
		}
	})
	return instance
}

// New registers the collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "api_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "api_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "api_inflight_requests",
			Help: "HTTP requests currently being served.",
		}),
		replications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "resume_replications_total",
			Help: "Resume replication attempts by outcome.",
		}, []string{"outcome"}),
		replicationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "resume_replication_duration_seconds",
			Help:    "Resume replication latency (fetch plus store).",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"outcome"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "application_submissions_total",
			Help: "Application submissions by outcome.",
		}, []string{"outcome"}),
		resumeUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "resume_uploads_total",
			Help: "Profile resume uploads by outcome.",
		}, []string{"outcome"}),
		storageBootstrap: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "object_storage_bootstrap_total",
			Help: "Object storage provider bootstrap attempts.",
		}, []string{"mode", "status", "code"}),
		pgStats: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "postgres_pool",
			Help: "database/sql pool statistics.",
		}, []string{"stat"}),
		redisUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "redis_up",
			Help: "1 when the last Redis ping succeeded.",
		}),
	}
	reg.MustRegister(
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.replications, m.replicationLatency, m.submissions, m.resumeUploads,
		m.storageBootstrap, m.pgStats, m.redisUp,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, log *logger.Logger, addr string) error {
	addr = strings.TrimSpace(addr)
	if m == nil || addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	if log != nil {
		log.Info("metrics server listening", "addr", addr)
	}
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveReplication(outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.replications.WithLabelValues(outcome).Inc()
	m.replicationLatency.WithLabelValues(outcome).Observe(dur.Seconds())
}

func (m *Metrics) IncSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncResumeUpload(outcome string) {
	if m == nil {
		return
	}
	m.resumeUploads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncStorageBootstrap(mode, status, code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "none"
	}
	m.storageBootstrap.WithLabelValues(mode, status, code).Inc()
}

func scrapeInterval() time.Duration {
	d := envutil.Duration("METRICS_SCRAPE_INTERVAL", 15*time.Second)
	if d < time.Second {
		return time.Second
	}
	return d
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(scrapeInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: postgres stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.pgStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.pgStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.pgStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.pgStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.pgStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
				m.pgStats.WithLabelValues("max_open_connections").Set(float64(stats.MaxOpenConnections))
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *goredis.Client) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(scrapeInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
			}
		}
	}()
}

// StatusLabel renders an HTTP status for metric labels.
func StatusLabel(code int) string {
	if code <= 0 {
		return "0"
	}
	return strconv.Itoa(code)
}
