package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/localblog/internal/blog"
	"github.com/2beens/localblog/internal/config"
	"github.com/2beens/localblog/internal/db"
	"github.com/2beens/localblog/internal/errpage"
	"github.com/2beens/localblog/internal/kvstore"
	"github.com/2beens/localblog/internal/localstore"
	"github.com/2beens/localblog/internal/middleware"
	"github.com/2beens/localblog/internal/telemetry/metrics"
	"github.com/2beens/localblog/internal/telemetry/tracing"
	"github.com/2beens/localblog/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	store       *localstore.Store
	blogService *blog.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	s := &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
	}

	var extraCollectors []prometheus.Collector
	if cfg.Backend == config.BackendPostgres {
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("ping db: %w", err)
		}
		s.dbPool = dbPool

		extraCollectors = append(extraCollectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}

	s.redisClient = newRedisClient(ctx, cfg, params.RedisPassword)
	if cfg.Backend == config.BackendRedis && s.redisClient == nil {
		s.closeClients()
		return nil, errors.New("redis backend configured, but redis is not reachable")
	}

	s.promRegistry = metrics.SetupPrometheus(extraCollectors...)
	s.metricsManager = metrics.NewManager("localblog", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "localblog", s.redisClient)
	if err != nil {
		s.closeClients()
		return nil, err
	}
	s.otelShutdown = otelShutdown

	backend, err := s.newBackend(ctx)
	if err != nil {
		s.otelShutdown()
		s.closeClients()
		return nil, err
	}

	s.store = localstore.NewStore(backend, s.metricsManager)
	s.blogService = blog.NewService(s.store, s.metricsManager, cfg.CascadeDeletes)

	if cfg.SeedEnabled {
		seeded, err := localstore.SeedBlogs(ctx, s.store, localstore.SeedParams{
			Count:    cfg.SeedCount,
			RandSeed: cfg.SeedRandSeed,
		})
		if err != nil {
			log.Errorf("seed blogs: %s", err)
		} else if seeded {
			log.Infof("seeded %d sample blogs", cfg.SeedCount)
		}
	}

	return s, nil
}

// newRedisClient returns nil when redis is not configured or not reachable.
func newRedisClient(ctx context.Context, cfg *config.Config, password string) *redis.Client {
	if cfg.RedisHost == "" || cfg.RedisPort == "" {
		return nil
	}
	if cfg.Backend != config.BackendRedis && cfg.AuthRateLimitAllowedPerMin <= 0 {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: password,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
		if err := rdb.Close(); err != nil {
			log.Warnf("close redis client: %s", err)
		}
		return nil
	}
	log.Debugf("redis ping: %s", rdbStatus.Val())

	return rdb
}

func (s *Server) newBackend(ctx context.Context) (kvstore.Backend, error) {
	var backend kvstore.Backend
	switch s.config.Backend {
	case config.BackendRedis:
		backend = kvstore.NewRedisBackend(s.redisClient, s.config.Namespace)
	case config.BackendPostgres:
		pgBackend, err := kvstore.NewPostgresBackend(ctx, s.dbPool, s.config.Namespace)
		if err != nil {
			return nil, fmt.Errorf("new postgres backend: %w", err)
		}
		backend = pgBackend
	default:
		backend = kvstore.NewMemoryBackend(s.config.MemoryQuotaBytes)
	}
	log.Infof("using [%s] store backend, namespace [%s]", s.config.Backend, s.config.Namespace)

	if s.config.CacheEnabled {
		backend = kvstore.NewCachedBackend(backend, s.config.CacheSizeBytes, s.config.CacheTTLSeconds)
	}

	return kvstore.NewInstrumentedBackend(backend, s.metricsManager.HistogramStoreOpDuration), nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", s.handleRoot).Methods("GET", "OPTIONS").Name("root")
	r.HandleFunc("/version", s.handleVersion).Methods("GET").Name("version")

	var authMiddlewares []mux.MiddlewareFunc
	if s.redisClient != nil && s.config.AuthRateLimitAllowedPerMin > 0 {
		authMiddlewares = append(authMiddlewares, middleware.RateLimit(
			redis_rate.NewLimiter(s.redisClient),
			"auth",
			s.config.AuthRateLimitAllowedPerMin,
			s.metricsManager,
		))
	} else {
		log.Debugln("auth routes are not rate limited")
	}

	blogHandler := blog.NewHandler(s.blogService, s.config.Debug)
	blogHandler.SetupRoutes(r, authMiddlewares...)

	// also sets the not found and method not allowed handlers
	errPageHandler := errpage.NewHandler(s.config.Debug)
	errPageHandler.SetupRoutes(r)

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.blogService)

	r.Use(middleware.PanicRecovery(s.metricsManager, s.config.Debug))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins...))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, s.versionInfo)
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	s.closeClients()

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

// closeClients closes the redis client and the db pool, the backends do not own them.
func (s *Server) closeClients() {
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
		s.redisClient = nil
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		s.dbPool = nil
		log.Debugln("db pool closed")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed, http.StateHijacked:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
