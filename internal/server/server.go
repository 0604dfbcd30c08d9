package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"CampusHire-backend/internal/auth"
	"CampusHire-backend/internal/config"
	"CampusHire-backend/internal/database"
	"CampusHire-backend/internal/jobboard"
	"CampusHire-backend/internal/metrics"
	"CampusHire-backend/internal/middleware"
	"CampusHire-backend/internal/repository"
)

// MyServer holds every dependency the HTTP handlers need
type MyServer struct {
	Config    config.Config
	DB        *database.DBinstanceStruct
	Redis     *redis.Client
	Service   *jobboard.Service
	Tokens    *auth.TokenManager
	Blacklist auth.JwtBlacklistStore
	RateStore ratelimit.Store
	Attempts  *auth.AttemptLogger
	Metrics   *metrics.Recorder
	Registry  *prometheus.Registry
	Log       *logrus.Logger
}

// New opens the database described by cfg and builds the server on top of it
func New(cfg config.Config, log *logrus.Logger) (*MyServer, error) {
	db, err := database.NewDBInstance(database.NewDBConfig(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("database failed to initialize: %w", err)
	}

	s, err := NewWithDB(cfg, db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB builds the server around an already opened database
func NewWithDB(cfg config.Config, db *database.DBinstanceStruct, log *logrus.Logger) (*MyServer, error) {
	s := &MyServer{
		Config:   cfg,
		DB:       db,
		Tokens:   auth.NewTokenManager(cfg.Auth),
		Registry: prometheus.NewRegistry(),
		Log:      log,
	}

	if cfg.Auth.BlacklistBackend == config.BackendRedis || cfg.RateLimit.Backend == config.BackendRedis {
		client, err := newRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		s.Redis = client
	}

	if cfg.Auth.BlacklistBackend == config.BackendRedis {
		s.Blacklist = auth.NewRedisBlacklistStore(s.Redis)
	} else {
		s.Blacklist = auth.NewInMemoryBlacklistStore()
	}
	s.RateStore = middleware.NewRateLimitStore(cfg.RateLimit, s.Redis)

	attempts, err := auth.NewAttemptLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to open auth log: %w", err)
	}
	s.Attempts = attempts

	s.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metrics.NewRecorder(s.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	s.Metrics = recorder

	policy, err := jobboard.PolicyByName(cfg.ApplicationStatusPolicy)
	if err != nil {
		return nil, err
	}
	s.Service = jobboard.NewService(
		repository.NewGormRepository(db.DB),
		jobboard.WithPolicy(policy),
		jobboard.WithRecorder(recorder),
		jobboard.WithLogger(log),
	)

	return s, nil
}

func newRedisClient(cfg config.Redis) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// HTTPServer returns the http.Server serving the API on the configured port
func (s *MyServer) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Config.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Close releases the database and redis connections and the auth log file
func (s *MyServer) Close() error {
	var errs []error
	if s.Attempts != nil {
		errs = append(errs, s.Attempts.Close())
	}
	if s.Redis != nil {
		errs = append(errs, s.Redis.Close())
	}
	if s.DB != nil {
		errs = append(errs, s.DB.Close())
	}
	return errors.Join(errs...)
}
