package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"streakTrackerAPI/handlers"
	"streakTrackerAPI/internal/auth"
	"streakTrackerAPI/internal/cache"
	"streakTrackerAPI/internal/config"
	"streakTrackerAPI/internal/events"
	"streakTrackerAPI/internal/store"
	"streakTrackerAPI/internal/streak"
	"streakTrackerAPI/middleware"
	"streakTrackerAPI/services"
	"streakTrackerAPI/utils"

	_ "net/http/pprof"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	utils.SetupLogger(cfg.LogLevel, cfg.LogPretty)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.MigrateOnStart {
		if err := store.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Msg("Database migrations applied")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse database URL")
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create connection pool")
	}
	defer func() {
		log.Info().Msg("Closing database connection pool...")
		dbPool.Close()
	}()

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Successfully connected to database")

	db := store.NewPostgresStore(dbPool)

	engine := streak.NewEngine(cfg.Location(), cfg.GapPolicy())
	log.Info().Str("timezone", cfg.Location().String()).Str("gap_policy", string(cfg.GapPolicy())).Msg("Streak engine configured")

	var streakCache cache.StreakCache = cache.NoopCache{}
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.StreakCacheTTL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, streak cache disabled")
		} else {
			defer redisCache.Close()
			streakCache = redisCache
			log.Info().Msg("Redis streak cache enabled")
		}
	}

	var publisher events.Publisher = events.LogPublisher{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		publisher = events.NewKafkaPublisher(brokers, cfg.KafkaTopic)
		log.Info().Strs("brokers", brokers).Str("topic", cfg.KafkaTopic).Msg("Kafka event publisher enabled")
	}
	dispatcher := services.NewEventDispatcher(publisher, cfg.EventWorkers, 256)
	defer dispatcher.Close()

	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)

	userService := services.NewUserService(db, tokens)
	streakService := services.NewStreakService(db, engine, streakCache, dispatcher)
	taskService := services.NewTaskService(db)

	authHandler := handlers.NewAuthHandler(userService)
	streakHandler := handlers.NewStreakHandler(streakService)
	taskHandler := handlers.NewTaskHandler(taskService)

	middleware.InitPrometheus(prometheus.DefaultRegisterer)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.CleanupVisitors(rootCtx)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.MonitorMiddleware)
	r.Use(limiter.Middleware)

	handlers.NewRootHandler(db).RegisterRoutes(r)

	if cfg.MetricsUser != "" && cfg.MetricsPass != "" {
		r.Handle("/metrics", middleware.BasicAuthMiddleware(cfg.MetricsUser, cfg.MetricsPass)(promhttp.Handler()))
	} else {
		log.Warn().Msg("METRICS_USER/METRICS_PASS not set, /metrics disabled")
	}

	if cfg.PprofSecret != "" {
		r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(cfg.PprofSecret)(http.DefaultServeMux))
	}

	api := r.PathPrefix("/api").Subrouter()

	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(tokens))

	authHandler.RegisterRoutes(api, protected)
	streakHandler.RegisterRoutes(protected)
	taskHandler.RegisterRoutes(protected)

	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)

	server := http.Server{
		Addr:         cfg.Addr(),
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Error starting server")
		}
	}()

	<-rootCtx.Done()
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Server shutdown complete")
}
