package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"complio/internal/alerts"
	alerthandler "complio/internal/alerts/handler"
	"complio/internal/audit"
	authhandler "complio/internal/auth/handler"
	authservice "complio/internal/auth/service"
	"complio/internal/auth/store/revocation"
	credhandler "complio/internal/credential/handler"
	credmetrics "complio/internal/credential/metrics"
	credservice "complio/internal/credential/service"
	credstore "complio/internal/credential/store"
	"complio/internal/directory"
	"complio/internal/jwttoken"
	"complio/internal/platform/config"
	"complio/internal/platform/database"
	"complio/internal/platform/httpserver"
	"complio/internal/platform/logger"
	"complio/internal/platform/metrics"
	"complio/internal/platform/middleware"
	platformredis "complio/internal/platform/redis"
	"complio/internal/rules"
	rulehandler "complio/internal/rules/handler"
	"complio/pkg/platform/httputil"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	var (
		credentials credstore.Store
		users       directory.Store
		ruleStore   rules.Store
		alertStore  alerts.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			fatal(log, "database connection failed", err)
		}
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			fatal(log, "schema setup failed", err)
		}
		credentials = credstore.NewPostgres(db)
		users = directory.NewPostgres(db)
		ruleStore = rules.NewPostgresStore(db)
		alertStore = alerts.NewPostgresStore(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		credentials = credstore.NewInMemory()
		users = directory.NewInMemoryStore()
		ruleStore = rules.NewInMemoryStore()
		alertStore = alerts.NewInMemoryStore()
	}

	if cfg.SeedSampleData {
		if err := directory.Seed(ctx, users, directory.DefaultSeedUsers()); err != nil {
			fatal(log, "directory seed failed", err)
		}
		if err := rules.Seed(ctx, ruleStore); err != nil {
			fatal(log, "rules seed failed", err)
		}
	}

	var trl revocation.TokenRevocationList
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		fatal(log, "redis connection failed", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		trl = revocation.NewRedisTRL(redisClient.Client)
	} else {
		log.Warn("REDIS_URL not set, using in-memory token revocation list")
		trl = revocation.NewMemoryTRL()
	}

	var auditSink audit.Publisher = audit.NewMemorySink()
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := audit.NewKafkaPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			fatal(log, "kafka audit publisher setup failed", err)
		}
		defer kafkaPublisher.Close()
		auditSink = kafkaPublisher
	}

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, "complio", "complio-api")
	platformMetrics := metrics.New()
	credentialSvc := credservice.New(credentials, users, log,
		credservice.WithMetrics(credmetrics.New()),
		credservice.WithAuditPublisher(auditSink),
	)
	authSvc := authservice.New(users, tokens, trl, cfg.TokenTTL, log,
		authservice.WithAuditPublisher(auditSink),
	)
	ruleSvc := rules.NewService(ruleStore, log)
	alertSvc := alerts.NewService(alertStore, log)

	credentialHandler := credhandler.New(credentialSvc, log)
	authHandler := authhandler.New(authSvc, log)
	ruleHandler := rulehandler.New(ruleSvc, log)
	alertHandler := alerthandler.New(alertSvc, log)
	validator := authservice.NewTokenValidator(tokens)

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.Latency(platformMetrics))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api", func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		authHandler.RegisterPublic(api)
		api.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireAuth(validator, trl, log))
			authHandler.RegisterProtected(protected)
			credentialHandler.Register(protected)
			ruleHandler.Register(protected)
			alertHandler.Register(protected)
		})
	})

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting complio", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fatal(log, "graceful shutdown failed", err)
	}
	log.Info("server stopped")
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
