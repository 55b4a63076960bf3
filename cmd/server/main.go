package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"curator/internal/capability"
	capmetrics "curator/internal/capability/metrics"
	"curator/internal/capability/rolestore"
	"curator/internal/content"
	"curator/internal/events"
	jwttoken "curator/internal/jwt_token"
	"curator/internal/moderation"
	"curator/internal/moderation/handler"
	modmetrics "curator/internal/moderation/metrics"
	"curator/internal/platform/config"
	"curator/internal/platform/httpserver"
	"curator/internal/platform/logger"
	httpmetrics "curator/internal/platform/metrics"
	platformredis "curator/internal/platform/redis"
	"curator/internal/queue"
	"curator/internal/reputation"
	"curator/pkg/platform/tx"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	var (
		db         *sql.DB
		runner     tx.Runner
		repStore   reputation.Store
		queueStore queue.Store
		contentSt  content.Store
		roleStore  capability.RoleStore
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database failed", "error", err)
			os.Exit(1)
		}
		if err := db.PingContext(ctx); err != nil {
			log.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		runner = tx.NewSQLRunner(db)
		repStore = reputation.NewPostgresStore(db)
		queueStore = queue.NewPostgresStore(db)
		contentSt = content.NewPostgresStore(db)
		roleStore = rolestore.NewPostgresStore(db, log)
	} else {
		log.Warn("DATABASE_URL not set, running with in-memory stores")
		runner = tx.NewMemoryRunner()
		repStore = reputation.NewInMemoryStore()
		queueStore = queue.NewInMemoryStore()
		contentSt = content.NewInMemoryStore()
		roleStore = rolestore.NewInMemoryStore()
	}

	sink := buildSink(ctx, cfg, log)

	repSvc := reputation.NewService(repStore, log)
	contentSync := content.NewSynchronizer(contentSt)
	evaluator := capability.NewEvaluator(roleStore, contentSync, repSvc, log, capmetrics.New())
	repSvc.RegisterInvalidator(evaluator)
	queueSvc := queue.NewService(queueStore)
	modSvc := moderation.NewService(evaluator, queueStore, contentSync, runner, sink, log, modmetrics.New())

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "curator")
	h := handler.New(queueSvc, modSvc, evaluator, jwtService, log, httpmetrics.New())

	router := chi.NewRouter()
	h.Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting curator", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if closer, ok := sink.(interface{ Close(context.Context) error }); ok {
		if err := closer.Close(shutdownCtx); err != nil {
			log.Warn("event sink close failed", "error", err)
		}
	}
}

// buildSink assembles the verdict sink from configuration. With neither Kafka
// nor Redis configured, verdicts stay in process memory (development mode).
func buildSink(ctx context.Context, cfg config.Server, log *slog.Logger) events.Sink {
	var sinks []events.Sink

	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := events.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("kafka sink init failed", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, kafkaSink)
	}

	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		sinks = append(sinks, events.NewRedisSink(redisClient.Client, cfg.Redis.Channel, log))
	}

	switch len(sinks) {
	case 0:
		log.Warn("no event sink configured, verdicts stay in process memory")
		return events.NewInMemorySink()
	case 1:
		return sinks[0]
	default:
		return events.NewMultiSink(sinks...)
	}
}
