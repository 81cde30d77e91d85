// Command server runs the sanad community administration service: the
// conversation engine behind an HTTP event API, with postgres records and
// redis sessions when configured, in-memory fallbacks otherwise.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sanad/internal/admission"
	"sanad/internal/broadcast"
	"sanad/internal/engine"
	"sanad/internal/guard"
	"sanad/internal/importer"
	"sanad/internal/platform/config"
	"sanad/internal/platform/httpserver"
	"sanad/internal/platform/logger"
	"sanad/internal/platform/metrics"
	platformredis "sanad/internal/platform/redis"
	"sanad/internal/sessions"
	"sanad/internal/store"
	"sanad/internal/store/memory"
	"sanad/internal/store/postgres"
	"sanad/internal/transport"
	httptransport "sanad/internal/transport/http"
)

const outboxCap = 256

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	ctx := context.Background()

	m := metrics.New()

	var (
		stores store.Stores
		db     *sql.DB
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Error("open postgres", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("ensure schema", "error", err.Error())
			os.Exit(1)
		}
		stores = postgres.New(db)
		log.Info("record store ready", "backend", "postgres")
	} else {
		stores = memory.New()
		log.Warn("record store ready", "backend", "memory", "durable", false)
	}

	var sessionStore sessions.Store
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sessionStore = sessions.NewRedisStore(redisClient.Client, sessions.WithTTL(cfg.SessionTTL))
		log.Info("session store ready", "backend", "redis")
	} else {
		sessionStore = sessions.NewInMemoryStore()
		log.Warn("session store ready", "backend", "memory", "durable", false)
	}

	g := guard.New(cfg.RootUser, cfg.RootPass, stores.Assistants)
	validator := admission.New(stores)
	committer := importer.NewCommitter(stores)

	outbox := transport.NewOutbox(outboxCap)
	dispatcher := broadcast.New(stores.Subscribers, outbox, log,
		broadcast.WithConcurrency(cfg.BroadcastConcurrency),
		broadcast.WithMetrics(m),
	)

	eng := engine.New(stores, sessionStore, g, validator, committer, dispatcher, log,
		engine.WithMetrics(m),
	)

	handler := httptransport.New(eng, outbox, log)
	if db != nil {
		handler.AddHealthCheck("postgres", dbChecker{db})
	}
	if redisClient != nil {
		handler.AddHealthCheck("redis", redisClient)
	}

	srv := httpserver.New(cfg.Addr, handler.Router())

	log.Info("starting sanad", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("stopped")
}

type dbChecker struct {
	db *sql.DB
}

func (c dbChecker) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
