package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mkravets/userhub/internal/auth"
	"github.com/mkravets/userhub/internal/config"
	httpx "github.com/mkravets/userhub/internal/http"
	"github.com/mkravets/userhub/internal/observability"
	"github.com/mkravets/userhub/internal/store"
	"github.com/mkravets/userhub/internal/store/memory"
	"github.com/mkravets/userhub/internal/store/postgres"
	redisstore "github.com/mkravets/userhub/internal/store/redis"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	// tracing is optional; a missing collector must not block startup
	if cfg.OTLPEndpoint != "" {
		ctx, cancel := config.WithTimeout(5 * time.Second)

		shutdownTracer, err := observability.InitTracer(ctx, "userhub", cfg.OTLPEndpoint)

		cancel()

		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	prom := observability.NewProm(prometheus.DefaultRegisterer)

	// pick the account collection backend

	var (
		col  store.Collection
		ping func(ctx context.Context) error
	)

	switch cfg.StoreBackend {
	case "postgres":
		pool, err := postgres.NewPool(cfg.DBURL)

		if err != nil {
			log.Error("postgres pool failed", "err", err)
			os.Exit(1)
		}

		defer pool.Close()

		col = postgres.NewAccountsCollection(pool)
		ping = pool.Ping

	case "redis":
		rcol := redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		defer rcol.Close()

		col = rcol
		ping = rcol.Ping

	default:
		col = memory.NewAccountsCollection()
	}

	accounts := store.New(store.Instrument(col, prom))
	tokens := auth.NewManager(cfg.AuthSecret, cfg.AuthTimeout)

	router := httpx.NewRouter(log, cfg, accounts, tokens, prom, ping)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "backend", cfg.StoreBackend, "tls", cfg.TLSDir != "")

		var err error

		if cfg.TLSDir != "" {
			cert := filepath.Join(cfg.TLSDir, "server.crt")
			key := filepath.Join(cfg.TLSDir, "server.key")
			err = srv.ListenAndServeTLS(cert, key)
		} else {
			err = srv.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
