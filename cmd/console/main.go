package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"nexuscomply/internal/backend"
	"nexuscomply/internal/console"
	licensemetrics "nexuscomply/internal/license/metrics"
	"nexuscomply/internal/license/query"
	"nexuscomply/internal/platform/config"
	"nexuscomply/internal/platform/health"
	"nexuscomply/internal/platform/logger"
	"nexuscomply/internal/platform/metrics"
	"nexuscomply/internal/platform/tracer"
	"nexuscomply/internal/session/service"
	"nexuscomply/internal/session/store"
	"nexuscomply/pkg/platform/circuit"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)

	log.Info("initializing nexuscomply console",
		"addr", cfg.Console.Addr,
		"backend", cfg.Backend.BaseURL,
		"session_dir", cfg.Session.Dir,
		"sealed_slots", cfg.Session.SealKey != "",
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	breaker := circuit.New("backend",
		circuit.WithFailureThreshold(cfg.Backend.BreakerThreshold),
		circuit.WithCooldown(cfg.Backend.BreakerCooldown),
	)
	client := backend.New(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithRateLimit(cfg.Backend.RPS, cfg.Backend.Burst),
		backend.WithBreaker(breaker),
		backend.WithTracer(tracer.NewOTel(tracer.WithBackendURL(cfg.Backend.BaseURL))),
		backend.WithMetrics(backend.NewMetrics(reg)),
		backend.WithLogger(log),
	)

	key, err := cfg.Session.Key()
	if err != nil {
		log.Error("invalid session seal key", "error", err)
		os.Exit(1)
	}
	session := service.NewService(client, store.NewFileSlots(cfg.Session.Dir, key),
		service.WithLogger(log),
		service.WithMetrics(service.NewMetrics(reg)),
	)
	client.SetTokenSource(session)
	client.SetUnauthorizedHook(session.Invalidate)

	if err := session.Restore(context.Background()); err != nil {
		log.Warn("could not restore previous session", "error", err)
	}

	licMetrics := licensemetrics.New(reg)
	catalog := query.NewCatalog(client,
		query.WithLogger(log),
		query.WithMetrics(licMetrics),
		query.WithPageSize(cfg.Console.PageSize),
	)

	probes := health.New(cfg.Backend.BaseURL)
	probes.RegisterCheck("backend_circuit", func(context.Context) error {
		if breaker.State() == circuit.StateOpen {
			return errors.New("circuit open")
		}
		return nil
	})

	srv := &http.Server{
		Addr: cfg.Console.Addr,
		Handler: console.New(session, catalog,
			console.WithLogger(log),
			console.WithMetrics(metrics.New(reg), reg),
			console.WithLicenseMetrics(licMetrics),
			console.WithHealth(probes),
			console.WithRequestTimeout(cfg.Console.RequestTimeout),
		).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Console.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Console.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
