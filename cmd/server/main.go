package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"authflow/internal/auth"
	"authflow/internal/config"
	"authflow/internal/database"
	"authflow/internal/email"
	"authflow/internal/logging"
	"authflow/internal/metrics"
	"authflow/internal/server"
)

func main() {
	os.Exit(serve(nil))
}

// serve loads configuration from vars, or the environment when nil, runs
// the server and returns the process exit code. Deferred cleanup has run
// by the time it returns.
func serve(vars map[string]string) int {
	cfg, err := config.LoadFrom(vars)
	if err != nil {
		log.Printf("config error: %v", err)
		return 1
	}

	logger, logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Printf("log setup error: %v", err)
		return 1
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		return 1
	}
	return 0
}

func run(cfg config.Config, logger *slog.Logger) error {
	db, err := database.Connect(context.Background(), cfg.DatabaseURL, "authflow")
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	tokens, err := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		return err
	}

	if !cfg.Email.Enabled() {
		logger.Warn("SMTP is not configured; flows that send mail will fail")
	}
	mailer := email.NewSender(cfg.Email)

	svc := auth.NewService(
		auth.NewAccountRepository(db),
		auth.NewBcryptHasher(),
		tokens,
		mailer,
		auth.WithAuditor(&auth.AuditLogger{Redis: redisClient, MaxLen: cfg.AuditMaxLen}),
		auth.WithLogger(logger),
		auth.WithAppName(cfg.AppName),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterMetrics(reg)

	api := server.NewServer(cfg, svc, tokens, db, reg, logger)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
