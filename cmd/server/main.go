package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"taskpulse/internal/auth"
	"taskpulse/internal/config"
	"taskpulse/internal/email"
	"taskpulse/internal/httpapi"
	"taskpulse/internal/metrics"
	"taskpulse/internal/service"
	"taskpulse/internal/store/postgres"
)

const devResetBaseURL = "http://localhost:4200"

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	if cfg.UsingInsecureSecret() {
		logger.Warn("APP_JWT_SECRET not set, using insecure development secret")
	}

	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecret))

	var (
		authSvc    *service.AuthService
		taskSvc    *service.TaskService
		profileSvc *service.ProfileService
		dbPing     func(context.Context) error
	)

	if cfg.DBDSN != "" {
		if err := postgres.Migrate(context.Background(), cfg.DBDSN); err != nil {
			logger.Error("db migrate failed", "err", err)
			os.Exit(1)
		}

		pgPool, err := postgres.Open(context.Background(), cfg.DBDSN)
		if err != nil {
			logger.Error("db open failed", "err", err)
			os.Exit(1)
		}
		defer pgPool.Close()

		users := postgres.NewUsersStore(pgPool)
		tasks := postgres.NewTasksStore(pgPool)

		resetBaseURL := devResetBaseURL
		if cfg.BaseURL != nil {
			resetBaseURL = cfg.BaseURL.String()
		}

		authSvc = &service.AuthService{
			Users:        users,
			Tokens:       tokens,
			Mailer:       newMailer(cfg, logger),
			ResetBaseURL: resetBaseURL,
		}
		taskSvc = &service.TaskService{Tasks: tasks}
		profileSvc = &service.ProfileService{Users: users}
		dbPing = pgPool.Ping
	}

	collector := metrics.NewCollector(prometheus.NewRegistry())

	router := httpapi.NewRouter(httpapi.RouterOpts{
		Logger:  logger,
		IsProd:  cfg.IsProd(),
		DBPing:  dbPing,
		Auth:    authSvc,
		Tasks:   taskSvc,
		Profile: profileSvc,
		Tokens:  tokens,
		Metrics: collector,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

// newMailer returns the SMTP mailer when mail is configured. Without SMTP the
// reset link is logged instead of sent, which is enough for local work.
func newMailer(cfg config.Config, logger *slog.Logger) service.Mailer {
	if cfg.SMTP.Configured() {
		return email.NewMailer(cfg.SMTP)
	}
	logger.Warn("smtp not configured, reset links will be logged")
	return logMailer{logger: logger}
}

type logMailer struct {
	logger *slog.Logger
}

func (m logMailer) SendPasswordReset(to, resetLink string) error {
	m.logger.Info("password reset link", "to", to, "link", resetLink)
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
