package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"taskpulse/internal/auth"
	"taskpulse/internal/metrics"
	"taskpulse/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

	Auth    *service.AuthService
	Tasks   *service.TaskService
	Profile *service.ProfileService
	Tokens  *auth.TokenIssuer

	Metrics *metrics.Collector
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := &api{
		logger:       logger,
		isProd:       opts.IsProd,
		dbPing:       opts.DBPing,
		authSvc:      opts.Auth,
		taskSvc:      opts.Tasks,
		profileSvc:   opts.Profile,
		tokens:       opts.Tokens,
		loginLimiter: newKeyedLimiter(rate.Every(30*time.Second), 10),
		resetLimiter: newKeyedLimiter(rate.Every(time.Minute), 5),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", api.handleHome)
	mux.HandleFunc("GET /healthz", api.handleHealthz)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler(opts.Metrics.Gatherer()))
	}

	if api.authSvc == nil {
		mux.HandleFunc("POST /auth/register", handleNotImplemented)
		mux.HandleFunc("POST /auth/login", handleNotImplemented)
		mux.HandleFunc("POST /auth/forgot-password", handleNotImplemented)
		mux.HandleFunc("POST /forgot-password", handleNotImplemented)
		mux.HandleFunc("POST /auth/reset-password", handleNotImplemented)
		mux.HandleFunc("POST /reset-password", handleNotImplemented)
	} else {
		mux.HandleFunc("POST /auth/register", api.handleAuthRegister)
		mux.HandleFunc("POST /auth/login", api.handleAuthLogin)
		mux.HandleFunc("POST /auth/forgot-password", api.handleForgotPassword)
		mux.HandleFunc("POST /forgot-password", api.handleForgotPassword)
		mux.HandleFunc("POST /auth/reset-password", api.handleResetPassword)
		mux.HandleFunc("POST /reset-password", api.handleResetPassword)
	}

	if api.profileSvc != nil {
		mux.HandleFunc("GET /users/me", api.requireAuth(api.handleUsersMe))
		mux.HandleFunc("POST /users/me", api.requireAuth(api.handleUsersMeUpdate))
		mux.HandleFunc("GET /mood", api.requireAuth(api.handleMoodGet))
		mux.HandleFunc("POST /mood", api.requireAuth(api.handleMoodSet))
	}

	if api.taskSvc != nil {
		mux.HandleFunc("GET /tasks", api.requireAuth(api.handleTasksList))
		mux.HandleFunc("POST /tasks", api.requireAuth(api.handleTasksCreate))
		mux.HandleFunc("PATCH /tasks/{id}", api.requireAuth(api.handleTasksUpdateStatus))
		mux.HandleFunc("DELETE /tasks/{id}", api.requireAuth(api.handleTasksDelete))
	}

	mux.HandleFunc("POST /ai/suggest", api.requireAuth(api.handleSuggest))

	var h http.Handler = mux
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = CORS()(h)
	h = Instrument(opts.Metrics)(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

type api struct {
	logger *slog.Logger
	isProd bool

	dbPing func(context.Context) error

	authSvc    *service.AuthService
	taskSvc    *service.TaskService
	profileSvc *service.ProfileService
	tokens     *auth.TokenIssuer

	loginLimiter *keyedLimiter
	resetLimiter *keyedLimiter
}

func handleNotImplemented(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotImplemented, "not_implemented", "not implemented")
}

func (a *api) handleHome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("API is running"))
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}
