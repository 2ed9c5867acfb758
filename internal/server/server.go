package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"authflow/internal/auth"
	"authflow/internal/config"
)

// AuthService is the Auth Flow Controller as seen by the HTTP layer.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (auth.Session, error)
	Login(ctx context.Context, email, password string) (auth.Session, error)
	Logout(ctx context.Context, token string)
	SendVerifyOTP(ctx context.Context, accountID string) error
	VerifyEmail(ctx context.Context, accountID, otp string) error
	SendResetOTP(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
	UserData(ctx context.Context, accountID string) (auth.UserData, error)
}

// TokenVerifier resolves a bearer token to an account id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Auth     AuthService
	Tokens   TokenVerifier
	Cookies  auth.CookiePolicy
	DB       Pinger
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger

	trustedProxies []net.IPNet
	corsOrigins    []string
}

func NewServer(cfg config.Config, svc AuthService, tokens TokenVerifier, db Pinger, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Auth:           svc,
		Tokens:         tokens,
		Cookies:        auth.CookiePolicy{Production: cfg.Production(), MaxAge: cfg.TokenTTL},
		DB:             db,
		Gatherer:       gatherer,
		Logger:         logger,
		trustedProxies: parseProxyCIDRs(cfg.TrustedProxies),
		corsOrigins:    cfg.CORSOrigins,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	if len(s.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.corsOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(middleware.RequestID)
	formatter := &middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(s.Logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}
	r.Use(middleware.RequestLogger(formatter))
	r.Use(middleware.Recoverer)
	r.Use(secureHeaders)
	r.Use(s.withRequestInfo)

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(ar chi.Router) {
		ar.Post("/register", s.handleRegister)
		ar.Post("/login", s.handleLogin)
		ar.Post("/logout", s.handleLogout)
		ar.Post("/send-reset-otp", s.handleSendResetOTP)
		ar.Post("/reset-password", s.handleResetPassword)

		ar.Group(func(pr chi.Router) {
			pr.Use(s.requireAuth)

			pr.Post("/send-verify-otp", s.handleSendVerifyOTP)
			pr.Post("/verify-email", s.handleVerifyEmail)
			pr.Get("/is-auth", s.handleIsAuth)
		})
	})

	r.Route("/api/user", func(ur chi.Router) {
		ur.Use(s.requireAuth)
		ur.Get("/data", s.handleUserData)
	})

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("API Working"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.Ping(r.Context()); err != nil {
			s.Logger.ErrorContext(r.Context(), "health check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
}
