package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/wellpath/portal/internal/metrics"
	"github.com/wellpath/portal/internal/middleware"
	"github.com/wellpath/portal/internal/ratelimit"
	"github.com/wellpath/portal/internal/service"
	"github.com/wellpath/portal/internal/session"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	Logger   *slog.Logger
	Services *service.Services
	Sessions *session.Manager
	Cookie   session.CookieConfig

	// Backend is pinged by /readyz; nil skips the check.
	Backend HealthChecker

	Metrics     metrics.Recorder
	Snapshotter metrics.Snapshotter

	LoginLimiter     ratelimit.Limiter
	RateLimitEnabled bool

	// TrustProxyHeaders resolves the client address from proxy headers.
	TrustProxyHeaders bool

	Development    bool
	AllowedOrigins []string
	MaxBodySize    int64
}

// NewRouter builds the portal's route table.
func NewRouter(cfg RouterConfig) *chi.Mux {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}

	h := New(cfg.Logger, cfg.Cookie)
	healthHandler := NewHealthHandler(cfg.Sessions, cfg.Backend)
	metricsHandler := NewMetricsHandler(cfg.Snapshotter)
	authHandler := NewAuthHandler(h, cfg.Services.Auth, cfg.Sessions, cfg.Metrics)
	marketingHandler := NewMarketingHandler(h, cfg.Services)
	dashboardHandler := NewDashboardHandler(h, cfg.Services, cfg.Sessions)
	adminHandler := NewAdminHandler(h, cfg.Services)

	r := chi.NewRouter()

	// Global middleware
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger, cfg.Development))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.Development}))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.MaxBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxBodySize))
	}

	// Health and metrics endpoints (no session)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	rateLimit := middleware.RateLimitLogin(middleware.RateLimitConfig{
		Enabled: cfg.RateLimitEnabled,
		Limiter: cfg.LoginLimiter,
		Logger:  cfg.Logger,
		Metrics: cfg.Metrics,
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(middleware.SessionConfig{
			Manager: cfg.Sessions,
			Cookie:  cfg.Cookie,
			Logger:  cfg.Logger,
		}))
		r.Use(middleware.Guard(middleware.GuardConfig{
			Logger:  cfg.Logger,
			Metrics: cfg.Metrics,
		}))

		// Public pages
		r.Get("/", marketingHandler.Home)
		r.Get("/blog", marketingHandler.Blog)
		r.With(middleware.ValidateSlugParam).Get("/blog/{slug}", marketingHandler.BlogPost)
		r.Get("/media", marketingHandler.Media)
		r.Get("/speaking", marketingHandler.Speaking)

		r.Get("/login", authHandler.LoginPage)
		r.With(rateLimit).Post("/login", authHandler.Login)
		r.Get("/signup", authHandler.SignupPage)
		r.With(rateLimit).Post("/signup", authHandler.Signup)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
		r.With(rateLimit).Post("/forgot-password", authHandler.ForgotPassword)
		r.With(rateLimit).Post("/reset-password", authHandler.ResetPassword)

		// Signed-in pages; the guard has already checked the session.
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", dashboardHandler.Overview)

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", dashboardHandler.Courses)
				r.Get("/mine", dashboardHandler.MyCourses)
				r.With(middleware.ValidateIDParam).Get("/{id}", dashboardHandler.Course)
				r.With(middleware.ValidateIDParam).Post("/{id}/purchase", dashboardHandler.PurchaseCourse)
			})
			r.Post("/payments/verify", dashboardHandler.VerifyPayment)

			r.Route("/ebooks", func(r chi.Router) {
				r.Get("/", dashboardHandler.Ebooks)
				r.Get("/library", dashboardHandler.Library)
				r.With(middleware.ValidateIDParam).Post("/{id}/purchase", dashboardHandler.PurchaseEbook)
				r.With(middleware.ValidateIDParam).Get("/{id}/download", dashboardHandler.DownloadEbook)
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", dashboardHandler.Appointments)
				r.Post("/", dashboardHandler.BookAppointment)
				r.With(middleware.ValidateIDParam).Post("/{id}/cancel", dashboardHandler.CancelAppointment)
			})

			r.Route("/bookmarks", func(r chi.Router) {
				r.Get("/", dashboardHandler.Bookmarks)
				r.Post("/", dashboardHandler.AddBookmark)
				r.With(middleware.ValidateIDParam).Delete("/{id}", dashboardHandler.RemoveBookmark)
			})

			r.Route("/live-sessions", func(r chi.Router) {
				r.Get("/", dashboardHandler.LiveSessions)
				r.With(middleware.ValidateIDParam).Get("/{id}", dashboardHandler.LiveSession)
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", dashboardHandler.Profile)
				r.Put("/", dashboardHandler.UpdateProfile)
				r.Put("/password", dashboardHandler.ChangePassword)
			})
		})

		// Admin console; the guard has already checked the role.
		r.Route("/admin", func(r chi.Router) {
			r.Get("/", adminHandler.Overview)

			r.Route("/blog", adminHandler.Blog.Routes)
			r.Route("/courses", adminHandler.Courses.Routes)
			r.Route("/ebooks", adminHandler.Ebooks.Routes)
			r.Route("/media", adminHandler.Media.Routes)
			r.Route("/speaking", adminHandler.Speaking.Routes)

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", adminHandler.Appointments)
				r.Route("/types", adminHandler.AppointmentTypes.Routes)
				r.With(middleware.ValidateIDParam).Patch("/{id}/status", adminHandler.UpdateAppointmentStatus)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", adminHandler.Users)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(middleware.ValidateIDParam)
					r.Get("/", adminHandler.User)
					r.Patch("/status", adminHandler.UpdateUserStatus)
					r.Delete("/", adminHandler.DeleteUser)
				})
			})
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
