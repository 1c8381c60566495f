package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shahinarahman616-del/HealthMate/api/controllers"
	"github.com/shahinarahman616-del/HealthMate/api/middleware"
	"github.com/shahinarahman616-del/HealthMate/internal/audit"
	"github.com/shahinarahman616-del/HealthMate/internal/auth"
	"github.com/shahinarahman616-del/HealthMate/internal/doctors"
	"github.com/shahinarahman616-del/HealthMate/internal/emergency"
	"github.com/shahinarahman616-del/HealthMate/internal/family"
	"github.com/shahinarahman616-del/HealthMate/internal/notifications"
	"github.com/shahinarahman616-del/HealthMate/internal/profiles"
	"github.com/shahinarahman616-del/HealthMate/internal/reports"
	"github.com/shahinarahman616-del/HealthMate/pkg/auth/session"
	"github.com/shahinarahman616-del/HealthMate/pkg/config"
	"github.com/shahinarahman616-del/HealthMate/pkg/db"
	"github.com/shahinarahman616-del/HealthMate/pkg/logger"
	"github.com/shahinarahman616-del/HealthMate/pkg/metrics"
	"github.com/shahinarahman616-del/HealthMate/pkg/redis"
)

// Deps bundles everything the router needs. Optional entries may be nil; the
// corresponding routes then answer with an internal error.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	Sessions       session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	Auth          auth.Service
	Profiles      profiles.Service
	Family        family.Service
	Emergency     emergency.Service
	Audit         audit.Service
	Notifications notifications.Service
	Reports       reports.Service
	Doctors       doctors.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, controllers.ReadinessDeps(deps.DB, deps.Redis)))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.Redis, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/forgot-password", controllers.AuthForgotPassword(deps.Auth, logg))
		r.Post("/verify-reset-token", controllers.AuthVerifyResetToken(deps.Auth, logg))
		r.Post("/reset-password", controllers.AuthResetPassword(deps.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).Post("/logout", controllers.AuthLogout(deps.Auth, logg))
	})

	r.Get("/api/v1/doctors", controllers.DoctorsSearch(deps.Doctors, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(deps.Profiles, logg))
			r.Put("/", controllers.ProfileUpdate(deps.Profiles, logg))
		})

		r.Route("/family", func(r chi.Router) {
			r.Post("/invite", controllers.FamilyInvite(deps.Family, logg))
			r.Get("/members", controllers.FamilyMembers(deps.Family, logg))
			r.Get("/accessible-profiles", controllers.FamilyAccessibleProfiles(deps.Family, logg))
			r.Get("/invitations/pending", controllers.FamilyPendingInvitations(deps.Family, logg))
			r.Post("/invitations/{relationshipId}/respond", controllers.FamilyRespond(deps.Family, logg))
			r.Put("/members/{relationshipId}", controllers.FamilyUpdateAccessLevel(deps.Family, logg))
			r.Delete("/members/{relationshipId}", controllers.FamilyRevoke(deps.Family, logg))
			r.Get("/access-logs", controllers.FamilyAccessLogs(deps.Audit, logg))
			r.Post("/emergency-access", controllers.EmergencyRequest(deps.Emergency, logg))
			r.Get("/emergency-access", controllers.EmergencyList(deps.Emergency, logg))
			r.Get("/profile/{ownerId}", controllers.SharedProfileGet(deps.Profiles, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", controllers.ReportsList(deps.Reports, logg))
			r.Post("/presign", controllers.ReportsPresign(deps.Reports, logg))
			r.Post("/", controllers.ReportsCreate(deps.Reports, logg))
			r.Delete("/{reportId}", controllers.ReportsDelete(deps.Reports, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationsList(deps.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.NotificationsMarkRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.NotificationsMarkAllRead(deps.Notifications, logg))
		})
	})

	return r
}
