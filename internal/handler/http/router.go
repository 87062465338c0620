package http

import (
	"log/slog"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AllowedOrigins []string
	// Logger receives request logs; nil disables request logging.
	Logger *slog.Logger
}

type Handlers struct {
	Auth       AuthHandler
	User       UserHandler
	Department DepartmentHandler
	Attendance AttendanceHandler
	Task       TaskHandler
	Leave      LeaveHandler
	Report     ReportHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, authenticator middleware.Authenticator, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)

			r.Route("/login", func(r chi.Router) {
				r.Post("/", h.Auth.Login)
				r.Get("/oauth/google", h.Auth.LoginWithGoogle)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(authenticator))

			r.Post("/auth/logout", h.Auth.Logout)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.User.List)
				r.With(middleware.RequirePermission(user.PermissionViewOwnProfile)).Get("/me", h.User.Me)
				r.Get("/{id}", h.User.Get)
				r.Get("/{id}/attendance", h.User.Attendance)
				r.With(middleware.RequirePermission(user.PermissionEditProfile)).Patch("/{id}", h.User.Update)
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", h.Department.List)
				r.Get("/{id}", h.Department.Get)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionAttendanceCheckIn))
				r.Get("/today", h.Attendance.Today)
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Get("/me", h.Attendance.MyCycle)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionTaskView))
				r.Get("/", h.Task.List)
				r.With(middleware.RequirePermission(user.PermissionTaskAssign)).Post("/", h.Task.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Task.Get)
					r.Patch("/status", h.Task.UpdateStatus)
					r.Get("/comments", h.Task.ListComments)
					r.Post("/comments", h.Task.AddComment)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionLeaveCreate))
				r.Get("/", h.Leave.List)
				r.Post("/", h.Leave.Create)

				// Leader or admin
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
					r.Post("/{id}/approve", h.Leave.Approve)
					r.Post("/{id}/reject", h.Leave.Reject)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsExport))
				r.Get("/attendance", h.Report.AttendanceSummary)
				r.Get("/attendance.xlsx", h.Report.ExportAttendance)
			})
		})
	})
	return r
}
