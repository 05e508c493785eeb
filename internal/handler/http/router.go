package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/seunits/attendance-backend-go/internal/domain/user"
	"github.com/seunits/attendance-backend-go/internal/handler/http/middleware"
	"github.com/seunits/attendance-backend-go/internal/handler/http/response"
	"github.com/seunits/attendance-backend-go/internal/pkg/jwt"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

// NewLogger returns the JSON logger shared by the request logger and the
// application, tagged with app, version and env.
func NewLogger(app, version, env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app),
		slog.String("version", version),
		slog.String("env", env),
	)
}

func NewRouter(JWTService jwt.Service, authHandler AuthHandler, attendanceHandler AttendanceHandler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Requires authentication
		r.Route("/attendance", func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))
			r.Use(middleware.RequireRoles(user.RoleAdmin, user.RoleEmployee))

			r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/", attendanceHandler.CheckIn)
			r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/checkout", attendanceHandler.CheckOut)
			r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Get("/employee", attendanceHandler.ListByEmployee)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(user.RoleAdmin))
				r.Get("/summary", attendanceHandler.Summary)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
