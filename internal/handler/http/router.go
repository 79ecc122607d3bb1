package http

import (
	"log/slog"
	"os"
	"strings"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/config"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// NewLogger builds the ECS JSON logger shared by the request log and slog.Default.
func NewLogger(app config.AppConfig) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLevel(app.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-dashboard"),
		slog.String("version", "v1.0.0"),
		slog.String("env", app.Env),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewRouter mounts the dashboard API. When cfg has no JWT secret every route
// is open; otherwise writes need an editor token.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	JWTService jwt.Service,
	sourceHandler SourceHandler,
	eventHandler EventHandler,
	dashboardHandler DashboardHandler,
	reportHandler ReportHandler,
	settingsHandler SettingsHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
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

	writeGuard := func(r chi.Router) {
		if !cfg.AuthEnabled() || JWTService == nil {
			return
		}
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
		r.Use(middleware.RequireEditor)
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/sources", func(r chi.Router) {
			r.Get("/", sourceHandler.List)
			r.Get("/active", sourceHandler.Active)
			r.Get("/columns", sourceHandler.Columns)

			r.Group(func(r chi.Router) {
				writeGuard(r)
				r.Put("/active", sourceHandler.Select)
				r.Post("/upload", sourceHandler.Upload)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.List)
			r.Get("/options", eventHandler.Options)
			r.Get("/recent", eventHandler.Recent)
			r.Post("/preview", eventHandler.Preview)
			r.Get("/{id}", eventHandler.Get)

			r.Group(func(r chi.Router) {
				writeGuard(r)
				r.Post("/", eventHandler.Create)
				r.Put("/{id}", eventHandler.Update)
				r.Delete("/{id}", eventHandler.Delete)
			})
		})

		r.Get("/staff", eventHandler.Staff)
		r.Get("/catalogs", eventHandler.Catalogs)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", dashboardHandler.Overview)
			r.Get("/top-people", dashboardHandler.TopPeople)
			r.Get("/shifts", dashboardHandler.Shifts)
			r.Get("/monthly-rate", dashboardHandler.MonthlyRate)
			r.Get("/subtotals", dashboardHandler.Subtotals)
			r.Get("/absenteeism", dashboardHandler.Absenteeism)
			r.Get("/permits", dashboardHandler.Permits)
			r.Get("/leaves", dashboardHandler.Leaves)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/export.csv", reportHandler.ExportCSV)
			r.Get("/export.xlsx", reportHandler.ExportExcel)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", settingsHandler.Get)

			r.Group(func(r chi.Router) {
				writeGuard(r)
				r.Put("/", settingsHandler.Update)
				r.Post("/reset", settingsHandler.Reset)
			})
		})
	})

	return r
}
