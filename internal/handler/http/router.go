package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/bizops-hq/bizops-backend-go/internal/handler/http/middleware"
	"github.com/bizops-hq/bizops-backend-go/internal/handler/http/response"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the config values the router needs.
type RouterOptions struct {
	AppName           string
	Version           string
	Env               string
	LogLevel          slog.Level
	AllowedOrigins    []string
	CheckInRatePerMin int
}

type Handlers struct {
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Holiday    HolidayHandler
	Payroll    PayrollHandler
	Task       TaskHandler
	Wallet     WalletHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Link", middleware.RequestIDHeader},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	checkInLimiter := middleware.NewUserRateLimiter(middleware.PerMinute(opts.CheckInRatePerMin), opts.CheckInRatePerMin)

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RateLimitByUser(checkInLimiter))
					r.Post("/check-in", h.Attendance.CheckIn)
					r.Post("/check-out", h.Attendance.CheckOut)
				})
				r.Get("/me", h.Attendance.GetMyAttendance)
				r.Get("/calendar/{userId}", h.Attendance.GetCalendar)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Attendance.ListByDate)
					r.Put("/status", h.Attendance.SetStatus)
					r.Get("/today", h.Attendance.TodaySummary)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", h.Leave.CreateRequest)
				r.Get("/me", h.Leave.GetMyRequests)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Leave.ListRequests)
					r.Post("/{id}/approve", h.Leave.ApproveRequest)
					r.Post("/{id}/reject", h.Leave.RejectRequest)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", h.Holiday.List)
				r.Post("/", h.Holiday.Create)
				r.Delete("/{id}", h.Holiday.Delete)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/me", h.Payroll.GetMyPayroll)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/employees/{userId}", h.Payroll.GetEmployeePayroll)
					r.Get("/report", h.Payroll.MonthlyReport)
					r.Post("/snapshots", h.Payroll.CreateSnapshots)
					r.Get("/snapshots", h.Payroll.ListSnapshots)
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/me", h.Task.ListMine)
				r.Get("/{id}", h.Task.Get)
				r.Post("/{id}/submit", h.Task.Submit)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Task.Create)
					r.Get("/", h.Task.List)
					r.Post("/{id}/review", h.Task.Review)
				})
			})

			r.Route("/wallet", func(r chi.Router) {
				r.Get("/me", h.Wallet.GetMyWallet)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/{userId}", h.Wallet.GetWallet)
					r.Post("/payouts", h.Wallet.Payout)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
