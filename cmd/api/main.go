package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/config"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/payroll"
	appHTTP "github.com/bizops-hq/bizops-backend-go/internal/handler/http"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/cache"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/cron"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/database"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/jwt"
	"github.com/bizops-hq/bizops-backend-go/internal/repository/postgresql"
	attendanceService "github.com/bizops-hq/bizops-backend-go/internal/service/attendance"
	holidayService "github.com/bizops-hq/bizops-backend-go/internal/service/holiday"
	leaveService "github.com/bizops-hq/bizops-backend-go/internal/service/leave"
	payrollService "github.com/bizops-hq/bizops-backend-go/internal/service/payroll"
	taskService "github.com/bizops-hq/bizops-backend-go/internal/service/task"
	walletService "github.com/bizops-hq/bizops-backend-go/internal/service/wallet"
)

const (
	appName    = "bizops-backend"
	appVersion = "v1.0.0"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", appName),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	businessClock, err := clock.NewBusiness(clock.System(), cfg.Business.Timezone)
	if err != nil {
		return err
	}

	restPolicy, err := payroll.ParseWeeklyRestPolicy(cfg.Business.WeeklyRestPolicy)
	if err != nil {
		return err
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	// The payroll report cache is optional; without Redis every report is computed.
	var reportCache cache.Cache
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		slog.Warn("Redis unavailable, payroll report cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		reportCache = cache.NewRedisCache(redisClient, "bizops:")
	}

	transactor := postgresql.NewTransactor(db)
	profileRepo := postgresql.NewProfileRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)
	walletTransactionRepo := postgresql.NewWalletTransactionRepository(db)
	snapshotRepo := postgresql.NewSalarySnapshotRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, profileRepo, businessClock, cfg.Business.HalfDayThreshold)
	leaveSvc := leaveService.NewLeaveService(transactor, leaveRequestRepo, profileRepo, attendanceRepo, businessClock)
	holidaySvc := holidayService.NewHolidayService(transactor, holidayRepo, profileRepo, attendanceRepo, businessClock)
	payrollSvc := payrollService.NewPayrollService(
		transactor,
		profileRepo,
		attendanceRepo,
		leaveRequestRepo,
		snapshotRepo,
		payrollService.NewCalculator(businessClock, restPolicy),
		businessClock,
		reportCache,
		cfg.Redis.ReportCacheTTL,
	)
	taskSvc := taskService.NewTaskService(transactor, taskRepo, profileRepo, walletTransactionRepo, businessClock)
	walletSvc := walletService.NewWalletService(transactor, profileRepo, walletTransactionRepo, businessClock)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		AppName:           appName,
		Version:           appVersion,
		Env:               cfg.App.Env,
		LogLevel:          cfg.SlogLevel(),
		AllowedOrigins:    cfg.App.AllowedOrigins,
		CheckInRatePerMin: cfg.Business.CheckInRatePerMin,
	}, JWTService, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Holiday:    appHTTP.NewHolidayHandler(holidaySvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Task:       appHTTP.NewTaskHandler(taskSvc),
		Wallet:     appHTTP.NewWalletHandler(walletSvc),
	})

	scheduler := cron.NewScheduler()
	if cfg.Cron.Enabled {
		cron.NewWalletJobs(walletSvc).RegisterJobs(scheduler, cfg.Cron.ReconciliationInterval)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", cfg.Business.Timezone, "weekly_rest_policy", restPolicy.Name())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
