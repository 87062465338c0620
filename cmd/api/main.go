package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/config"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	appHTTP "github.com/cmlabs-hris/workforce-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/workforce-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/workforce-backend-go/internal/service/auth"
	departmentService "github.com/cmlabs-hris/workforce-backend-go/internal/service/department"
	leaveService "github.com/cmlabs-hris/workforce-backend-go/internal/service/leave"
	reportService "github.com/cmlabs-hris/workforce-backend-go/internal/service/report"
	taskService "github.com/cmlabs-hris/workforce-backend-go/internal/service/task"
	userService "github.com/cmlabs-hris/workforce-backend-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clk := clock.New(loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	// Access-token revocations live in Redis when configured so every
	// instance sees a logout; otherwise they are process-local.
	var revocations jwt.RevocationStore = jwt.NewMemoryRevocationStore()
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("error connecting to redis: %w", err)
		}
		revocations = jwt.NewRedisRevocationStore(client)
	}

	smtpMailer, err := email.NewMailer(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}
	mailer := email.NewAsyncMailer(smtpMailer, cfg.SMTP.SendTimeout)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.IsProduction())
	if err != nil {
		return err
	}

	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)
	commentRepo := postgresql.NewCommentRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)

	authSvc := serviceAuth.NewAuthService(tx, userRepo, refreshTokenRepo, JWTService, revocations)
	userSvc := userService.NewUserService(userRepo)
	departmentSvc := departmentService.NewDepartmentService(departmentRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, userRepo, clk)
	taskSvc := taskService.NewTaskService(tx, taskRepo, commentRepo, userRepo, mailer, cfg.App.FrontendURL)
	leaveSvc := leaveService.NewLeaveService(tx, leaveRequestRepo, userRepo, mailer)
	reportSvc := reportService.NewReportService(attendanceRepo, userRepo, clk)

	if cfg.InitialAdmin.Email != "" {
		created, err := authSvc.EnsureInitialAdmin(ctx, auth.InitialAdminRequest{
			Username: cfg.InitialAdmin.Username,
			Email:    cfg.InitialAdmin.Email,
			Password: cfg.InitialAdmin.Password,
			FullName: cfg.InitialAdmin.FullName,
		})
		if err != nil {
			return fmt.Errorf("failed to ensure initial admin: %w", err)
		}
		if created {
			slog.Info("initial admin created", "username", cfg.InitialAdmin.Username)
		}
	}

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc, cfg.Attendance.AutoCheckoutInterval).RegisterJobs(scheduler)
	cron.NewTokenJobs(refreshTokenRepo).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Logger:         logger,
	}, JWTService, authSvc, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authSvc, googleService, strings.TrimRight(cfg.App.FrontendURL, "/"), cfg.IsProduction()),
		User:       appHTTP.NewUserHandler(userSvc, attendanceSvc),
		Department: appHTTP.NewDepartmentHandler(departmentSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Task:       appHTTP.NewTaskHandler(taskSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := mailer.Wait(shutdownCtx); err != nil {
		slog.Warn("pending emails abandoned", "error", err)
	}
	return nil
}
