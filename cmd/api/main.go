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

	"github.com/seunits/attendance-backend-go/internal/config"
	"github.com/seunits/attendance-backend-go/internal/domain/attendance"
	appHTTP "github.com/seunits/attendance-backend-go/internal/handler/http"
	"github.com/seunits/attendance-backend-go/internal/pkg/civil"
	"github.com/seunits/attendance-backend-go/internal/pkg/cron"
	"github.com/seunits/attendance-backend-go/internal/pkg/database"
	"github.com/seunits/attendance-backend-go/internal/pkg/jwt"
	"github.com/seunits/attendance-backend-go/internal/repository/dynamodb"
	"github.com/seunits/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/seunits/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/seunits/attendance-backend-go/internal/service/auth"
	"github.com/seunits/attendance-backend-go/internal/service/identity"
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
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := appHTTP.NewLogger(cfg.App.Name, cfg.App.Version, cfg.App.Env, cfg.SlogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	revokedTokenRepo := postgresql.NewRevokedTokenRepository(db)
	transactor := postgresql.NewTransactor(db)

	attendanceRepo, err := newAttendanceRepository(ctx, cfg, db)
	if err != nil {
		return err
	}

	clock := civil.NewISTClock(nil)
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, revokedTokenRepo)
	resolver := identity.NewResolver(employeeRepo, userRepo)

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, resolver, clock)
	authSvc := serviceAuth.NewAuthService(transactor, userRepo, employeeRepo, JWTService, serviceAuth.Options{
		AllowedEmailDomain: cfg.Auth.AllowedEmailDomain,
		DefaultAdmin: serviceAuth.DefaultAdmin{
			Name:     cfg.DefaultAdmin.Name,
			Email:    cfg.DefaultAdmin.Email,
			Password: cfg.DefaultAdmin.Password,
		},
	})

	if err := authSvc.EnsureDefaultAdmin(ctx); err != nil {
		// Login still works for existing accounts.
		slog.Warn("Failed to ensure default admin", "error", err)
	}

	scheduler := cron.NewScheduler(ctx)
	if err := cron.NewTokenJobs(JWTService, cfg.JWT.PurgeInterval).RegisterJobs(scheduler); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		JWTService,
		appHTTP.NewAuthHandler(authSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.RouterOptions{
			Logger:         logger,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "attendance_store", cfg.Attendance.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newAttendanceRepository(ctx context.Context, cfg *config.Config, db *database.DB) (attendance.AttendanceRepository, error) {
	switch cfg.Attendance.Store {
	case config.StoreDynamoDB:
		repo, err := dynamodb.NewAttendanceRepository(ctx, dynamodb.Config{
			Mode:            dynamodb.Mode(cfg.Dynamo.Mode),
			Endpoint:        cfg.Dynamo.Endpoint,
			Region:          cfg.Dynamo.Region,
			AttendanceTable: cfg.Dynamo.AttendanceTable,
		})
		if err != nil {
			return nil, fmt.Errorf("error initializing DynamoDB attendance store: %w", err)
		}
		return repo, nil
	default:
		return postgresql.NewAttendanceRepository(db), nil
	}
}
