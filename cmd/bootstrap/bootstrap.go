package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-medical-marketplace/config"
	deliveryHttp "go-medical-marketplace/internal/delivery/http"
	"go-medical-marketplace/internal/delivery/http/handler"
	"go-medical-marketplace/internal/delivery/http/middleware"
	"go-medical-marketplace/internal/infrastructure/cache"
	"go-medical-marketplace/internal/infrastructure/database"
	"go-medical-marketplace/internal/infrastructure/identity"
	"go-medical-marketplace/internal/infrastructure/messaging"
	"go-medical-marketplace/internal/infrastructure/monitoring"
	"go-medical-marketplace/internal/infrastructure/storage"
	"go-medical-marketplace/internal/infrastructure/telemetry"
	"go-medical-marketplace/internal/repository"
	"go-medical-marketplace/internal/service"
	"go-medical-marketplace/internal/usecase"
	"go-medical-marketplace/pkg/jwt"
	"go-medical-marketplace/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Publisher   *messaging.Publisher
	Verifier    *identity.GoogleVerifier
	Server      *http.Server

	sentryEnabled  bool
	shutdownTracer telemetry.ShutdownFunc
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := setupLogger(cfg.App)
	app.Log = log
	log.Info("Configuration loaded successfully")

	app.sentryEnabled = monitoring.InitSentry(cfg.Sentry, cfg.App.Env, log)

	shutdownTracer, err := telemetry.InitTracer(context.Background(), cfg.Telemetry, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracer: %w", err)
	}
	app.shutdownTracer = shutdownTracer

	db, err := database.NewPostgresConnection(cfg.DB, log, cfg.App.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if cfg.DB.AutoMigrate {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := database.RunMigrations(sqlDB, log); err != nil {
			return nil, err
		}
	}

	redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	verifier, err := identity.NewGoogleVerifier(cfg.Google.JWKSURL, cfg.Google.ClientID, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load Google signing keys: %w", err)
	}
	app.Verifier = verifier

	var publisher service.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		p, err := messaging.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		app.Publisher = p
		publisher = p
		log.Info("RabbitMQ connected successfully")
	} else {
		publisher = service.NewLogPublisher(log)
		log.Info("RabbitMQ not configured, domain events are logged only")
	}

	files, err := storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare upload storage: %w", err)
	}

	app.Server = app.initializeServer(db, redisClient, verifier, publisher, files)

	return app, nil
}

func setupLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	if cfg.IsDevelopment() {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(
	db *gorm.DB,
	redisClient *redis.Client,
	verifier *identity.GoogleVerifier,
	publisher service.EventPublisher,
	files *storage.FileStorage,
) *http.Server {
	cfg := app.Config
	log := app.Log

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	doctorRepo := repository.NewDoctorRepository()
	patientRepo := repository.NewPatientRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	reviewRepo := repository.NewReviewRepository()
	notificationRepo := repository.NewNotificationRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	sessionStore := service.NewRedisSessionStore(redisClient, log)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, verifier, jwtService, sessionStore, auditService, cfg.App.AdminEmails)
	onboardingUsecase := usecase.NewOnboardingUsecase(db, log, userRepo, doctorRepo, auditService, publisher)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, userRepo, doctorRepo, appointmentRepo, reviewRepo, auditService, publisher)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, userRepo, doctorRepo, patientRepo, appointmentRepo, notificationRepo, auditService, publisher)
	reviewUsecase := usecase.NewReviewUsecase(db, log, doctorRepo, patientRepo, reviewRepo, auditService, publisher)
	adminUsecase := usecase.NewAdminUsecase(db, log, userRepo, doctorRepo, patientRepo, appointmentRepo, reviewRepo, auditService, publisher)
	notificationUsecase := usecase.NewNotificationUsecase(db, log, notificationRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)
	uploadUsecase := usecase.NewUploadUsecase(log, files)

	handlers := deliveryHttp.Handlers{
		Auth:         handler.NewAuthHandler(authUsecase, customValidator, !cfg.App.IsDevelopment()),
		Onboarding:   handler.NewOnboardingHandler(onboardingUsecase, customValidator),
		Doctor:       handler.NewDoctorHandler(doctorUsecase, customValidator),
		Appointment:  handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		Review:       handler.NewReviewHandler(reviewUsecase, customValidator),
		Notification: handler.NewNotificationHandler(notificationUsecase),
		Upload:       handler.NewUploadHandler(uploadUsecase, cfg.Upload.MaxBytes),
		Admin:        handler.NewAdminHandler(adminUsecase),
		AuditLog:     handler.NewAuditLogHandler(auditLogUsecase),
	}

	middlewares := deliveryHttp.Middlewares{
		Auth:     middleware.NewAuthMiddleware(authUsecase, log),
		Gate:     middleware.NewGateMiddleware(cfg.App.BaseURL),
		CORS:     middleware.NewCORSMiddleware(cfg.App.CORSOrigins...),
		Logging:  middleware.NewLoggingMiddleware(log),
		Recovery: middleware.NewRecoveryMiddleware(log),
	}
	if app.sentryEnabled {
		middlewares.Sentry = monitoring.Middleware
	}

	router := deliveryHttp.NewRouter(handlers, middlewares, files.Handler())

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close(ctx)

	app.Log.Info("Server shutdown complete")
}

// Close releases every external connection
func (app *App) Close(ctx context.Context) {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}

	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			app.Log.Warnf("Failed to close RabbitMQ publisher: %v", err)
		}
	}

	if app.Verifier != nil {
		app.Verifier.Close()
	}

	if app.shutdownTracer != nil {
		if err := app.shutdownTracer(ctx); err != nil {
			app.Log.Warnf("Failed to flush traces: %v", err)
		}
	}

	if app.sentryEnabled {
		monitoring.Flush()
	}
}
