// Package bootstrap wires configuration, database, services and routes
// together at startup.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/ateliercucina/backend/internal/app/controllers"
	appMigrations "github.com/ateliercucina/backend/internal/app/migrations"
	"github.com/ateliercucina/backend/internal/app/models"
	appRepos "github.com/ateliercucina/backend/internal/app/repositories"
	appRoutes "github.com/ateliercucina/backend/internal/app/routes"
	appServices "github.com/ateliercucina/backend/internal/app/services"
	"github.com/ateliercucina/backend/internal/config"
	"github.com/ateliercucina/backend/internal/db"
	appMiddleware "github.com/ateliercucina/backend/internal/middleware"
	pkgAuth "github.com/ateliercucina/backend/internal/pkg/auth"
	"github.com/ateliercucina/backend/internal/pkg/changefeed"
	"github.com/ateliercucina/backend/internal/pkg/helpers"
	"github.com/ateliercucina/backend/internal/pkg/logger"
	"github.com/ateliercucina/backend/internal/pkg/mirror"
	"github.com/ateliercucina/backend/internal/pkg/notify"
	"github.com/ateliercucina/backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	Hub               *changefeed.Hub
	CatalogueMirror   *mirror.Mirror[*models.Course]
	NotifyClient      *notify.Client
	AuthService       *appServices.AuthService
	CourseService     *appServices.CourseService
	BookingService    *appServices.BookingService
	AuthController    *appControllers.AuthController
	CourseController  *appControllers.CourseController
	BookingController *appControllers.BookingController
	ChangeFeedHandler *changefeed.Handler
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding failures are logged but don't block startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, the change feed, services and
// controllers. It starts the change feed hub and the catalogue mirror.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	// Change feed: one hub fans events out to websocket subscribers and to
	// in-process mirrors
	deps.Hub = changefeed.NewHub(lgr)
	go deps.Hub.Run()
	deps.ChangeFeedHandler = changefeed.NewHandler(deps.Hub, lgr)

	deps.CatalogueMirror = mirror.New(
		deps.Repos.CourseRepository.GetAll,
		deps.Hub,
		changefeed.Filter{Table: changefeed.TableCourses},
		lgr,
	)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := deps.CatalogueMirror.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to load course catalogue: %w", err)
	}

	deps.NotifyClient = notify.NewClient(
		cfg.Notifier.BaseURL,
		helpers.ParseDuration(cfg.Notifier.Timeout, 5*time.Second),
		lgr,
	)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.ProfileRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	deps.CourseService = appServices.NewCourseService(
		deps.Repos.CourseRepository,
		deps.CatalogueMirror,
		deps.Hub,
		lgr,
	)
	deps.BookingService = appServices.NewBookingService(
		deps.Repos.BookingRepository,
		deps.NotifyClient,
		deps.Hub,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.BookingController = appControllers.NewBookingController(deps.BookingService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.CORS())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CourseController,
		deps.BookingController,
		deps.ChangeFeedHandler,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
