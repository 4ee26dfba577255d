package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ateliercucina/backend/internal/app/repositories"
	"github.com/ateliercucina/backend/internal/bootstrap"
	"github.com/ateliercucina/backend/internal/db"
	"github.com/ateliercucina/backend/internal/middleware"
	"github.com/ateliercucina/backend/internal/notifier"
	"github.com/ateliercucina/backend/internal/pkg/email"
	"github.com/ateliercucina/backend/internal/pkg/logger"
)

func main() {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		os.Exit(1)
	}
	defer database.Close()

	repos := repositories.NewRepositories(database.Pool)

	smtpSender := email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.From,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)

	service := notifier.NewService(
		repos.CourseRepository,
		repos.ProfileRepository,
		cfg.Notifier.ResendAPIKey,
		cfg.Notifier.FromAddress,
		cfg.Notifier.AdminEmail,
		smtpSender,
		lgr,
	)

	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(lgr))
	router.Use(middleware.CORS())

	notifier.NewHandler(service, lgr).Register(router)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Notifier.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		lgr.Info().Str("addr", srv.Addr).Msg("Notifier listening")
		serverErrors <- srv.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			lgr.Error().Err(err).Msg("Notifier server error")
			os.Exit(1)
		}
	case sig := <-osSignals:
		lgr.Info().Str("signal", sig.String()).Msg("Received OS signal, shutting down notifier...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lgr.Error().Err(err).Msg("Notifier shutdown error")
		os.Exit(1)
	}

	lgr.Info().Msg("Notifier stopped.")
}
