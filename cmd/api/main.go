package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/collabhub/engine/internal/api"
	"github.com/collabhub/engine/internal/api/handlers"
	"github.com/collabhub/engine/internal/notify"
	"github.com/collabhub/engine/internal/repository"
	"github.com/collabhub/engine/internal/resume"
	"github.com/collabhub/engine/internal/services"
	"github.com/collabhub/engine/pkg/config"
	"github.com/collabhub/engine/pkg/database"
	"github.com/collabhub/engine/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("starting collabhub engine",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	log.Info("database connected")

	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 {
		log.Warn("JWT_SECRET not set, using default (INSECURE for production)")
		jwtSecret = []byte("change-me-in-production-please")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	requestRepo := repository.NewTeamRequestRepository(db)
	teamRepo := repository.NewTeamRepository(db)

	// Matcher notifications go through asynq; the worker delivers them.
	var notifier notify.Port = notify.Noop{}
	if cfg.MatcherURL != "" {
		asynqClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer asynqClient.Close()
		notifier = notify.NewPublisher(asynqClient)
	}

	parser := resume.NewHTTPParser(cfg.ParserAPIKey)

	// Services
	authSvc := services.NewAuthService(userRepo, profileRepo, parser, notifier, jwtSecret)
	projectSvc := services.NewProjectService(projectRepo, teamRepo, notifier)
	teamSvc := services.NewTeamService(projectRepo, requestRepo, teamRepo)

	router := api.NewRouter(api.Dependencies{
		HMACSecret:       jwtSecret,
		AuthHandler:      handlers.NewAuthHandler(authSvc),
		ResumeHandler:    handlers.NewResumeHandler(parser, authSvc),
		ProjectsHandler:  handlers.NewProjectsHandler(projectSvc, teamSvc),
		TeammatesHandler: handlers.NewTeammatesHandler(teamSvc),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
