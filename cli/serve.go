package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social_games_backend/cache"
	"social_games_backend/config"
	"social_games_backend/db"
	"social_games_backend/events"
	"social_games_backend/handlers"
	"social_games_backend/logging"
	"social_games_backend/middleware"
	"social_games_backend/repository"
	"social_games_backend/routes"
	"social_games_backend/services"
	"social_games_backend/validation"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewServeCmd builds the CLI subcommand to start the HTTP server.
func NewServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath)
		},
	}
}

func runServer(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(cfg.Environment)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validation.RegisterGin()

	database, err := db.Initialize(ctx, cfg.DSN())
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrate(ctx, database, logger); err != nil {
		return err
	}

	quizRepo := repository.NewPostgresQuizRepository(database)
	userRepo := repository.NewPostgresUserRepository(database)
	tokenRepo := repository.NewPostgresTokenRepository(database)

	var (
		questions   cache.QuestionCache = cache.NewPassthrough(quizRepo)
		cachePinger handlers.Pinger
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		redisCache := cache.NewRedisQuestionCache(redisClient, quizRepo, cfg.QuestionCacheTTL(), logger)
		questions = redisCache
		cachePinger = redisCache
		logger.Info("question cache enabled", "addr", cfg.RedisAddr)
	}

	publisher, err := events.NewPublisher(events.PublisherConfig{
		KafkaBrokers: cfg.GetKafkaBrokers(),
		Topic:        cfg.EventsTopic,
		Logger:       logging.ToSlog(logger),
	})
	if err != nil {
		return err
	}
	defer publisher.Close()

	quizService := services.NewQuizService(quizRepo, questions, publisher, services.NewCodeGenerator(), logger)
	homeService := services.NewHomeService(quizRepo)
	tokenService := middleware.NewTokenService(tokenRepo, []byte(cfg.JWTSecret), cfg.TokenTTL())

	r := gin.New()
	routes.SetupRoutes(r, routes.Dependencies{
		DB:           database,
		Cache:        cachePinger,
		Quizzes:      quizService,
		Home:         homeService,
		Users:        userRepo,
		Tokens:       tokenService,
		Logger:       logger,
		ExposeErrors: !cfg.IsProduction(),
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	logger.Info("starting server", "port", cfg.ServerPort, "environment", cfg.Environment)
	return serve(ctx, server, stop, logger)
}

// serve runs the server until a signal arrives, ctx is canceled or the
// listener fails. A listener failure is returned instead of waiting forever.
func serve(ctx context.Context, server *http.Server, stop <-chan os.Signal, logger logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.LogError(err, "server stopped unexpectedly")
			return err
		}
		return nil
	case <-stop:
		logger.Info("shutting down server...")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
