package cli

import (
	"context"
	"errors"
	"fmt"

	"social_games_backend/cache"
	"social_games_backend/config"
	"social_games_backend/db"
	"social_games_backend/logging"
	"social_games_backend/models"
	"social_games_backend/repository"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

type quizFinder interface {
	GetQuizByCode(ctx context.Context, code string) (*models.Quiz, error)
}

type questionEvictor interface {
	Invalidate(ctx context.Context, quizID int) error
}

// NewCacheEvictCmd drops cached question sets for the given quiz codes. Use it
// after rows have been edited by hand.
func NewCacheEvictCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cache-evict QUIZ_CODE...",
		Short: "Evict cached question sets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheEvict(cmd.Context(), *configPath, args)
		},
	}
}

func runCacheEvict(ctx context.Context, configPath string, codes []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.RedisAddr == "" {
		return errors.New("REDIS_ADDR is not set, nothing to evict")
	}
	logger := logging.New(cfg.Environment)

	database, err := db.Initialize(ctx, cfg.DSN())
	if err != nil {
		return err
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	quizRepo := repository.NewPostgresQuizRepository(database)
	questions := cache.NewRedisQuestionCache(redisClient, quizRepo, cfg.QuestionCacheTTL(), logger)
	return evictQuestionSets(ctx, quizRepo, questions, codes, logger)
}

func evictQuestionSets(ctx context.Context, quizzes quizFinder, evictor questionEvictor, codes []string, logger logging.Logger) error {
	for _, code := range codes {
		quiz, err := quizzes.GetQuizByCode(ctx, code)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", code, err)
		}
		if err := evictor.Invalidate(ctx, quiz.ID); err != nil {
			return fmt.Errorf("evict %s: %w", code, err)
		}
		logger.Info("question set evicted", "quiz_code", code, "quiz_id", quiz.ID)
	}
	return nil
}
