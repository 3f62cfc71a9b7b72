package cache

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"social_games_backend/logging"
	"social_games_backend/metrics"
	"social_games_backend/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches a quiz's question set from the backing store.
type QuestionLoader interface {
	GetQuestions(ctx context.Context, quizID int) ([]models.QuizQuestion, error)
}

// QuestionCache serves question sets. They never change after authoring, so
// entries only expire by TTL.
type QuestionCache interface {
	Questions(ctx context.Context, quizID int) ([]models.QuizQuestion, error)
}

// RedisQuestionCache stores each question set as one JSON value under
// compatibility:quiz:{id}:questions and falls back to the loader on a miss.
type RedisQuestionCache struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	logger logging.Logger
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRedisQuestionCache(client *redis.Client, loader QuestionLoader, ttl time.Duration, logger logging.Logger) *RedisQuestionCache {
	return &RedisQuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		logger: logger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *RedisQuestionCache) Questions(ctx context.Context, quizID int) ([]models.QuizQuestion, error) {
	if questions, ok := c.lookup(ctx, quizID); ok {
		metrics.CacheHit()
		return questions, nil
	}
	metrics.CacheMiss()

	result, err, _ := c.sf.Do(strconv.Itoa(quizID), func() (interface{}, error) {
		// The load is shared by every waiter, so it must outlive the
		// caller that happened to start it.
		loadCtx := context.WithoutCancel(ctx)

		// Another caller may have filled the entry while we waited.
		if questions, ok := c.lookup(loadCtx, quizID); ok {
			return questions, nil
		}

		questions, err := c.loader.GetQuestions(loadCtx, quizID)
		if err != nil {
			return nil, err
		}
		if len(questions) > 0 {
			c.store(loadCtx, quizID, questions)
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.QuizQuestion), nil
}

// Invalidate drops a cached set. Question sets are immutable, so this is only
// needed by maintenance paths that rewrite rows directly.
func (c *RedisQuestionCache) Invalidate(ctx context.Context, quizID int) error {
	return c.client.Del(ctx, questionsKey(quizID)).Err()
}

func (c *RedisQuestionCache) PingContext(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisQuestionCache) lookup(ctx context.Context, quizID int) ([]models.QuizQuestion, bool) {
	raw, err := c.client.Get(ctx, questionsKey(quizID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("question cache read failed", "quiz_id", quizID, "error", err)
		}
		return nil, false
	}

	var questions []models.QuizQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		c.logger.Warn("question cache entry corrupt", "quiz_id", quizID, "error", err)
		return nil, false
	}
	// QuizID is not serialised; restore it.
	for i := range questions {
		questions[i].QuizID = quizID
	}
	return questions, true
}

func (c *RedisQuestionCache) store(ctx context.Context, quizID int, questions []models.QuizQuestion) {
	raw, err := json.Marshal(questions)
	if err != nil {
		c.logger.Warn("question cache encode failed", "quiz_id", quizID, "error", err)
		return
	}
	if err := c.client.Set(ctx, questionsKey(quizID), raw, c.ttlWithJitter()).Err(); err != nil {
		c.logger.Warn("question cache write failed", "quiz_id", quizID, "error", err)
	}
}

func (c *RedisQuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func questionsKey(quizID int) string {
	return "compatibility:quiz:" + strconv.Itoa(quizID) + ":questions"
}

// Passthrough is used when no redis is configured.
type Passthrough struct {
	loader QuestionLoader
}

func NewPassthrough(loader QuestionLoader) *Passthrough {
	return &Passthrough{loader: loader}
}

func (p *Passthrough) Questions(ctx context.Context, quizID int) ([]models.QuizQuestion, error) {
	return p.loader.GetQuestions(ctx, quizID)
}
