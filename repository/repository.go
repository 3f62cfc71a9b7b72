package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"social_games_backend/models"

	"github.com/lib/pq"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects the write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInvalidReference is returned when a foreign key points nowhere.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrValueTooLong is returned when a value overflows its column.
	ErrValueTooLong = errors.New("value too long")
)

// QuizRepository persists compatibility quizzes, their questions and every
// submission made against them.
type QuizRepository interface {
	ListTemplates(ctx context.Context) ([]models.Template, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListTemplateQuestions(ctx context.Context) ([]models.TemplateQuestion, error)

	// CreateQuiz writes the header and all questions in one transaction and
	// fills in the generated ids.
	CreateQuiz(ctx context.Context, quiz *models.Quiz, questions []models.QuizQuestion) error
	GetQuizByCode(ctx context.Context, code string) (*models.Quiz, error)
	GetQuestions(ctx context.Context, quizID int) ([]models.QuizQuestion, error)
	ListQuizzesByOwner(ctx context.Context, ownerID int) ([]models.Quiz, error)

	// SaveSubmission writes the graded result, its answer records and the
	// response counter bump in one transaction.
	SaveSubmission(ctx context.Context, result *models.QuizResult, answers []models.AnswerRecord) error
	TopResults(ctx context.Context, quizID, limit int) ([]models.QuizResult, error)
	AllResults(ctx context.Context, quizID int) ([]models.QuizResult, error)
	LatestResultByUser(ctx context.Context, quizID int, user string) (*models.QuizResult, error)
	AnswerRecords(ctx context.Context, resultID int) ([]models.AnswerRecord, error)

	OwnerStats(ctx context.Context, ownerID int) (*models.CompatibilityStats, error)
	ActiveGamesToday(ctx context.Context, ownerID int) ([]models.ActiveGame, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type TokenRepository interface {
	Store(ctx context.Context, userID int, token string, expiresAt time.Time) error
	UserIDForToken(ctx context.Context, token string) (int, error)
	Delete(ctx context.Context, token string) error
	DeleteForUser(ctx context.Context, userID int, token string) error
}

// translate maps Postgres constraint violations onto the package sentinels.
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case "23503":
			return fmt.Errorf("%w: %w", ErrInvalidReference, err)
		case "22001":
			return fmt.Errorf("%w: %w", ErrValueTooLong, err)
		}
	}
	return err
}
