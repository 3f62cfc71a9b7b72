package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"social_games_backend/cache"
	"social_games_backend/events"
	"social_games_backend/logging"
	"social_games_backend/metrics"
	"social_games_backend/models"
	"social_games_backend/repository"
	"social_games_backend/validation"

	"github.com/go-playground/validator/v10"
)

const (
	topResultsLimit = 3
	maxCodeAttempts = 3
)

// CodeSource hands out candidate public codes.
type CodeSource interface {
	Next() string
}

// QuizService runs the compatibility quiz pipeline: authoring, lookup by
// public code, grading submissions and reading results back.
type QuizService struct {
	repo      repository.QuizRepository
	questions cache.QuestionCache
	publisher events.Publisher
	codes     CodeSource
	validate  *validator.Validate
	logger    logging.Logger
}

func NewQuizService(
	repo repository.QuizRepository,
	questions cache.QuestionCache,
	publisher events.Publisher,
	codes CodeSource,
	logger logging.Logger,
) *QuizService {
	return &QuizService{
		repo:      repo,
		questions: questions,
		publisher: publisher,
		codes:     codes,
		validate:  validation.New(),
		logger:    logger,
	}
}

func (s *QuizService) ListTemplates(ctx context.Context) ([]models.Template, error) {
	templates, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	if len(templates) == 0 {
		return nil, ErrTemplatesNotFound
	}
	return templates, nil
}

func (s *QuizService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, ErrCategoriesNotFound
	}
	return categories, nil
}

func (s *QuizService) ListTemplateQuestions(ctx context.Context) ([]models.TemplateQuestion, error) {
	questions, err := s.repo.ListTemplateQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list template questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrTemplateQuestionsNotFound
	}
	return questions, nil
}

// CreateQuiz validates the whole batch, then stores the header and every
// question atomically under a freshly generated public code. A code collision
// is retried with a new code.
func (s *QuizService) CreateQuiz(ctx context.Context, ownerID int, req *models.CreateQuizRequest) (*models.CreateQuizResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validation.FromError(err)
	}

	questions := make([]models.QuizQuestion, len(req.Questions))
	for i, in := range req.Questions {
		questions[i] = models.QuizQuestion{
			Question:      in.Question,
			CategoryID:    in.CategoryID,
			AnswerA:       in.AnswerA,
			AnswerB:       in.AnswerB,
			AnswerC:       in.AnswerC,
			AnswerD:       in.AnswerD,
			CorrectOption: in.CorrectOption,
		}
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		quiz := &models.Quiz{
			UserID:      ownerID,
			Title:       req.Title,
			Description: req.Description,
			QuizCode:    s.codes.Next(),
		}

		err := s.repo.CreateQuiz(ctx, quiz, questions)
		switch {
		case err == nil:
			metrics.QuizCreated()
			s.logger.InfoContext(ctx, "quiz created",
				"quiz_id", quiz.ID, "quiz_code", quiz.QuizCode, "owner_id", ownerID, "questions", len(questions))
			s.publish(ctx, events.NewQuizCreatedEvent(quiz.ID, quiz.QuizCode, ownerID, len(questions)))
			return &models.CreateQuizResponse{QuizID: quiz.ID, QuizCode: quiz.QuizCode}, nil
		case errors.Is(err, repository.ErrDuplicate):
			s.logger.Warn("quiz code collision, regenerating", "quiz_code", quiz.QuizCode, "attempt", attempt)
		case errors.Is(err, repository.ErrInvalidReference):
			return nil, validation.NewValidationError("questions.category_id", "references an unknown category")
		case errors.Is(err, repository.ErrValueTooLong):
			return nil, validation.NewValidationError("questions", "contains a value that is too long")
		default:
			return nil, fmt.Errorf("create quiz: %w", err)
		}
	}
	return nil, ErrCodeExhausted
}

// GetQuizByCode returns an active quiz with its questions in authoring order.
func (s *QuizService) GetQuizByCode(ctx context.Context, code string) (*models.QuizWithQuestions, error) {
	quiz, err := s.resolveQuiz(ctx, code)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.Questions(ctx, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	return &models.QuizWithQuestions{Quiz: *quiz, Questions: questions}, nil
}

// SubmitAnswers grades a submission in memory and then persists the result,
// its answer records and the response counter bump as one unit.
func (s *QuizService) SubmitAnswers(ctx context.Context, req *models.SubmitQuizRequest) (*models.SubmitQuizResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validation.FromError(err)
	}

	quiz, err := s.resolveQuiz(ctx, req.QuizCode)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.Questions(ctx, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	score, records, err := Grade(questions, req.Answers)
	if err != nil {
		return nil, err
	}

	result := &models.QuizResult{User: req.User, QuizID: quiz.ID, QuizTotal: score}
	if err := s.repo.SaveSubmission(ctx, result, records); err != nil {
		metrics.SubmissionFailed()
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		if errors.Is(err, repository.ErrValueTooLong) {
			return nil, validation.NewValidationError("answers", "contains a value that is too long")
		}
		return nil, fmt.Errorf("save submission: %w", err)
	}

	metrics.SubmissionRecorded(score, len(records))
	s.logger.InfoContext(ctx, "quiz submitted",
		"quiz_id", quiz.ID, "result_id", result.ID, "score", score, "answers", len(records))
	s.publish(ctx, events.NewQuizSubmittedEvent(quiz.ID, quiz.QuizCode, result.ID, result.User, score))

	return &models.SubmitQuizResponse{Score: score}, nil
}

func (s *QuizService) ListMyQuizzes(ctx context.Context, ownerID int) ([]models.Quiz, error) {
	quizzes, err := s.repo.ListQuizzesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

// Leaderboard returns the top three results (ties go to the earlier
// submission) and every result in submission order.
func (s *QuizService) Leaderboard(ctx context.Context, code string) (*models.Leaderboard, error) {
	quiz, err := s.resolveQuiz(ctx, code)
	if err != nil {
		return nil, err
	}

	top, err := s.repo.TopResults(ctx, quiz.ID, topResultsLimit)
	if err != nil {
		return nil, fmt.Errorf("top results: %w", err)
	}
	if len(top) == 0 {
		return nil, ErrNoResults
	}

	all, err := s.repo.AllResults(ctx, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("all results: %w", err)
	}

	return &models.Leaderboard{Quiz: *quiz, TopResults: top, AllResults: all}, nil
}

// ResultByUser returns the most recent submission made under user, with its
// per-question answer records.
func (s *QuizService) ResultByUser(ctx context.Context, code, user string) (*models.UserResult, error) {
	if strings.TrimSpace(user) == "" {
		return nil, validation.NewValidationError("user", "is required")
	}

	quiz, err := s.resolveQuiz(ctx, code)
	if err != nil {
		return nil, err
	}

	result, err := s.repo.LatestResultByUser(ctx, quiz.ID, user)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("result by user: %w", err)
	}

	records, err := s.repo.AnswerRecords(ctx, result.ID)
	if err != nil {
		return nil, fmt.Errorf("answer records: %w", err)
	}

	return &models.UserResult{Quiz: *quiz, ResultOverview: *result, Result: records}, nil
}

func (s *QuizService) resolveQuiz(ctx context.Context, code string) (*models.Quiz, error) {
	if strings.TrimSpace(code) == "" {
		return nil, validation.NewValidationError("quiz_code", "is required")
	}

	quiz, err := s.repo.GetQuizByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve quiz: %w", err)
	}
	return quiz, nil
}

// publish runs after the write has committed, so a broker failure is logged
// and never fails the request.
func (s *QuizService) publish(ctx context.Context, event *events.QuizEvent) {
	if err := s.publisher.PublishQuizEvent(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "publish quiz event failed",
			"event_type", event.Type, "quiz_id", event.QuizID, "error", err)
	}
}
