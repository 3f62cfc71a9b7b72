package services

import (
	"context"
	"sync"

	"social_games_backend/events"
	"social_games_backend/models"

	"github.com/stretchr/testify/mock"
)

// MockQuizRepository is a mock implementation of repository.QuizRepository
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) ListTemplates(ctx context.Context) ([]models.Template, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Template), args.Error(1)
}

func (m *MockQuizRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockQuizRepository) ListTemplateQuestions(ctx context.Context) ([]models.TemplateQuestion, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.TemplateQuestion), args.Error(1)
}

func (m *MockQuizRepository) CreateQuiz(ctx context.Context, quiz *models.Quiz, questions []models.QuizQuestion) error {
	args := m.Called(ctx, quiz, questions)
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuizByCode(ctx context.Context, code string) (*models.Quiz, error) {
	args := m.Called(ctx, code)
	quiz, _ := args.Get(0).(*models.Quiz)
	return quiz, args.Error(1)
}

func (m *MockQuizRepository) GetQuestions(ctx context.Context, quizID int) ([]models.QuizQuestion, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).([]models.QuizQuestion), args.Error(1)
}

func (m *MockQuizRepository) ListQuizzesByOwner(ctx context.Context, ownerID int) ([]models.Quiz, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]models.Quiz), args.Error(1)
}

func (m *MockQuizRepository) SaveSubmission(ctx context.Context, result *models.QuizResult, answers []models.AnswerRecord) error {
	args := m.Called(ctx, result, answers)
	return args.Error(0)
}

func (m *MockQuizRepository) TopResults(ctx context.Context, quizID, limit int) ([]models.QuizResult, error) {
	args := m.Called(ctx, quizID, limit)
	return args.Get(0).([]models.QuizResult), args.Error(1)
}

func (m *MockQuizRepository) AllResults(ctx context.Context, quizID int) ([]models.QuizResult, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).([]models.QuizResult), args.Error(1)
}

func (m *MockQuizRepository) LatestResultByUser(ctx context.Context, quizID int, user string) (*models.QuizResult, error) {
	args := m.Called(ctx, quizID, user)
	result, _ := args.Get(0).(*models.QuizResult)
	return result, args.Error(1)
}

func (m *MockQuizRepository) AnswerRecords(ctx context.Context, resultID int) ([]models.AnswerRecord, error) {
	args := m.Called(ctx, resultID)
	return args.Get(0).([]models.AnswerRecord), args.Error(1)
}

func (m *MockQuizRepository) OwnerStats(ctx context.Context, ownerID int) (*models.CompatibilityStats, error) {
	args := m.Called(ctx, ownerID)
	stats, _ := args.Get(0).(*models.CompatibilityStats)
	return stats, args.Error(1)
}

func (m *MockQuizRepository) ActiveGamesToday(ctx context.Context, ownerID int) ([]models.ActiveGame, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]models.ActiveGame), args.Error(1)
}

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.QuizEvent
	err    error
}

func (p *recordingPublisher) PublishQuizEvent(ctx context.Context, event *events.QuizEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []events.QuizEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.QuizEvent(nil), p.events...)
}

// fixedCodes returns the given codes in order.
type fixedCodes struct {
	codes []string
	next  int
}

func (f *fixedCodes) Next() string {
	c := f.codes[f.next%len(f.codes)]
	f.next++
	return c
}
