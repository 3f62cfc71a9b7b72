package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"social_games_backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresQuizRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresQuizRepository(db), mock
}

func TestCreateQuizWritesHeaderAndQuestionsInOneTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compatibility_questions_quiz_details")).
		WithArgs(5, "T", "", "quiz_1_1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "active", "no_of_responses", "created"}).AddRow(7, true, 0, now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compatibility_questions_quiz (")).
		WithArgs(7, 1, "Q1", "A", "B", "C", "D", "answer_a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compatibility_questions_quiz (")).
		WithArgs(7, 2, "Q2", "A", "B", "C", "D", "answer_d").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectCommit()

	quiz := &models.Quiz{UserID: 5, Title: "T", QuizCode: "quiz_1_1"}
	questions := []models.QuizQuestion{
		{Question: "Q1", CategoryID: 1, AnswerA: "A", AnswerB: "B", AnswerC: "C", AnswerD: "D", CorrectOption: "answer_a"},
		{Question: "Q2", CategoryID: 2, AnswerA: "A", AnswerB: "B", AnswerC: "C", AnswerD: "D", CorrectOption: "answer_d"},
	}

	require.NoError(t, repo.CreateQuiz(context.Background(), quiz, questions))
	assert.Equal(t, 7, quiz.ID)
	assert.True(t, quiz.Active)
	assert.Equal(t, 100, questions[0].ID)
	assert.Equal(t, 101, questions[1].ID)
	assert.Equal(t, 7, questions[1].QuizID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateQuizDuplicateCode(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compatibility_questions_quiz_details")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.CreateQuiz(context.Background(), &models.Quiz{UserID: 1, Title: "T", QuizCode: "dup"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateQuizUnknownCategoryRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compatibility_questions_quiz_details")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "active", "no_of_responses", "created"}).AddRow(7, true, 0, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compatibility_questions_quiz (")).
		WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})
	mock.ExpectRollback()

	err := repo.CreateQuiz(context.Background(), &models.Quiz{UserID: 1, Title: "T", QuizCode: "c"},
		[]models.QuizQuestion{{Question: "Q", CategoryID: 99, CorrectOption: "answer_a"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidReference))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateQuizValueTooLongRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compatibility_questions_quiz_details")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "active", "no_of_responses", "created"}).AddRow(7, true, 0, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compatibility_questions_quiz (")).
		WillReturnError(&pq.Error{Code: "22001", Message: "value too long for type character varying(255)"})
	mock.ExpectRollback()

	err := repo.CreateQuiz(context.Background(), &models.Quiz{UserID: 1, Title: "T", QuizCode: "c"},
		[]models.QuizQuestion{{Question: "Q", CategoryID: 1, CorrectOption: "answer_a"}})
	assert.ErrorIs(t, err, ErrValueTooLong)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuizByCodeNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM compatibility_questions_quiz_details")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "description", "quiz_code", "active", "no_of_responses", "created"}))

	_, err := repo.GetQuizByCode(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSubmissionCommitsEverything(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compatibility_questions_quiz_result_details")).
		WithArgs("u1", 7, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created"}).AddRow(11, now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compatibility_questions_quiz_results")).
		WithArgs(11, 100, "answer_a", "answer_a", models.AnswerCorrect).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created"}).AddRow(21, now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compatibility_questions_quiz_results")).
		WithArgs(11, 101, "answer_b", "answer_c", models.AnswerWrong).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created"}).AddRow(22, now))
	mock.ExpectExec(regexp.QuoteMeta("SET no_of_responses = no_of_responses + 1")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result := &models.QuizResult{User: "u1", QuizID: 7, QuizTotal: 1}
	answers := []models.AnswerRecord{
		{QuestionID: 100, Answer: "answer_a", CorrectAnswer: "answer_a", AnswerType: models.AnswerCorrect},
		{QuestionID: 101, Answer: "answer_b", CorrectAnswer: "answer_c", AnswerType: models.AnswerWrong},
	}

	require.NoError(t, repo.SaveSubmission(context.Background(), result, answers))
	assert.Equal(t, 11, result.ID)
	assert.Equal(t, 11, answers[1].ResultID)
	assert.Equal(t, 22, answers[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSubmissionRollsBackOnAnswerFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compatibility_questions_quiz_result_details")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created"}).AddRow(11, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compatibility_questions_quiz_results")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.SaveSubmission(context.Background(),
		&models.QuizResult{User: "u1", QuizID: 7},
		[]models.AnswerRecord{{QuestionID: 100, Answer: "answer_a", CorrectAnswer: "answer_a", AnswerType: models.AnswerCorrect}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert answer 0")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSubmissionMissingQuizRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO compatibility_questions_quiz_result_details")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created"}).AddRow(11, time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("SET no_of_responses = no_of_responses + 1")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.SaveSubmission(context.Background(), &models.QuizResult{User: "u1", QuizID: 7}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The ranking itself is checked against Postgres in the integration package.
func TestTopResultsQueriesRankingOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY quiz_total DESC, created ASC, id ASC")).
		WithArgs(7, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_label", "quiz_id", "quiz_total", "created"}).
			AddRow(1, "a", 7, 5, now).
			AddRow(3, "c", 7, 5, now.Add(time.Second)).
			AddRow(2, "b", 7, 3, now))

	results, err := repo.TopResults(context.Background(), 7, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].User)
	assert.Equal(t, 3, results[2].QuizTotal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestResultByUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created DESC, id DESC")).
		WithArgs(7, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_label", "quiz_id", "quiz_total", "created"}).
			AddRow(9, "u1", 7, 2, time.Now()))

	res, err := repo.LatestResultByUser(context.Background(), 7, "u1")
	require.NoError(t, err)
	assert.Equal(t, 9, res.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOwnerStats(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(SUM(no_of_responses), 0)")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum", "today"}).AddRow(3, 10, 1))

	stats, err := repo.OwnerStats(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, models.CompatibilityStats{TotalGames: 3, TotalResponses: 10, TodaysActiveGames: 1}, *stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}
