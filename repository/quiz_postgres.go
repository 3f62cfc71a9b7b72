package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"social_games_backend/models"
)

type PostgresQuizRepository struct {
	db *sql.DB
}

func NewPostgresQuizRepository(db *sql.DB) *PostgresQuizRepository {
	return &PostgresQuizRepository{db: db}
}

func (r *PostgresQuizRepository) ListTemplates(ctx context.Context) ([]models.Template, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, icon
		FROM compatibility_templates
		WHERE active
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Icon); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *PostgresQuizRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title
		FROM compatibility_questions_category
		WHERE active
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresQuizRepository) ListTemplateQuestions(ctx context.Context) ([]models.TemplateQuestion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cq.id, cq.question, cq.category_id, cqc.title, cq.answer_a, cq.answer_b, cq.answer_c, cq.answer_d
		FROM compatibility_questions cq
		JOIN compatibility_questions_category cqc ON cq.category_id = cqc.id
		WHERE cq.active AND cqc.active
		ORDER BY cq.id
	`)
	if err != nil {
		return nil, fmt.Errorf("query template questions: %w", err)
	}
	defer rows.Close()

	var questions []models.TemplateQuestion
	for rows.Next() {
		var q models.TemplateQuestion
		if err := rows.Scan(&q.ID, &q.Question, &q.CategoryID, &q.CategoryTitle,
			&q.AnswerA, &q.AnswerB, &q.AnswerC, &q.AnswerD); err != nil {
			return nil, fmt.Errorf("scan template question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *PostgresQuizRepository) CreateQuiz(ctx context.Context, quiz *models.Quiz, questions []models.QuizQuestion) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO compatibility_questions_quiz_details (user_id, title, description, quiz_code, active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, active, no_of_responses, created
	`, quiz.UserID, quiz.Title, quiz.Description, quiz.QuizCode).
		Scan(&quiz.ID, &quiz.Active, &quiz.NoOfResponses, &quiz.Created)
	if err != nil {
		return fmt.Errorf("insert quiz: %w", translate(err))
	}

	for i := range questions {
		q := &questions[i]
		q.QuizID = quiz.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO compatibility_questions_quiz (quiz_id, category_id, question, answer_a, answer_b, answer_c, answer_d, correct_option)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`, q.QuizID, q.CategoryID, q.Question, q.AnswerA, q.AnswerB, q.AnswerC, q.AnswerD, q.CorrectOption).Scan(&q.ID)
		if err != nil {
			return fmt.Errorf("insert question %d: %w", i, translate(err))
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit quiz: %w", err)
	}
	return nil
}

func (r *PostgresQuizRepository) GetQuizByCode(ctx context.Context, code string) (*models.Quiz, error) {
	var q models.Quiz
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, quiz_code, active, no_of_responses, created
		FROM compatibility_questions_quiz_details
		WHERE quiz_code = $1 AND active
	`, code).Scan(&q.ID, &q.UserID, &q.Title, &q.Description, &q.QuizCode, &q.Active, &q.NoOfResponses, &q.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query quiz by code: %w", err)
	}
	return &q, nil
}

func (r *PostgresQuizRepository) GetQuestions(ctx context.Context, quizID int) ([]models.QuizQuestion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cq.id, cq.quiz_id, cq.question, cq.category_id, cqc.title,
		       cq.answer_a, cq.answer_b, cq.answer_c, cq.answer_d, cq.correct_option
		FROM compatibility_questions_quiz cq
		JOIN compatibility_questions_category cqc ON cq.category_id = cqc.id
		WHERE cq.quiz_id = $1
		ORDER BY cq.id
	`, quizID)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var questions []models.QuizQuestion
	for rows.Next() {
		var q models.QuizQuestion
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Question, &q.CategoryID, &q.CategoryTitle,
			&q.AnswerA, &q.AnswerB, &q.AnswerC, &q.AnswerD, &q.CorrectOption); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *PostgresQuizRepository) ListQuizzesByOwner(ctx context.Context, ownerID int) ([]models.Quiz, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, description, quiz_code, active, no_of_responses, created
		FROM compatibility_questions_quiz_details
		WHERE user_id = $1
		ORDER BY created DESC, id DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := []models.Quiz{}
	for rows.Next() {
		var q models.Quiz
		if err := rows.Scan(&q.ID, &q.UserID, &q.Title, &q.Description, &q.QuizCode,
			&q.Active, &q.NoOfResponses, &q.Created); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (r *PostgresQuizRepository) SaveSubmission(ctx context.Context, result *models.QuizResult, answers []models.AnswerRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO compatibility_questions_quiz_result_details (user_label, quiz_id, quiz_total)
		VALUES ($1, $2, $3)
		RETURNING id, created
	`, result.User, result.QuizID, result.QuizTotal).Scan(&result.ID, &result.Created)
	if err != nil {
		return fmt.Errorf("insert result: %w", translate(err))
	}

	for i := range answers {
		a := &answers[i]
		a.ResultID = result.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO compatibility_questions_quiz_results (result_id, question_id, answer, correct_answer, answer_type)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created
		`, a.ResultID, a.QuestionID, a.Answer, a.CorrectAnswer, a.AnswerType).Scan(&a.ID, &a.Created)
		if err != nil {
			return fmt.Errorf("insert answer %d: %w", i, translate(err))
		}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE compatibility_questions_quiz_details
		SET no_of_responses = no_of_responses + 1
		WHERE id = $1
	`, result.QuizID)
	if err != nil {
		return fmt.Errorf("increment responses: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment responses: %w", err)
	}
	if affected != 1 {
		return ErrNotFound
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit submission: %w", err)
	}
	return nil
}

func (r *PostgresQuizRepository) TopResults(ctx context.Context, quizID, limit int) ([]models.QuizResult, error) {
	return r.queryResults(ctx, `
		SELECT id, user_label, quiz_id, quiz_total, created
		FROM compatibility_questions_quiz_result_details
		WHERE quiz_id = $1
		ORDER BY quiz_total DESC, created ASC, id ASC
		LIMIT $2
	`, quizID, limit)
}

func (r *PostgresQuizRepository) AllResults(ctx context.Context, quizID int) ([]models.QuizResult, error) {
	return r.queryResults(ctx, `
		SELECT id, user_label, quiz_id, quiz_total, created
		FROM compatibility_questions_quiz_result_details
		WHERE quiz_id = $1
		ORDER BY created ASC, id ASC
	`, quizID)
}

func (r *PostgresQuizRepository) queryResults(ctx context.Context, query string, args ...any) ([]models.QuizResult, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []models.QuizResult
	for rows.Next() {
		var res models.QuizResult
		if err := rows.Scan(&res.ID, &res.User, &res.QuizID, &res.QuizTotal, &res.Created); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// LatestResultByUser returns the most recent submission made under user.
func (r *PostgresQuizRepository) LatestResultByUser(ctx context.Context, quizID int, user string) (*models.QuizResult, error) {
	var res models.QuizResult
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_label, quiz_id, quiz_total, created
		FROM compatibility_questions_quiz_result_details
		WHERE quiz_id = $1 AND user_label = $2
		ORDER BY created DESC, id DESC
		LIMIT 1
	`, quizID, user).Scan(&res.ID, &res.User, &res.QuizID, &res.QuizTotal, &res.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query result by user: %w", err)
	}
	return &res, nil
}

func (r *PostgresQuizRepository) AnswerRecords(ctx context.Context, resultID int) ([]models.AnswerRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, result_id, question_id, answer, correct_answer, answer_type, created
		FROM compatibility_questions_quiz_results
		WHERE result_id = $1
		ORDER BY id
	`, resultID)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	records := []models.AnswerRecord{}
	for rows.Next() {
		var a models.AnswerRecord
		if err := rows.Scan(&a.ID, &a.ResultID, &a.QuestionID, &a.Answer, &a.CorrectAnswer, &a.AnswerType, &a.Created); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

func (r *PostgresQuizRepository) OwnerStats(ctx context.Context, ownerID int) (*models.CompatibilityStats, error) {
	var stats models.CompatibilityStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(no_of_responses), 0),
		       COUNT(*) FILTER (WHERE created::date = CURRENT_DATE)
		FROM compatibility_questions_quiz_details
		WHERE user_id = $1
	`, ownerID).Scan(&stats.TotalGames, &stats.TotalResponses, &stats.TodaysActiveGames)
	if err != nil {
		return nil, fmt.Errorf("query owner stats: %w", err)
	}
	return &stats, nil
}

func (r *PostgresQuizRepository) ActiveGamesToday(ctx context.Context, ownerID int) ([]models.ActiveGame, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, quiz_code, no_of_responses, created
		FROM compatibility_questions_quiz_details
		WHERE user_id = $1 AND created::date = CURRENT_DATE AND active
		ORDER BY created DESC, id DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query active games: %w", err)
	}
	defer rows.Close()

	games := []models.ActiveGame{}
	for rows.Next() {
		var g models.ActiveGame
		if err := rows.Scan(&g.ID, &g.Title, &g.QuizCode, &g.NoOfResponses, &g.Created); err != nil {
			return nil, fmt.Errorf("scan active game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
