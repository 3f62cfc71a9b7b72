package models

import "time"

// Answer tags stored on every answer record.
const (
	AnswerCorrect = "CORRECT"
	AnswerWrong   = "WRONG"
)

type Template struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Category struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// TemplateQuestion is a seeded question the app offers while authoring. It
// carries no correct option; the author picks one.
type TemplateQuestion struct {
	ID            int    `json:"id"`
	Question      string `json:"question"`
	CategoryID    int    `json:"category_id"`
	CategoryTitle string `json:"category_title"`
	AnswerA       string `json:"answer_a"`
	AnswerB       string `json:"answer_b"`
	AnswerC       string `json:"answer_c"`
	AnswerD       string `json:"answer_d"`
}

// Quiz is the header row of an authored quiz.
type Quiz struct {
	ID            int       `json:"id"`
	UserID        int       `json:"-"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	QuizCode      string    `json:"quiz_code"`
	Active        bool      `json:"active"`
	NoOfResponses int       `json:"no_of_responses"`
	Created       time.Time `json:"created"`
}

type QuizQuestion struct {
	ID            int    `json:"id"`
	QuizID        int    `json:"-"`
	Question      string `json:"question"`
	CategoryID    int    `json:"category_id"`
	CategoryTitle string `json:"category_title"`
	AnswerA       string `json:"answer_a"`
	AnswerB       string `json:"answer_b"`
	AnswerC       string `json:"answer_c"`
	AnswerD       string `json:"answer_d"`
	CorrectOption string `json:"correct_option"`
}

// QuizResult is one submission. User is a free-text label, not an account.
type QuizResult struct {
	ID        int       `json:"id"`
	User      string    `json:"user"`
	QuizID    int       `json:"-"`
	QuizTotal int       `json:"quiz_total"`
	Created   time.Time `json:"created"`
}

type AnswerRecord struct {
	ID            int       `json:"id"`
	ResultID      int       `json:"-"`
	QuestionID    int       `json:"question_id"`
	Answer        string    `json:"answer"`
	CorrectAnswer string    `json:"correct_answer"`
	AnswerType    string    `json:"answer_type"`
	Created       time.Time `json:"-"`
}

type CreateQuizRequest struct {
	Title       string          `json:"title" binding:"required,max=255"`
	Description string          `json:"description"`
	Questions   []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

type QuestionInput struct {
	Question      string `json:"question" binding:"required"`
	CategoryID    int    `json:"category_id" binding:"required,gt=0"`
	AnswerA       string `json:"answer_a" binding:"required,max=255"`
	AnswerB       string `json:"answer_b" binding:"required,max=255"`
	AnswerC       string `json:"answer_c" binding:"required,max=255"`
	AnswerD       string `json:"answer_d" binding:"required,max=255"`
	CorrectOption string `json:"correct_option" binding:"required,answer_option"`
}

type CreateQuizResponse struct {
	QuizID   int    `json:"quiz_id"`
	QuizCode string `json:"quiz_code"`
}

type SubmitQuizRequest struct {
	QuizCode string            `json:"quiz_code" binding:"required"`
	User     string            `json:"user" binding:"required,max=255"`
	Answers  []SubmittedAnswer `json:"answers" binding:"required,min=1,dive"`
}

type SubmittedAnswer struct {
	QuestionID     int    `json:"question_id" binding:"required,gt=0"`
	SelectedOption string `json:"selected_option" binding:"required,max=255"`
}

type SubmitQuizResponse struct {
	Score int `json:"score"`
}

type QuizWithQuestions struct {
	Quiz      Quiz           `json:"quiz"`
	Questions []QuizQuestion `json:"questions"`
}

type Leaderboard struct {
	Quiz       Quiz         `json:"quiz"`
	TopResults []QuizResult `json:"topResults"`
	AllResults []QuizResult `json:"allResults"`
}

type UserResult struct {
	Quiz           Quiz           `json:"quiz"`
	ResultOverview QuizResult     `json:"resultOverview"`
	Result         []AnswerRecord `json:"result"`
}
