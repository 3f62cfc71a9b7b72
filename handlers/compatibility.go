package handlers

import (
	"context"
	"fmt"
	"net/http"

	"social_games_backend/models"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// QuizService is the part of services.QuizService the HTTP layer needs.
type QuizService interface {
	ListTemplates(ctx context.Context) ([]models.Template, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListTemplateQuestions(ctx context.Context) ([]models.TemplateQuestion, error)
	CreateQuiz(ctx context.Context, ownerID int, req *models.CreateQuizRequest) (*models.CreateQuizResponse, error)
	GetQuizByCode(ctx context.Context, code string) (*models.QuizWithQuestions, error)
	SubmitAnswers(ctx context.Context, req *models.SubmitQuizRequest) (*models.SubmitQuizResponse, error)
	ListMyQuizzes(ctx context.Context, ownerID int) ([]models.Quiz, error)
	Leaderboard(ctx context.Context, code string) (*models.Leaderboard, error)
	ResultByUser(ctx context.Context, code, user string) (*models.UserResult, error)
	ExportResults(ctx context.Context, code string) ([]byte, error)
}

type CompatibilityHandler struct {
	quizzes QuizService
	Responder
}

func NewCompatibilityHandler(quizzes QuizService, responder Responder) *CompatibilityHandler {
	return &CompatibilityHandler{quizzes: quizzes, Responder: responder}
}

func (h *CompatibilityHandler) GetTemplates(c *gin.Context) {
	templates, err := h.quizzes.ListTemplates(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Error fetching compatibility templates")
		return
	}
	h.success(c, "Compatibility templates fetched successfully", templates)
}

func (h *CompatibilityHandler) GetQuestionCategories(c *gin.Context) {
	categories, err := h.quizzes.ListCategories(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Error fetching compatibility questions categories")
		return
	}
	h.success(c, "Compatibility questions categories fetched successfully", categories)
}

func (h *CompatibilityHandler) GetQuestions(c *gin.Context) {
	questions, err := h.quizzes.ListTemplateQuestions(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Error fetching compatibility questions")
		return
	}
	h.success(c, "Compatibility questions fetched successfully", questions)
}

// CreateQuestion authors a quiz owned by the caller.
func (h *CompatibilityHandler) CreateQuestion(c *gin.Context) {
	var req models.CreateQuizRequest
	if !h.bindJSON(c, &req) {
		return
	}

	created, err := h.quizzes.CreateQuiz(c.Request.Context(), c.GetInt("userID"), &req)
	if err != nil {
		h.fail(c, err, "Error creating compatibility questions")
		return
	}
	h.success(c, "Compatibility questions created successfully", created)
}

func (h *CompatibilityHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.quizzes.GetQuizByCode(c.Request.Context(), c.Param("quizCode"))
	if err != nil {
		h.fail(c, err, "Error fetching quiz")
		return
	}
	h.success(c, "Quiz fetched successfully", quiz)
}

func (h *CompatibilityHandler) SubmitQuiz(c *gin.Context) {
	var req models.SubmitQuizRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.quizzes.SubmitAnswers(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "Error submitting quiz answers")
		return
	}
	h.success(c, "Quiz submitted successfully", resp)
}

func (h *CompatibilityHandler) GetQuizList(c *gin.Context) {
	quizzes, err := h.quizzes.ListMyQuizzes(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		h.fail(c, err, "Error fetching quizzes")
		return
	}
	h.success(c, "Quizzes fetched successfully", quizzes)
}

func (h *CompatibilityHandler) GetQuizResults(c *gin.Context) {
	board, err := h.quizzes.Leaderboard(c.Request.Context(), c.Param("quizCode"))
	if err != nil {
		h.fail(c, err, "Error fetching quiz results")
		return
	}
	h.success(c, "Quiz results fetched successfully", board)
}

// ExportQuizResults streams the leaderboard as an xlsx attachment.
func (h *CompatibilityHandler) ExportQuizResults(c *gin.Context) {
	code := c.Param("quizCode")
	data, err := h.quizzes.ExportResults(c.Request.Context(), code)
	if err != nil {
		h.fail(c, err, "Error fetching quiz results")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_results.xlsx"`, code))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *CompatibilityHandler) GetUserResult(c *gin.Context) {
	result, err := h.quizzes.ResultByUser(c.Request.Context(), c.Param("quizCode"), c.Param("userName"))
	if err != nil {
		h.fail(c, err, "Error fetching quiz result")
		return
	}
	h.success(c, "Quiz result fetched successfully", result)
}
