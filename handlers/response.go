package handlers

import (
	"errors"
	"net/http"

	"social_games_backend/logging"
	"social_games_backend/services"
	"social_games_backend/validation"

	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "1"
	statusFailure = "0"
)

// notFoundMessages maps service sentinels to the 404 text clients show.
var notFoundMessages = map[error]string{
	services.ErrTemplatesNotFound:         "No compatibility templates found",
	services.ErrCategoriesNotFound:        "No compatibility questions categories found",
	services.ErrTemplateQuestionsNotFound: "No compatibility questions found",
	services.ErrQuizNotFound:              "Quiz not found",
	services.ErrNoQuestions:               "No questions found for this quiz",
	services.ErrNoResults:                 "No results found for this quiz",
	services.ErrResultNotFound:            "No result found for this user",
}

// Responder writes the {status, message, data|error} envelope. Failures always
// carry an "error" key; raw error text fills it only when ExposeErrors is set.
type Responder struct {
	ExposeErrors bool
}

func (r Responder) success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, gin.H{
		"status":  statusSuccess,
		"message": message,
		"data":    data,
	})
}

func (r Responder) failure(c *gin.Context, status int, message string, err error) {
	detail := ""
	if err != nil && r.ExposeErrors {
		detail = err.Error()
	}
	c.JSON(status, gin.H{
		"status":  statusFailure,
		"message": message,
		"error":   detail,
	})
}

// fail maps err onto a status code. fallback is the 500 message.
func (r Responder) fail(c *gin.Context, err error, fallback string) {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  statusFailure,
			"message": "Validation failed",
			"error":   verrs,
		})
		return
	}

	for sentinel, message := range notFoundMessages {
		if errors.Is(err, sentinel) {
			r.failure(c, http.StatusNotFound, message, nil)
			return
		}
	}

	logging.FromContext(c).LogError(err, fallback, "path", c.FullPath())
	r.failure(c, http.StatusInternalServerError, fallback, err)
}

// bindJSON decodes the body into req and writes a 400 on failure.
func (r Responder) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		r.fail(c, validation.FromError(err), "")
		return false
	}
	return true
}
