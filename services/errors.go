package services

import (
	"errors"

	"social_games_backend/validation"
)

var (
	ErrTemplatesNotFound         = errors.New("no compatibility templates found")
	ErrCategoriesNotFound        = errors.New("no compatibility question categories found")
	ErrTemplateQuestionsNotFound = errors.New("no compatibility questions found")

	ErrQuizNotFound   = errors.New("quiz not found")
	ErrNoQuestions    = errors.New("no questions found for this quiz")
	ErrNoResults      = errors.New("no results found for this quiz")
	ErrResultNotFound = errors.New("no result found for this user")

	// ErrCodeExhausted means every generated public code collided.
	ErrCodeExhausted = errors.New("could not allocate a unique quiz code")
)

type ValidationError = validation.ValidationError
type ValidationErrors = validation.ValidationErrors
