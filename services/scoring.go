package services

import (
	"fmt"

	"social_games_backend/models"
)

// Grade scores answers against the quiz's question set in input order.
// Every answer must reference a question of that quiz. Nothing is written.
func Grade(questions []models.QuizQuestion, answers []models.SubmittedAnswer) (int, []models.AnswerRecord, error) {
	byID := make(map[int]models.QuizQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	var verrs ValidationErrors
	for i, a := range answers {
		if _, ok := byID[a.QuestionID]; !ok {
			verrs = append(verrs, ValidationError{
				Field:   fmt.Sprintf("answers[%d].question_id", i),
				Message: "does not belong to this quiz",
				Rule:    "quiz_question",
			})
		}
	}
	if len(verrs) > 0 {
		return 0, nil, verrs
	}

	score := 0
	records := make([]models.AnswerRecord, 0, len(answers))
	for _, a := range answers {
		q := byID[a.QuestionID]
		answerType := models.AnswerWrong
		if a.SelectedOption == q.CorrectOption {
			score++
			answerType = models.AnswerCorrect
		}
		records = append(records, models.AnswerRecord{
			QuestionID:    a.QuestionID,
			Answer:        a.SelectedOption,
			CorrectAnswer: q.CorrectOption,
			AnswerType:    answerType,
		})
	}
	return score, records, nil
}
