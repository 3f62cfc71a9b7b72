package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	QuizCreated   EventType = "compatibility.quiz_created"
	QuizSubmitted EventType = "compatibility.quiz_submitted"
)

const (
	eventSource  = "social-games-backend"
	eventVersion = "1.0"
)

// QuizEvent is published after a quiz write commits.
type QuizEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`

	QuizID        int    `json:"quiz_id"`
	QuizCode      string `json:"quiz_code"`
	OwnerID       int    `json:"owner_id,omitempty"`
	QuestionCount int    `json:"question_count,omitempty"`
	ResultID      int    `json:"result_id,omitempty"`
	User          string `json:"user,omitempty"`
	Score         int    `json:"score,omitempty"`
}

func newEvent(t EventType, quizID int, quizCode string) *QuizEvent {
	return &QuizEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		QuizID:    quizID,
		QuizCode:  quizCode,
	}
}

func NewQuizCreatedEvent(quizID int, quizCode string, ownerID, questionCount int) *QuizEvent {
	e := newEvent(QuizCreated, quizID, quizCode)
	e.OwnerID = ownerID
	e.QuestionCount = questionCount
	return e
}

func NewQuizSubmittedEvent(quizID int, quizCode string, resultID int, user string, score int) *QuizEvent {
	e := newEvent(QuizSubmitted, quizID, quizCode)
	e.ResultID = resultID
	e.User = user
	e.Score = score
	return e
}
