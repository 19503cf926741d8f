package model

import (
	"time"
)

// AnswerMap maps question ID to the chosen option index. Unanswered
// questions are simply absent.
type AnswerMap map[uint]int

// Attempt is one scored submission of a quiz by one student. Rows are
// append-only: there is no update or delete path, and the composite unique
// index on (quiz_id, user_id, attempt_no) is what holds the max-attempts
// bound under concurrent submissions.
type Attempt struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	QuizID      uint      `json:"quiz_id" gorm:"not null;uniqueIndex:idx_attempts_quiz_user_no"`
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_attempts_quiz_user_no"`
	AttemptNo   int       `json:"attempt_no" gorm:"not null;uniqueIndex:idx_attempts_quiz_user_no"`
	Answers     AnswerMap `json:"answers" gorm:"serializer:json;type:text;not null"`
	Score       int       `json:"score" gorm:"not null"` // percentage 0-100, fixed at submission
	Passed      bool      `json:"passed" gorm:"not null"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"autoCreateTime"`
	CreatedAt   time.Time `json:"created_at"`
}
