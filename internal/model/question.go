package model

import (
	"time"

	"gorm.io/gorm"
)

// MaxQuizPoints is the points budget shared by all questions of one quiz.
const MaxQuizPoints = 100

type Question struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	QuizID       uint           `json:"quiz_id" gorm:"not null;index"`
	Prompt       string         `json:"prompt" gorm:"type:text;not null"`
	Options      []string       `json:"options" gorm:"serializer:json;type:text;not null"`
	CorrectIndex int            `json:"correct_index" gorm:"not null"`
	Points       int            `json:"points" gorm:"not null"`
	OrderInQuiz  int            `json:"order_in_quiz" gorm:"not null"` // display order; gaps permitted after deletes
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
