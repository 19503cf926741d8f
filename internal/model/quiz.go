package model

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	CourseID        uint           `json:"course_id" gorm:"not null;index"`
	Title           string         `json:"title" gorm:"not null"`
	Description     string         `json:"description,omitempty"`
	DurationMinutes int            `json:"duration_minutes" gorm:"not null;default:30"`
	PassingScore    int            `json:"passing_score" gorm:"not null;default:70"` // percentage 0-100
	MaxAttempts     int            `json:"max_attempts" gorm:"not null;default:3"`
	IsActive        bool           `json:"is_active" gorm:"not null;default:true"`
	Questions       []Question     `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
