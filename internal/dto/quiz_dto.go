package dto

import "time"

// QuizCreateDTO is for instructors creating a quiz in one of their courses.
// Duration, passing score and max attempts fall back to the configured
// defaults when omitted.
type QuizCreateDTO struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description,omitempty"`
	DurationMinutes *int   `json:"duration_minutes" binding:"omitempty,min=1"`
	PassingScore    *int   `json:"passing_score" binding:"omitempty,min=0,max=100"`
	MaxAttempts     *int   `json:"max_attempts" binding:"omitempty,min=1"`
}

// QuizUpdateDTO carries a partial field set; nil fields are left untouched.
type QuizUpdateDTO struct {
	Title           *string `json:"title" binding:"omitempty,min=1"`
	Description     *string `json:"description"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,min=1"`
	PassingScore    *int    `json:"passing_score" binding:"omitempty,min=0,max=100"`
	MaxAttempts     *int    `json:"max_attempts" binding:"omitempty,min=1"`
	IsActive        *bool   `json:"is_active"`
}

type QuizResponseDTO struct {
	ID              uint      `json:"id"`
	CourseID        uint      `json:"course_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	PassingScore    int       `json:"passing_score"`
	MaxAttempts     int       `json:"max_attempts"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// QuizSummaryDTO is the instructor list row: quiz metadata plus the attempt
// aggregates shown in course views.
type QuizSummaryDTO struct {
	QuizResponseDTO
	QuestionCount int      `json:"question_count"`
	AttemptCount  int      `json:"attempt_count"`
	AverageScore  *float64 `json:"average_score,omitempty"` // nil while no attempts exist
}

// QuizStatisticsDTO is the per-quiz reporting view for instructors.
type QuizStatisticsDTO struct {
	QuizID         uint                `json:"quiz_id"`
	AttemptCount   int                 `json:"attempt_count"`
	DistinctUsers  int                 `json:"distinct_users"`
	EnrolledUsers  int                 `json:"enrolled_users"`
	AverageScore   float64             `json:"average_score"`
	CompletionRate float64             `json:"completion_rate"` // distinct users attempted / enrolled users
	PassRate       float64             `json:"pass_rate"`
	Attempts       []AttemptSummaryDTO `json:"attempts"`
}
