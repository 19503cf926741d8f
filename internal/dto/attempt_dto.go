package dto

import "time"

// AttemptSubmitDTO is the student's answer sheet: question ID to chosen
// option index. Unanswered questions are omitted; an empty map is a valid
// (all-wrong) submission, not an error.
type AttemptSubmitDTO struct {
	Answers map[uint]int `json:"answers"`
}

// StartAttemptDTO is the payload issued when a student begins a quiz:
// metadata plus the redacted question set. Issuing it writes nothing; only
// submission consumes an attempt slot.
type StartAttemptDTO struct {
	Quiz         QuizResponseDTO      `json:"quiz"`
	Questions    []StudentQuestionDTO `json:"questions"`
	AttemptsUsed int                  `json:"attempts_used"`
	MaxAttempts  int                  `json:"max_attempts"`
}

// QuestionResultDTO reveals, post-submission only, how one question was
// graded: the correct index, the submitted index (nil if unanswered) and the
// points earned.
type QuestionResultDTO struct {
	QuestionID     uint `json:"question_id"`
	CorrectIndex   int  `json:"correct_index"`
	SubmittedIndex *int `json:"submitted_index,omitempty"`
	IsCorrect      bool `json:"is_correct"`
	Points         int  `json:"points"`
	EarnedPoints   int  `json:"earned_points"`
}

type AttemptResultDTO struct {
	AttemptID    uint                `json:"attempt_id"`
	QuizID       uint                `json:"quiz_id"`
	AttemptNo    int                 `json:"attempt_no"`
	Score        int                 `json:"score"`
	Passed       bool                `json:"passed"`
	EarnedPoints int                 `json:"earned_points"`
	TotalPoints  int                 `json:"total_points"`
	AttemptsUsed int                 `json:"attempts_used"`
	MaxAttempts  int                 `json:"max_attempts"`
	SubmittedAt  time.Time           `json:"submitted_at"`
	Results      []QuestionResultDTO `json:"results"`
}

type AttemptSummaryDTO struct {
	ID          uint      `json:"id"`
	QuizID      uint      `json:"quiz_id"`
	UserID      uint      `json:"user_id"`
	AttemptNo   int       `json:"attempt_no"`
	Score       int       `json:"score"`
	Passed      bool      `json:"passed"`
	SubmittedAt time.Time `json:"submitted_at"`
}
