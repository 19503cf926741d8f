package service

import (
	"math"

	"github.com/campushq/eduportal/internal/model"
)

// QuestionResult is the graded outcome of a single question.
type QuestionResult struct {
	QuestionID     uint
	CorrectIndex   int
	SubmittedIndex *int
	IsCorrect      bool
	Points         int
	EarnedPoints   int
}

// ScoreSummary is the deterministic result of grading one answer sheet
// against one question set.
type ScoreSummary struct {
	Score        int // percentage 0-100, rounded half-up
	Passed       bool
	EarnedPoints int
	TotalPoints  int
	Results      []QuestionResult
}

// ScoringService grades fixed-choice answer sheets. It is pure: no I/O, no
// clock, no store; the same inputs always produce the same summary.
type ScoringService interface {
	Grade(questions []model.Question, answers model.AnswerMap, passingScore int) ScoreSummary
}

type scoringService struct{}

func NewScoringService() ScoringService {
	return &scoringService{}
}

func (s *scoringService) Grade(questions []model.Question, answers model.AnswerMap, passingScore int) ScoreSummary {
	summary := ScoreSummary{
		Results: make([]QuestionResult, 0, len(questions)),
	}

	for _, q := range questions {
		result := QuestionResult{
			QuestionID:   q.ID,
			CorrectIndex: q.CorrectIndex,
			Points:       q.Points,
		}
		// An absent answer is a valid, scorable state: zero points, not an
		// error.
		if submitted, answered := answers[q.ID]; answered {
			idx := submitted
			result.SubmittedIndex = &idx
			result.IsCorrect = submitted == q.CorrectIndex
		}
		if result.IsCorrect {
			result.EarnedPoints = q.Points
		}
		summary.TotalPoints += q.Points
		summary.EarnedPoints += result.EarnedPoints
		summary.Results = append(summary.Results, result)
	}

	if summary.TotalPoints > 0 {
		summary.Score = int(math.Round(100 * float64(summary.EarnedPoints) / float64(summary.TotalPoints)))
	}
	summary.Passed = summary.Score >= passingScore
	return summary
}
