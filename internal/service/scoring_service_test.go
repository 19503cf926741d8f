package service_test

import (
	"testing"

	"github.com/campushq/eduportal/internal/model"
	"github.com/campushq/eduportal/internal/service"
	"github.com/stretchr/testify/require"
)

func question(id uint, points, correctIndex int) model.Question {
	return model.Question{
		ID:           id,
		Prompt:       "q",
		Options:      []string{"a", "b", "c"},
		CorrectIndex: correctIndex,
		Points:       points,
	}
}

func TestGrade_PartialCredit(t *testing.T) {
	scoring := service.NewScoringService()
	questions := []model.Question{question(1, 60, 0), question(2, 40, 1)}

	// Only the 60-point question answered correctly.
	summary := scoring.Grade(questions, model.AnswerMap{1: 0, 2: 2}, 70)

	require.Equal(t, 60, summary.Score)
	require.False(t, summary.Passed)
	require.Equal(t, 60, summary.EarnedPoints)
	require.Equal(t, 100, summary.TotalPoints)
}

func TestGrade_FullMarks(t *testing.T) {
	scoring := service.NewScoringService()
	questions := []model.Question{question(1, 60, 0), question(2, 40, 1)}

	summary := scoring.Grade(questions, model.AnswerMap{1: 0, 2: 1}, 70)

	require.Equal(t, 100, summary.Score)
	require.True(t, summary.Passed)
}

func TestGrade_UnansweredIsIncorrectNotError(t *testing.T) {
	scoring := service.NewScoringService()
	questions := []model.Question{question(1, 60, 0), question(2, 40, 1)}

	summary := scoring.Grade(questions, model.AnswerMap{1: 0}, 70)

	require.Len(t, summary.Results, 2)
	unanswered := summary.Results[1]
	require.Equal(t, uint(2), unanswered.QuestionID)
	require.False(t, unanswered.IsCorrect)
	require.Nil(t, unanswered.SubmittedIndex)
	require.Equal(t, 0, unanswered.EarnedPoints)
	require.Equal(t, 60, summary.Score)
}

func TestGrade_RoundsHalfUp(t *testing.T) {
	scoring := service.NewScoringService()

	// 1 of 8 points = 12.5% -> 13.
	questions := []model.Question{question(1, 1, 0), question(2, 7, 0)}
	summary := scoring.Grade(questions, model.AnswerMap{1: 0, 2: 1}, 70)
	require.Equal(t, 13, summary.Score)

	// 1 of 3 points = 33.33% -> 33.
	questions = []model.Question{question(1, 1, 0), question(2, 2, 0)}
	summary = scoring.Grade(questions, model.AnswerMap{1: 0}, 70)
	require.Equal(t, 33, summary.Score)
}

func TestGrade_EmptyQuestionSetScoresZero(t *testing.T) {
	scoring := service.NewScoringService()

	summary := scoring.Grade(nil, model.AnswerMap{}, 70)

	require.Equal(t, 0, summary.Score)
	require.False(t, summary.Passed)
	require.Equal(t, 0, summary.TotalPoints)
}

func TestGrade_Deterministic(t *testing.T) {
	scoring := service.NewScoringService()
	questions := []model.Question{question(1, 30, 2), question(2, 30, 1), question(3, 40, 0)}
	answers := model.AnswerMap{1: 2, 3: 1}

	first := scoring.Grade(questions, answers, 50)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, scoring.Grade(questions, answers, 50))
	}
}
